// Package task runs one confidential lending computation end to end:
// load input, fingerprint policy, evaluate risk, commit, write callback.
//
// It is the only package that touches the filesystem. Every failure is
// terminal for the invocation and no output file is left behind.
//
// Evidence, when enabled, is stored before the callback is written. The
// output directory is checked first, but a write that fails after that
// check leaves the evidence object in the store. Evidence objects are
// immutable and content-addressed, so a rerun stores the same object.
package task
