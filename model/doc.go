// Package model defines the data shared across the task runner stages:
// the input record, the risk result and the structured error taxonomy.
//
// Nothing here performs I/O. The task package is the only place that reads
// or writes files; every other package consumes and returns these types.
package model
