// Package commitment binds a risk decision to its thread and policy.
//
// The commitment is keccak-256 over the UTF-8 text
//
//	("1" | "0") || threadID || policyFingerprint
//
// where policyFingerprint keeps its "0x" prefix and is hashed as text.
package commitment

import (
	"strings"

	"xdao.co/lendingtask/keccak"
)

// Payload builds the text that is hashed. threadID is used exactly as given.
func Payload(approved bool, threadID, policyFingerprint string) string {
	var sb strings.Builder
	sb.Grow(1 + len(threadID) + len(policyFingerprint))
	if approved {
		sb.WriteByte('1')
	} else {
		sb.WriteByte('0')
	}
	sb.WriteString(threadID)
	sb.WriteString(policyFingerprint)
	return sb.String()
}

// Compute returns the 0x-prefixed commitment hash.
func Compute(approved bool, threadID, policyFingerprint string) string {
	return keccak.HexText(Payload(approved, threadID, policyFingerprint))
}
