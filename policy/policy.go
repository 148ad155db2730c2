// Package policy fingerprints the policy definition bundled with the task.
//
// The policy file is opaque: its bytes are hashed verbatim and its format is
// never interpreted. A missing file yields the zero placeholder rather than
// an error so the task still completes on images built without a policy.
package policy

import (
	"xdao.co/lendingtask/cidutil"
	"xdao.co/lendingtask/keccak"
)

// DefaultPath is where the policy definition is bundled in the task image.
const DefaultPath = "/app/main.aleo"

// ZeroFingerprint is the placeholder used when no policy file is present.
const ZeroFingerprint = keccak.ZeroHex

// Artifact describes the policy a computation ran under.
type Artifact struct {
	// Present is false when the policy file did not exist.
	Present bool
	// Fingerprint is the 0x-prefixed keccak-256 of the file bytes, or
	// ZeroFingerprint when absent.
	Fingerprint string
	// CID is the CIDv1 (raw + keccak-256) of the file bytes; empty when absent.
	CID string
	// Size is the number of bytes hashed.
	Size int
}

// Fingerprint returns the keccak-256 of the raw policy bytes.
func Fingerprint(policyBytes []byte) string {
	return keccak.Hex(policyBytes)
}

// FromBytes builds the artifact for a policy file that exists.
// An existing empty file is still a present policy.
func FromBytes(policyBytes []byte) Artifact {
	return Artifact{
		Present:     true,
		Fingerprint: Fingerprint(policyBytes),
		CID:         cidutil.CIDv1RawKeccak256(policyBytes),
		Size:        len(policyBytes),
	}
}

// Absent is the artifact used when the policy file does not exist.
func Absent() Artifact {
	return Artifact{Fingerprint: ZeroFingerprint}
}
