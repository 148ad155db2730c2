package storage

import "errors"

var (
	// ErrNotFound is returned by Get when no object is stored under a CID.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidCID rejects undefined CIDs.
	ErrInvalidCID = errors.New("storage: invalid cid")
	// ErrCIDMismatch means stored bytes no longer hash to their key.
	ErrCIDMismatch = errors.New("storage: cid mismatch")
	// ErrImmutable means a Put collided with different or corrupted bytes.
	ErrImmutable = errors.New("storage: immutable object mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsIntegrity reports whether err signals corrupted or conflicting content.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrCIDMismatch) || errors.Is(err, ErrImmutable)
}
