package compliance

import (
	"fmt"
	"strings"
)

// Mode selects how aggressively inputs are rejected.
//
// Strict mode prefers explicit failure over silent acceptance: negative
// figures are refused. Permissive mode only refuses what cannot be computed
// at all (a zero collateral value).
type Mode int

const (
	Strict Mode = iota
	Permissive
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "strict" or "permissive" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return Strict, nil
	case "permissive":
		return Permissive, nil
	default:
		return Strict, fmt.Errorf("unknown compliance mode %q (want strict or permissive)", s)
	}
}
