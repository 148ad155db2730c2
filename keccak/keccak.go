// Package keccak computes the Ethereum flavour of Keccak-256.
//
// This is the original Keccak submission padding (0x01), not NIST SHA3-256
// (0x06). The two produce different digests for the same input; on-chain
// verifiers use the former.
package keccak

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Size is the digest length in bytes.
const Size = 32

// HexLen is the length of a formatted digest: "0x" plus 64 hex digits.
const HexLen = 2 + 2*Size

// ZeroHex is the all-zero digest in the same format Hex produces.
const ZeroHex = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Sum256 returns the Keccak-256 digest of data.
func Sum256(data []byte) [Size]byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	var out [Size]byte
	h.Sum(out[:0])
	return out
}

// Hex returns the digest of raw bytes as lowercase 0x-prefixed hex.
func Hex(data []byte) string {
	sum := Sum256(data)
	return "0x" + hex.EncodeToString(sum[:])
}

// HexText hashes the UTF-8 bytes of s. A hex-looking s is hashed as text,
// never decoded first.
func HexText(s string) string {
	return Hex([]byte(s))
}

// IsHex reports whether s is a formatted digest: 0x followed by exactly
// 64 lowercase hex digits.
func IsHex(s string) bool {
	if len(s) != HexLen || s[0] != '0' || s[1] != 'x' {
		return false
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
