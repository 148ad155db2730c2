package keccak

import (
	"encoding/hex"
	"strings"
	"testing"

	"golang.org/x/crypto/sha3"
)

func TestHex_KnownVectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{"abc", "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"},
	}
	for _, tc := range cases {
		if got := HexText(tc.in); got != tc.want {
			t.Fatalf("HexText(%q): got %s want %s", tc.in, got, tc.want)
		}
		if got := Hex([]byte(tc.in)); got != tc.want {
			t.Fatalf("Hex(%q): got %s want %s", tc.in, got, tc.want)
		}
	}
}

func TestHex_IsNotNISTSHA3(t *testing.T) {
	nist := sha3.Sum256(nil)
	if HexText("") == "0x"+hex.EncodeToString(nist[:]) {
		t.Fatalf("keccak digest must differ from NIST SHA3-256")
	}
}

func TestHex_TextVersusDecodedBytes(t *testing.T) {
	text := "0xabcdef"
	decoded, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		t.Fatalf("DecodeString: %v", err)
	}
	if HexText(text) == Hex(decoded) {
		t.Fatalf("hashing text and decoded bytes must differ")
	}
}

func TestIsHex(t *testing.T) {
	if !IsHex(ZeroHex) {
		t.Fatalf("ZeroHex must be well-formed")
	}
	if len(ZeroHex) != HexLen {
		t.Fatalf("ZeroHex length: got %d want %d", len(ZeroHex), HexLen)
	}
	if !IsHex(HexText("x")) {
		t.Fatalf("Hex output must be well-formed")
	}
	bad := []string{
		"",
		"0x",
		ZeroHex[2:],
		"0X" + ZeroHex[2:],
		"0x" + strings.Repeat("A", 64),
		ZeroHex + "0",
		"0x" + strings.Repeat("g", 64),
	}
	for _, s := range bad {
		if IsHex(s) {
			t.Fatalf("IsHex(%q): got true want false", s)
		}
	}
}
