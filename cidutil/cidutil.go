package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	// Registers the sha3 family, including legacy keccak-256.
	_ "github.com/multiformats/go-multihash/register/sha3"
)

// CIDv1RawKeccak256 returns a CIDv1 string using the "raw" multicodec
// and a keccak-256 multihash.
func CIDv1RawKeccak256(data []byte) string {
	id, err := CIDv1RawKeccak256CID(data)
	if err != nil {
		// multihash.Sum only errors for unregistered codes or invalid lengths;
		// keccak-256 is registered above and -1 selects the default length.
		return ""
	}
	return id.String()
}

// CIDv1RawKeccak256CID returns a CIDv1 (raw + keccak-256) derived from data.
//
// The multihash digest equals keccak.Sum256(data), so the CID and the 0x
// fingerprint of the same bytes name the same content.
func CIDv1RawKeccak256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.KECCAK_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Keccak256Digest extracts the raw keccak-256 digest from a CID built by
// CIDv1RawKeccak256CID. ok is false for any other hash function.
func Keccak256Digest(id cid.Cid) (digest []byte, ok bool) {
	if !id.Defined() {
		return nil, false
	}
	decoded, err := multihash.Decode(id.Hash())
	if err != nil || decoded.Code != multihash.KECCAK_256 {
		return nil, false
	}
	return decoded.Digest, true
}
