// Package testkit holds a reusable conformance suite for storage.CAS
// implementations.
package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/lendingtask/cidutil"
	"xdao.co/lendingtask/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test.
type NewCAS func(t *testing.T) storage.CAS

// RunCASConformance checks the storage.CAS contract against newCAS.
func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	payloads := map[string][]byte{
		"empty":    {},
		"evidence": []byte("RESULT\nApproved: true\n"),
		"binary":   {0x00, 0xff, 0x10, 0x80},
	}
	for name, want := range payloads {
		want := want
		t.Run("RoundTrip/"+name, func(t *testing.T) {
			cas := newCAS(t)
			id, err := cas.Put(want)
			if err != nil {
				t.Fatalf("Put: %v", err)
			}
			if wantID := mustCID(t, want); !id.Equals(wantID) {
				t.Fatalf("Put CID: got %s want %s", id, wantID)
			}
			if !cas.Has(id) {
				t.Fatalf("Has(%s) false after Put", id)
			}
			got, err := cas.Get(id)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("Get bytes: got %x want %x", got, want)
			}
		})
	}

	t.Run("PutIsIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("Callback-Data: 0x00")
		first, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1): %v", err)
		}
		second, err := cas.Put(append([]byte(nil), b...))
		if err != nil {
			t.Fatalf("Put(2): %v", err)
		}
		if !first.Equals(second) {
			t.Fatalf("Put not idempotent: %s vs %s", first, second)
		}
	})

	t.Run("MissingObject", func(t *testing.T) {
		cas := newCAS(t)
		id := mustCID(t, []byte("never stored"))
		if cas.Has(id) {
			t.Fatalf("Has true for missing object")
		}
		if _, err := cas.Get(id); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got %v want ErrNotFound", err)
		}
	})

	t.Run("RejectsForeignCIDs", func(t *testing.T) {
		cas := newCAS(t)
		sum, err := multihash.Sum([]byte("x"), multihash.SHA2_256, -1)
		if err != nil {
			t.Fatalf("multihash.Sum: %v", err)
		}
		for _, id := range []cid.Cid{cid.Undef, cid.NewCidV1(cid.Raw, sum)} {
			if cas.Has(id) {
				t.Fatalf("Has true for %v", id)
			}
			if _, err := cas.Get(id); err == nil {
				t.Fatalf("Get succeeded for %v", id)
			}
		}
	})

	t.Run("DistinctBytesDistinctCIDs", func(t *testing.T) {
		cas := newCAS(t)
		a, err := cas.Put([]byte("Approved: true"))
		if err != nil {
			t.Fatalf("Put(a): %v", err)
		}
		b, err := cas.Put([]byte("Approved: false"))
		if err != nil {
			t.Fatalf("Put(b): %v", err)
		}
		if a.Equals(b) {
			t.Fatalf("distinct bytes share CID %s", a)
		}
	})
}

func mustCID(t *testing.T, b []byte) cid.Cid {
	t.Helper()
	id, err := cidutil.CIDv1RawKeccak256CID(b)
	if err != nil {
		t.Fatalf("CIDv1RawKeccak256CID: %v", err)
	}
	return id
}
