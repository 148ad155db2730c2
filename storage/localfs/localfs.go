// Package localfs stores evidence objects in a directory tree keyed by
// their keccak-256 CID.
//
// Layout: <root>/<first two hex digits of the digest>/<cid>. Objects are
// written through a temporary file and renamed into place read-only, so a
// reader sees either nothing or the complete object.
package localfs

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/lendingtask/cidutil"
	"xdao.co/lendingtask/storage"
)

const objectMode = 0o444

type CAS struct {
	root string
}

// New opens (creating if needed) a store rooted at root.
func New(root string) (*CAS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &CAS{root: root}, nil
}

// Put stores b and returns its CID. Storing identical bytes again is a
// no-op; finding different bytes under the same CID is ErrImmutable.
func (c *CAS) Put(b []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1RawKeccak256CID(b)
	if err != nil {
		return cid.Undef, err
	}
	path, err := c.objectPath(id)
	if err != nil {
		return cid.Undef, err
	}

	switch existing, err := c.Get(id); {
	case err == nil:
		if !bytes.Equal(existing, b) {
			return cid.Undef, storage.ErrImmutable
		}
		return id, nil
	case storage.IsIntegrity(err):
		// Never repair a corrupted object in place.
		return cid.Undef, storage.ErrImmutable
	case !storage.IsNotFound(err):
		return cid.Undef, err
	}

	if err := writeObject(path, b); err != nil {
		return cid.Undef, err
	}
	return id, nil
}

// Get returns the bytes stored under id after re-deriving their CID.
func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	path, err := c.objectPath(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	got, err := cidutil.CIDv1RawKeccak256CID(b)
	if err != nil {
		return nil, err
	}
	if !got.Equals(id) {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	path, err := c.objectPath(id)
	if err != nil {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// objectPath only accepts keccak-256 CIDs; anything else cannot have been
// produced by Put.
func (c *CAS) objectPath(id cid.Cid) (string, error) {
	digest, ok := cidutil.Keccak256Digest(id)
	if !ok {
		return "", storage.ErrInvalidCID
	}
	return filepath.Join(c.root, hex.EncodeToString(digest[:1]), id.String()), nil
}

func writeObject(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	cleanup := func(cause error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return cause
	}

	if _, err := f.Write(b); err != nil {
		return cleanup(err)
	}
	if err := f.Sync(); err != nil {
		return cleanup(err)
	}
	if err := f.Chmod(objectMode); err != nil {
		return cleanup(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
