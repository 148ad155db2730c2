package localfs

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"xdao.co/lendingtask/cidutil"
	"xdao.co/lendingtask/storage"
	"xdao.co/lendingtask/storage/testkit"
)

func newStore(t *testing.T) *CAS {
	t.Helper()
	cas, err := New(t.TempDir())
	require.NoError(t, err)
	return cas
}

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return newStore(t)
	})
}

func TestLocalFS_CorruptedObjectIsNotRepaired(t *testing.T) {
	cas := newStore(t)
	orig := []byte("original")
	id, err := cas.Put(orig)
	require.NoError(t, err)

	path, err := cas.objectPath(id)
	require.NoError(t, err)
	require.NoError(t, os.Chmod(path, 0o644))
	require.NoError(t, os.WriteFile(path, []byte("corrupted"), 0o644))

	_, err = cas.Get(id)
	require.True(t, errors.Is(err, storage.ErrCIDMismatch), "Get: %v", err)

	_, err = cas.Put(orig)
	require.True(t, errors.Is(err, storage.ErrImmutable), "Put: %v", err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "corrupted", string(got))
}

func TestLocalFS_LayoutAndMode(t *testing.T) {
	root := t.TempDir()
	cas, err := New(root)
	require.NoError(t, err)

	b := []byte("evidence")
	id, err := cas.Put(b)
	require.NoError(t, err)

	digest, ok := cidutil.Keccak256Digest(id)
	require.True(t, ok)
	path := filepath.Join(root, hex.EncodeToString(digest[:1]), id.String())
	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(objectMode), st.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files left behind")
}

func TestNew_RequiresRoot(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}
