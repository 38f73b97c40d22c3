package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveResolveRemove(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)

	ref, err := store.Save("postulantes/123/fotos", FromBytes("mi foto (1).jpg", "image/jpeg", []byte("jpeg")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "postulantes/123/fotos/"))
	assert.True(t, strings.HasSuffix(ref, "_mi_foto_1_.jpg"))

	full, err := store.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, filepath.FromSlash(ref)), full)

	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	// The legacy "storage/" prefix resolves to the same file.
	legacy, err := store.Resolve("storage/" + ref)
	require.NoError(t, err)
	assert.Equal(t, full, legacy)

	require.NoError(t, store.Remove(ref))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Remove(ref), "removing twice is not an error")
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	for _, ref := range []string{"", "../etc/passwd", "postulantes/../../secret", `..\windows`} {
		_, err := store.Resolve(ref)
		assert.ErrorIs(t, err, ErrInvalidPath, ref)
	}
}

func TestLocalStoreKeepsDirectoryInsideRoot(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)

	ref, err := store.Save("../../fuera", FromBytes("a.pdf", "application/pdf", []byte("x")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "fuera/"))

	full, err := store.Resolve(ref)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, root))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "archivo", sanitize(""))
	assert.Equal(t, "cv.pdf", sanitize("C:\\Users\\ana\\cv.pdf"))
	assert.Equal(t, "t_tulo.pdf", sanitize("título.pdf"))
}
