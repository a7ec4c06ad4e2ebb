package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "src-*.txt")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestCopyIntoPlacesFileAtRequestedRelativePath(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	src := writeTempFile(t, "hello world")
	dest, err := store.CopyInto(context.Background(), src, "document/products/report.txt")
	require.NoError(t, err)
	assert.Equal(t, "document/products/report.txt", dest)

	resolved, err := store.Resolve(dest)
	require.NoError(t, err)
	data, err := os.ReadFile(resolved)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestCopyIntoDisambiguatesNameCollisions(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	src1 := writeTempFile(t, "first")
	src2 := writeTempFile(t, "second")

	dest1, err := store.CopyInto(context.Background(), src1, "image/media/photo.jpg")
	require.NoError(t, err)
	dest2, err := store.CopyInto(context.Background(), src2, "image/media/photo.jpg")
	require.NoError(t, err)

	assert.Equal(t, "image/media/photo.jpg", dest1)
	assert.Equal(t, "image/media/photo_1.jpg", dest2)

	resolved2, err := store.Resolve(dest2)
	require.NoError(t, err)
	data, err := os.ReadFile(resolved2)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestResolveJoinsRootAndRelativePath(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	require.NoError(t, err)

	resolved, err := store.Resolve("a/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b", "c.txt"), resolved)
}
