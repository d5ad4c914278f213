package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BlobStore {
	t.Helper()
	store, err := NewBlobStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return store
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	name := GenerateStoredName("resume.txt")
	content := []byte("plain text resume")

	require.NoError(t, store.Write(name, content))
	assert.True(t, store.Exists(name))

	got, err := store.Read(name)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestRemoveMissingBlobIsNotAnError(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Remove("never-written.txt"))
}

func TestRemoveDeletesBlob(t *testing.T) {
	store := newTestStore(t)

	name := GenerateStoredName("resume.pdf")
	require.NoError(t, store.Write(name, []byte("%PDF-1.4")))

	require.NoError(t, store.Remove(name))
	assert.False(t, store.Exists(name))
}

func TestGenerateStoredNameKeepsExtension(t *testing.T) {
	name := GenerateStoredName("My Resume (final).PDF")
	assert.True(t, strings.HasSuffix(name, ".pdf"), name)
	assert.NotContains(t, name, " ")

	// Absurd extensions are dropped rather than carried into storage.
	noExt := GenerateStoredName("file." + strings.Repeat("x", 20))
	assert.NotContains(t, noExt, ".")
}

func TestStoredNamesAreUnique(t *testing.T) {
	a := GenerateStoredName("resume.txt")
	b := GenerateStoredName("resume.txt")
	assert.NotEqual(t, a, b)
}

func TestPathTraversalRejected(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"", "../escape.txt", "a/b.txt", "..", "dir\\..\\x"} {
		assert.Error(t, store.Write(name, []byte("x")), name)
		_, err := store.Read(name)
		assert.Error(t, err, name)
	}
}

func TestSniffContentType(t *testing.T) {
	assert.True(t, strings.HasPrefix(SniffContentType([]byte("hello world")), "text/plain"))
	assert.Equal(t, "application/pdf", SniffContentType([]byte("%PDF-1.4 & more bytes")))
}
