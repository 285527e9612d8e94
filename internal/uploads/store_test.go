package uploads

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeFileHeader builds a real multipart.FileHeader the way a request parser would.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

func TestStore_Save(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	content := []byte("fake image bytes")
	name, err := store.Save(makeFileHeader(t, "avatar.PNG", content))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, ".png"), "extension should be lowercased: %s", name)
	assert.Equal(t, name, filepath.Base(name))

	stored, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestStore_SaveAssignsUniqueNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save(makeFileHeader(t, "same.jpg", []byte("one")))
	require.NoError(t, err)
	second, err := store.Save(makeFileHeader(t, "same.jpg", []byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestStore_SaveRejectsUnsupportedTypes(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, filename := range []string{"evil.exe", "noext", "script.php", "archive.tar.gz"} {
		_, err := store.Save(makeFileHeader(t, filename, []byte("x")))
		assert.ErrorIs(t, err, ErrUnsupportedType, "filename %q should be rejected", filename)
	}
}

func TestStore_SaveDistinguishesIOFailures(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	_, err = store.Save(makeFileHeader(t, "avatar.png", []byte("x")))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedType)
}

func TestStore_SaveIgnoresClientPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	name, err := store.Save(makeFileHeader(t, "../../etc/passwd.png", []byte("x")))
	require.NoError(t, err)

	// Stored name is server-assigned, no path components survive
	assert.Equal(t, name, filepath.Base(name))
	assert.NotContains(t, name, "passwd")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_Remove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(makeFileHeader(t, "pic.gif", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, store.Remove("../outside.gif"))
	assert.Error(t, store.Remove(""))
}
