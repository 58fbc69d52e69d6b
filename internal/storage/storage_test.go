package storage

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Denah Lantai 1.pdf", "Denah Lantai 1.pdf"},
		{"../../etc/passwd", "passwd"},
		{"laporan/akhir.pdf", "akhir.pdf"},
		{"desain:final*v2.dwg", "desain-final-v2.dwg"},
		{"  .hidden.  ", "hidden"},
		{"...", "file"},
		{"", "file"},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, Sanitize(tc.in), "input %q", tc.in)
	}
}

func TestSaveAndOpen(t *testing.T) {
	store := newTestStore(t)

	name, size, err := store.Save("p-1", "Rumah Surya", "penawaran.pdf", strings.NewReader("isi dokumen"))
	require.NoError(t, err)
	require.Equal(t, int64(len("isi dokumen")), size)
	require.Equal(t, "penawaran.pdf", name)

	f, err := store.Open("p-1", "Rumah Surya", name)
	require.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "isi dokumen", string(content))
}

func TestSaveSuffixesCollisions(t *testing.T) {
	store := newTestStore(t)

	first, _, err := store.Save("p-1", "Rumah", "denah.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	second, _, err := store.Save("p-1", "Rumah", "denah.pdf", strings.NewReader("b"))
	require.NoError(t, err)
	third, _, err := store.Save("p-1", "Rumah", "denah.pdf", strings.NewReader("c"))
	require.NoError(t, err)

	require.Equal(t, "denah.pdf", first)
	require.Equal(t, "denah-1.pdf", second)
	require.Equal(t, "denah-2.pdf", third)
}

func TestOpenRejectsEscapingPaths(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open("p-1", "Rumah", "../../outside.txt")
	require.ErrorIs(t, err, ErrOutsideBase)

	err = store.Remove("p-1", "Rumah", "../../../etc/passwd")
	require.ErrorIs(t, err, ErrOutsideBase)
}

func TestRemoveMissingFileIsFine(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Remove("p-1", "Rumah", "tidak-ada.pdf"))
}

func TestRenameProjectDir(t *testing.T) {
	store := newTestStore(t)

	name, _, err := store.Save("p-1", "Rumah Lama", "denah.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.RenameProjectDir("p-1", "Rumah Lama", "Rumah Baru"))

	f, err := store.Open("p-1", "Rumah Baru", name)
	require.NoError(t, err)
	f.Close()

	_, err = os.Stat(store.ProjectDir("p-1", "Rumah Lama"))
	require.True(t, os.IsNotExist(err))
}

func TestRenameMissingDirIsFine(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RenameProjectDir("p-9", "Belum Ada", "Masih Belum"))
}
