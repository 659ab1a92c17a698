package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("data")
	require.NoError(t, err)

	want := filepath.Join(tmp, "data")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubdDir_AbsolutePath(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "data")

	got, err := EnsureSubdDir(want)
	require.NoError(t, err)
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureSubdDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubdDir("data")
	require.NoError(t, err)

	second, err := EnsureSubdDir("data")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("data", []byte("x"), 0o660))

	_, err := EnsureSubdDir("data")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestReadAttachment(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(txt, []byte("doctor's note"), 0o600))

	data, ct, err := ReadAttachment(txt)
	require.NoError(t, err)
	require.Equal(t, "doctor's note", string(data))
	require.Equal(t, "text/plain; charset=utf-8", ct)

	_, _, err = ReadAttachment(filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)

	_, _, err = ReadAttachment(dir)
	require.Error(t, err)
}

func TestReadAttachment_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.bin")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxAttachmentSize+1))
	require.NoError(t, f.Close())

	_, _, err = ReadAttachment(path)
	require.ErrorIs(t, err, ErrAttachmentTooLarge)
}
