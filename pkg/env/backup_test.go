package env

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyProducesOpenableBackup(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)
	put(t, e, main, "k", "v")
	require.NoError(t, e.Flush())

	target := filepath.Join(t.TempDir(), "backup")
	man, err := e.Copy(target)
	require.NoError(t, err)
	assert.NotEmpty(t, man.ID)
	assert.Equal(t, e.Path(), man.Source)
	assert.FileExists(t, filepath.Join(target, ManifestName))

	restored, err := Open(Options{Path: target})
	require.NoError(t, err)
	defer restored.Close()
	rmain, err := restored.OpenDB(MainDB)
	require.NoError(t, err)
	got, err := rmain.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestCopyRefusesExistingTarget(t *testing.T) {
	e := openTestEnv(t)

	target := t.TempDir()
	_, err := e.Copy(target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCopyFDStreamsTarArchive(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)
	put(t, e, main, "k", "v")
	require.NoError(t, e.Flush())

	out, err := os.Create(filepath.Join(t.TempDir(), "backup.tar"))
	require.NoError(t, err)
	require.NoError(t, e.CopyFD(out))
	require.NoError(t, out.Close())

	f, err := os.Open(out.Name())
	require.NoError(t, err)
	defer f.Close()

	names := map[string]bool{}
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names[hdr.Name] = true
		_, err = io.Copy(io.Discard, tr)
		require.NoError(t, err)
	}
	assert.True(t, names[ManifestName], "archive should contain the manifest, got %v", names)
	assert.Greater(t, len(names), 1, "archive should contain checkpoint files")
}

func TestWarmTouchesEveryByte(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)
	put(t, e, main, "k", "v")
	require.NoError(t, e.Flush())

	n, err := e.Warm()
	require.NoError(t, err)
	assert.Greater(t, n, int64(0))
}
