package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioStoreSaveOpenList(t *testing.T) {
	store, err := NewAudioStore(t.TempDir())
	require.NoError(t, err)

	n, err := store.Save("airhorn.dca", strings.NewReader("frames"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	rc, err := store.Open("airhorn.dca")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "frames", string(b))

	files, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []StoredFile{{Name: "airhorn.dca", Size: 6}}, files)
}

func TestAudioStoreOverwritesSameName(t *testing.T) {
	store, err := NewAudioStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("a.dca", strings.NewReader("one"))
	require.NoError(t, err)
	_, err = store.Save("a.dca", strings.NewReader("two"))
	require.NoError(t, err)

	rc, err := store.Open("a.dca")
	require.NoError(t, err)
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "two", string(b))
}

func TestAudioStoreKeepsFilesInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAudioStore(dir)
	require.NoError(t, err)

	_, err = store.Save("../../escape.dca", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "sounds", "escape.dca"))
	require.NoError(t, err)
}

func TestAudioStoreOpenMissing(t *testing.T) {
	store, err := NewAudioStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("nope.dca")
	require.True(t, errors.Is(err, ErrNotFound))
}
