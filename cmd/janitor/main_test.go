package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/soundboard-bot/internal/infra/storage"
)

func seed(t *testing.T, names ...string) *storage.AudioStore {
	t.Helper()
	store, err := storage.NewAudioStore(t.TempDir())
	require.NoError(t, err)
	for _, n := range names {
		_, err := store.Save(n, strings.NewReader(strings.Repeat("x", 2048)))
		require.NoError(t, err)
	}
	return store
}

func TestSweepReportOnly(t *testing.T) {
	store := seed(t, "kept.dca", "orphan.dca")
	catalog := map[string]bool{"kept.dca": true, "lost.dca": true}

	rep, err := sweep(catalog, store, false)
	require.NoError(t, err)
	require.Len(t, rep.OrphanFiles, 1)
	assert.Equal(t, "orphan.dca", rep.OrphanFiles[0].Name)
	assert.Equal(t, []string{"lost.dca"}, rep.MissingFiles)
	assert.Zero(t, rep.Freed)

	files, _ := store.List()
	assert.Len(t, files, 2)

	var out bytes.Buffer
	rep.print(&out, false)
	assert.Contains(t, out.String(), "1 orphan files (2.0 KiB), 1 catalog entries without audio")
}

func TestSweepDelete(t *testing.T) {
	store := seed(t, "kept.dca", "orphan.dca", "other.dca")
	rep, err := sweep(map[string]bool{"kept.dca": true}, store, true)
	require.NoError(t, err)
	assert.Len(t, rep.OrphanFiles, 2)
	assert.Equal(t, int64(4096), rep.Freed)

	files, _ := store.List()
	require.Len(t, files, 1)
	assert.Equal(t, "kept.dca", files[0].Name)

	var out bytes.Buffer
	rep.print(&out, true)
	assert.Contains(t, out.String(), "freed 4.0 KiB")
}
