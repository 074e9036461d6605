package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_CreatesIsolatedDirs(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	a, err := m.Acquire()
	require.NoError(t, err)
	b, err := m.Acquire()
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.OutputDir(), b.OutputDir())
	assert.DirExists(t, a.InputDir())
	assert.DirExists(t, a.OutputDir())
	assert.Equal(t, m.Root(), filepath.Dir(a.Dir()))
}

func TestRelease_RemovesEverything(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	ws, err := m.Acquire()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(ws.OutputDir(), "x.png"), []byte("x"), 0o644))

	require.NoError(t, ws.Release())
	require.NoError(t, ws.Release())
	assert.NoDirExists(t, ws.Dir())
}

func TestAcquire_Concurrent(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	const n = 32
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ws, err := m.Acquire()
			if assert.NoError(t, err) {
				ids <- ws.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate workspace %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestPurge_RemovesOnlyWorkspaces(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(root)
	require.NoError(t, err)

	_, err = m.Acquire()
	require.NoError(t, err)
	_, err = m.Acquire()
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(root, "keep"), 0o755))

	removed, err := m.Purge()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep", entries[0].Name())
}
