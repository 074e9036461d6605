// Package workspace hands out per-request scratch directories so that
// concurrent conversions never share a file name.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	dirPrefix = "req-"
	inputDir  = "in"
	outputDir = "out"
)

// Manager creates workspaces under a single root directory.
type Manager struct {
	root string
}

// NewManager ensures root exists and returns a manager for it.
func NewManager(root string) (*Manager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating work dir %s: %w", root, err)
	}
	return &Manager{root: root}, nil
}

// Root returns the directory workspaces are created in.
func (m *Manager) Root() string { return m.root }

// Acquire creates a fresh workspace. The caller must Release it.
func (m *Manager) Acquire() (*Workspace, error) {
	id := uuid.NewString()
	dir := filepath.Join(m.root, dirPrefix+id)

	for _, sub := range []string{inputDir, outputDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("creating workspace %s: %w", id, err)
		}
	}

	return &Workspace{ID: id, dir: dir}, nil
}

// Purge removes workspaces left behind by a previous process and returns how many were removed.
func (m *Manager) Purge() (int, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return 0, fmt.Errorf("reading work dir %s: %w", m.root, err)
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), dirPrefix) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(m.root, e.Name())); err != nil {
			return removed, fmt.Errorf("removing stale workspace %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// Workspace is a request-scoped directory with separate input and output areas.
type Workspace struct {
	ID string

	dir  string
	once sync.Once
	err  error
}

func (w *Workspace) Dir() string       { return w.dir }
func (w *Workspace) InputDir() string  { return filepath.Join(w.dir, inputDir) }
func (w *Workspace) OutputDir() string { return filepath.Join(w.dir, outputDir) }

// Release removes the workspace and everything in it. Safe to call more than once.
func (w *Workspace) Release() error {
	w.once.Do(func() {
		w.err = os.RemoveAll(w.dir)
	})
	return w.err
}
