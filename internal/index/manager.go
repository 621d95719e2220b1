// Package index manages the lifecycle of search indexes: which index is
// live, reference counting for in-flight readers, and atomic swaps after
// a rebuild.
package index

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/engine"
	apperrors "github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
)

// currentPointerFile records which index under the data directory is live,
// so a restart reopens the same generation.
const currentPointerFile = "current"

// generation is one built index plus its reader refcount. A retired
// generation closes once the last reader releases it.
type generation struct {
	idx     engine.Index
	refs    int
	retired bool
}

// Manager hands out the live index to readers and swaps in freshly built
// indexes without interrupting searches in flight.
type Manager struct {
	mu      sync.Mutex
	backend engine.Backend
	dataDir string
	current *generation
	gen     uint64
	log     *slog.Logger
}

// NewManager creates a manager for indexes stored under dataDir. If a
// current-pointer file exists it reopens that index; otherwise the manager
// starts without a live index and Acquire fails until the first Swap.
func NewManager(backend engine.Backend, dataDir string, log *slog.Logger) (*Manager, error) {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{backend: backend, dataDir: dataDir, log: log}

	if dataDir == "" {
		return m, nil
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	name, err := m.readPointer()
	if err != nil || name == "" {
		return m, nil
	}

	path := filepath.Join(dataDir, name)
	idx, err := engine.Open(backend, path)
	if err != nil {
		// A stale pointer is not fatal; the next rebuild replaces it.
		log.Warn("could not reopen index, rebuild required",
			"path", path, "error", err)
		return m, nil
	}

	m.current = &generation{idx: idx}
	m.gen = 1
	log.Info("reopened index", "path", path, "backend", string(backend))
	return m, nil
}

// Acquire returns the live index and a release function. The release must
// be called when the caller is done; it keeps a retired generation alive
// until its last reader finishes.
func (m *Manager) Acquire() (engine.Index, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, nil, apperrors.IndexUnavailable()
	}

	g := m.current
	g.refs++

	release := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		g.refs--
		if g.retired && g.refs == 0 {
			m.closeGeneration(g)
		}
	}
	return g.idx, release, nil
}

// Swap installs idx as the live index and retires the previous generation.
// The previous index closes immediately when idle, otherwise when its last
// reader releases it.
func (m *Manager) Swap(idx engine.Index) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.current
	m.current = &generation{idx: idx}
	m.gen++

	if err := m.writePointer(idx.Path()); err != nil {
		m.log.Warn("could not persist index pointer", "error", err)
	}

	if old != nil {
		old.retired = true
		if old.refs == 0 {
			m.closeGeneration(old)
		}
	}
}

// Generation returns a counter that increments on every Swap. Cached
// search results are keyed on it so a rebuild invalidates them.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// Ready reports whether a live index exists.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Close retires the live index. Readers holding a reference keep it open
// until they release.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	g := m.current
	m.current = nil
	g.retired = true
	if g.refs == 0 {
		m.closeGeneration(g)
	}
	return nil
}

// closeGeneration closes a retired index and removes its files. Superseded
// generations have no further readers, so their storage is reclaimed.
// Caller holds m.mu.
func (m *Manager) closeGeneration(g *generation) {
	path := g.idx.Path()
	if err := g.idx.Close(); err != nil {
		m.log.Warn("error closing retired index", "path", path, "error", err)
	}
	if path == "" {
		return
	}
	if current, _ := m.readPointer(); current == filepath.Base(path) {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		m.log.Warn("could not remove retired index", "path", path, "error", err)
	}
}

// readPointer returns the basename of the live index recorded on disk.
func (m *Manager) readPointer() (string, error) {
	if m.dataDir == "" {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Join(m.dataDir, currentPointerFile))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// writePointer records the live index basename atomically via rename.
func (m *Manager) writePointer(indexPath string) error {
	if m.dataDir == "" || indexPath == "" {
		return nil
	}
	target := filepath.Join(m.dataDir, currentPointerFile)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(filepath.Base(indexPath)+"\n"), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
