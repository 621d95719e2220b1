package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectTrigger(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Triggers():
	case <-time.After(5 * time.Second):
		t.Fatal("no trigger received")
	}
}

func expectNoTrigger(t *testing.T, w *Watcher, wait time.Duration) {
	t.Helper()
	select {
	case <-w.Triggers():
		t.Fatal("unexpected trigger")
	case <-time.After(wait):
	}
}

func TestWatcher_TriggersOnDocumentWrite(t *testing.T) {
	dir := t.TempDir()
	w := New(50*time.Millisecond, nil)
	defer func() { _ = w.Stop() }()

	require.NoError(t, w.Start(context.Background(), dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sejarah_baru.txt"), []byte("isi dokumen"), 0o644))
	expectTrigger(t, w)
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	w := New(100*time.Millisecond, nil)
	defer func() { _ = w.Stop() }()

	require.NoError(t, w.Start(context.Background(), dir))

	// A burst of writes within the window yields a single trigger
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "dokumen.txt")
		require.NoError(t, os.WriteFile(name, []byte("revisi"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	expectTrigger(t, w)
	expectNoTrigger(t, w, 300*time.Millisecond)
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	w := New(50*time.Millisecond, nil)
	defer func() { _ = w.Stop() }()

	require.NoError(t, w.Start(context.Background(), dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "catatan.md"), []byte("bukan korpus"), 0o644))
	expectNoTrigger(t, w, 300*time.Millisecond)
}

func TestWatcher_WatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	w := New(50*time.Millisecond, nil)
	defer func() { _ = w.Stop() }()

	require.NoError(t, w.Start(context.Background(), dir))

	sub := filepath.Join(dir, "wisata")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher a moment to pick up the new directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "wisata_pantai.txt"), []byte("pantai"), 0o644))
	expectTrigger(t, w)
}

func TestWatcher_StartMissingFolder(t *testing.T) {
	w := New(50*time.Millisecond, nil)
	err := w.Start(context.Background(), filepath.Join(t.TempDir(), "hilang"))
	assert.Error(t, err)
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w := New(50*time.Millisecond, nil)
	require.NoError(t, w.Start(context.Background(), t.TempDir()))
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
