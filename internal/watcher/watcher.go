// Package watcher observes the corpus folder and signals when its
// documents change, so the index can be rebuilt automatically.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a corpus folder recursively. Rapid bursts of file
// events, such as an rsync of the whole corpus, coalesce into a single
// trigger after the debounce window passes quietly.
type Watcher struct {
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	trigger chan struct{}
	stopped bool
}

// New creates a watcher with the given debounce window.
func New(debounce time.Duration, log *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		debounce: debounce,
		log:      log,
		trigger:  make(chan struct{}, 1),
	}
}

// Triggers returns the channel that fires after corpus changes settle.
// The channel has capacity one; pending triggers do not stack.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.trigger
}

// Start begins watching folder and its subdirectories. It returns once
// watching is established; events are processed until ctx is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context, folder string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := addRecursive(fsw, folder); err != nil {
		_ = fsw.Close()
		return err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	go w.loop(ctx, fsw)
	w.log.Info("watching corpus folder", "folder", folder, "debounce", w.debounce.String())
	return nil
}

// Stop stops watching. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// handle filters events down to corpus documents and arms the debounce
// timer. New directories are added to the watch set so documents created
// inside them are seen.
func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addRecursive(fsw, event.Name); err != nil {
				w.log.Warn("could not watch new directory", "dir", event.Name, "error", err)
			}
			return
		}
	}

	if !isCorpusFile(event.Name) {
		return
	}
	if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		w.log.Debug("corpus change", "file", filepath.Base(event.Name), "op", event.Op.String())
		w.arm()
	}
}

// arm starts or resets the debounce timer.
func (w *Watcher) arm() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire emits one trigger, dropping it if the previous one is unconsumed.
func (w *Watcher) fire() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// addRecursive watches path and every directory below it. Non-directory
// paths are ignored.
func addRecursive(fsw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fsw.Add(p)
	})
}

// isCorpusFile reports whether path is an indexable corpus document.
func isCorpusFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
