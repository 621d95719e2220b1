package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/corpus"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/engine"
	apperrors "github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/normalizer"
)

// insertBatchSize balances transaction overhead against memory held per
// batch while streaming documents into the shadow index.
const insertBatchSize = 128

// Builder rebuilds the search index from a corpus folder. Rebuilds happen
// against a shadow index that swaps in atomically on success, so readers
// always see either the old complete index or the new one.
type Builder struct {
	manager  *Manager
	loader   *corpus.Loader
	norm     *normalizer.Normalizer
	log      *slog.Logger
	building atomic.Bool
}

// NewBuilder creates a builder targeting the manager's backend and data
// directory.
func NewBuilder(manager *Manager, loader *corpus.Loader, norm *normalizer.Normalizer, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{manager: manager, loader: loader, norm: norm, log: log}
}

// Rebuild loads every .txt document under folder, normalizes it, and
// builds a fresh index that replaces the live one. Returns the number of
// documents indexed. Unreadable or uninsertable documents are logged and
// skipped without failing the run. Only one
// rebuild may run at a time, across processes when the index is on disk.
func (b *Builder) Rebuild(ctx context.Context, folder string) (int, error) {
	if !b.building.CompareAndSwap(false, true) {
		return 0, apperrors.RebuildInProgress()
	}
	defer b.building.Store(false)

	if b.manager.dataDir != "" {
		lock := flock.New(filepath.Join(b.manager.dataDir, "rebuild.lock"))
		locked, err := lock.TryLock()
		if err != nil {
			return 0, fmt.Errorf("acquire rebuild lock: %w", err)
		}
		if !locked {
			return 0, apperrors.RebuildInProgress()
		}
		defer func() { _ = lock.Unlock() }()
	}

	start := time.Now()
	path := b.shadowPath()
	idx, err := engine.Create(b.manager.backend, path)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInternal, err)
	}

	count, err := b.fill(ctx, idx, folder)
	if err != nil {
		_ = idx.Close()
		if path != "" {
			_ = os.RemoveAll(path)
		}
		return 0, err
	}

	b.manager.Swap(idx)
	b.log.Info("index rebuilt",
		"documents", count,
		"backend", string(b.manager.backend),
		"duration", time.Since(start).Round(time.Millisecond).String())
	return count, nil
}

// shadowPath returns a fresh location for the next index generation, or
// empty for in-memory managers.
func (b *Builder) shadowPath() string {
	if b.manager.dataDir == "" {
		return ""
	}
	base := filepath.Join(b.manager.dataDir, fmt.Sprintf("index-%d", time.Now().UnixNano()))
	return engine.PathFor(b.manager.backend, base)
}

// fill streams the corpus through normalization workers into idx and
// returns the number of documents inserted.
func (b *Builder) fill(ctx context.Context, idx engine.Index, folder string) (int, error) {
	results, err := b.loader.Load(folder)
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	normalized := make(chan engine.Document, insertBatchSize)

	workers := runtime.NumCPU()
	if workers > 4 {
		workers = 4
	}
	var workersDone atomic.Int64
	workersDone.Store(int64(workers))

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			defer func() {
				if workersDone.Add(-1) == 0 {
					close(normalized)
				}
			}()
			for res := range results {
				if res.Err != nil {
					b.log.Warn("skipping document", "error", res.Err)
					continue
				}
				doc := engine.Document{
					Title:    res.Doc.Title,
					URL:      res.Doc.URL,
					Category: res.Doc.Category,
					Content:  b.norm.Normalize(res.Doc.Content),
				}
				select {
				case normalized <- doc:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	var count int
	g.Go(func() error {
		batch := make([]engine.Document, 0, insertBatchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := idx.Insert(ctx, batch); err != nil {
				// Retry the batch one document at a time so a single bad
				// record is skipped instead of sinking the whole run.
				for _, doc := range batch {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					if err := idx.Insert(ctx, []engine.Document{doc}); err != nil {
						b.log.Warn("skipping document",
							"title", doc.Title,
							"error", apperrors.Wrap(apperrors.ErrCodeDocumentInsert, err))
						continue
					}
					count++
				}
				batch = batch[:0]
				return nil
			}
			count += len(batch)
			batch = batch[:0]
			return nil
		}
		for doc := range normalized {
			batch = append(batch, doc)
			if len(batch) >= insertBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})

	if err := g.Wait(); err != nil {
		// Unblock the loader goroutine so it can finish its walk.
		go func() {
			for range results {
			}
		}()
		return 0, err
	}
	return count, nil
}
