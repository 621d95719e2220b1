// Package service wires the corpus, index, and search layers into the
// operations the CLI and HTTP server expose.
package service

import (
	"context"
	"log/slog"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/analytics"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/config"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/corpus"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/engine"
	apperrors "github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/index"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/normalizer"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/search"
)

// sampleTitleCount bounds the title sample in Stats responses.
const sampleTitleCount = 5

// Stats summarizes the indexed corpus for the stats endpoint.
type Stats struct {
	TotalDocuments int      `json:"total_documents"`
	SampleTitles   []string `json:"sample_titles"`
}

// Service exposes the search engine's operations behind one facade.
type Service struct {
	cfg       *config.Config
	manager   *index.Manager
	builder   *index.Builder
	executor  *search.Executor
	analytics *analytics.Service
	rules     []corpus.CategoryRule
	log       *slog.Logger
}

// New assembles a service from configuration. An existing on-disk index
// is reopened; otherwise the service starts without one and reports
// unavailable until the first rebuild.
func New(cfg *config.Config, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}

	backend, err := engine.ParseBackend(cfg.Index.Backend)
	if err != nil {
		return nil, apperrors.ConfigError("invalid index backend", err)
	}

	manager, err := index.NewManager(backend, cfg.Index.DataDir, log)
	if err != nil {
		return nil, err
	}

	rules := corpus.DefaultCategoryRules
	loader := corpus.NewLoader(rules)
	builder := index.NewBuilder(manager, loader, normalizer.New(), log)

	executor, err := search.NewExecutor(manager,
		cfg.Search.DefaultLimit, cfg.Search.MaxLimit, cfg.Search.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:       cfg,
		manager:   manager,
		builder:   builder,
		executor:  executor,
		analytics: analytics.NewService(manager),
		rules:     rules,
		log:       log,
	}, nil
}

// RebuildIndex rebuilds the index from the configured corpus folder and
// returns the number of documents indexed.
func (s *Service) RebuildIndex(ctx context.Context) (int, error) {
	return s.builder.Rebuild(ctx, s.cfg.Corpus.Dir)
}

// Search runs one paginated, optionally category-filtered query.
func (s *Service) Search(ctx context.Context, params search.Params) (search.Result, error) {
	return s.executor.Search(ctx, params)
}

// Stats reports the document total and a small sample of titles.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	idx, release, err := s.manager.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	total, err := idx.DocCount(ctx)
	if err != nil {
		return nil, apperrors.SearchFailed(err)
	}
	titles, err := idx.Titles(ctx, sampleTitleCount)
	if err != nil {
		return nil, apperrors.SearchFailed(err)
	}
	return &Stats{TotalDocuments: total, SampleTitles: titles}, nil
}

// Categories returns the labels a document can be classified into,
// in rule order with the fallback last.
func (s *Service) Categories() []string {
	return corpus.Categories(s.rules)
}

// AnalyzeCorpus computes corpus-wide statistics from the live index.
func (s *Service) AnalyzeCorpus(ctx context.Context, topN int) (*analytics.Report, error) {
	return s.analytics.Analyze(ctx, topN)
}

// Ready reports whether a searchable index exists.
func (s *Service) Ready() bool {
	return s.manager.Ready()
}

// Close releases the live index.
func (s *Service) Close() error {
	return s.manager.Close()
}
