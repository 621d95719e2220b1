package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/server"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/service"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/watcher"
)

func newServeCmd() *cobra.Command {
	var rebuild bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP search API",
		Long: `Serve the search API over HTTP.

An existing index is reopened from the data directory. Use --rebuild to
reindex the corpus on startup, and --watch to rebuild automatically when
corpus documents change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rebuild, watch)
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild the index before serving")
	cmd.Flags().BoolVar(&watch, "watch", false, "Watch the corpus folder and rebuild on changes")

	return cmd
}

func runServe(ctx context.Context, rebuild, watch bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	log := logger()

	svc, err := service.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if rebuild || !svc.Ready() {
		log.Info("building index", "corpus", cfg.Corpus.Dir)
		count, err := svc.RebuildIndex(ctx)
		if err != nil {
			return err
		}
		log.Info("index ready", "documents", count)
	}

	if watch || cfg.Watcher.Enabled {
		w := watcher.New(cfg.Watcher.Debounce, log)
		if err := w.Start(ctx, cfg.Corpus.Dir); err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		go func() {
			for range w.Triggers() {
				log.Info("corpus changed, rebuilding index")
				if _, err := svc.RebuildIndex(ctx); err != nil {
					log.Error("automatic rebuild failed", "error", err)
				}
			}
		}()
	}

	return server.New(cfg, svc, log).Run(ctx)
}
