package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/service"
)

func newIndexCmd() *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the search index from the corpus folder",
		Long: `Walk the corpus folder, normalize every .txt document, and build
a fresh search index. The previous index keeps serving searches until the
new one is complete.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if folder != "" {
				cfg.Corpus.Dir = folder
			}
			cleanup, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			svc, err := service.New(cfg, logger())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			start := time.Now()
			count, err := svc.RebuildIndex(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents from %s in %s\n",
				count, cfg.Corpus.Dir, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Corpus folder (overrides config)")

	return cmd
}
