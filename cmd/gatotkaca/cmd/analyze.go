package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/service"
)

func newAnalyzeCmd() *cobra.Command {
	var topN int
	var format string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the indexed corpus",
		Long: `Report corpus-level statistics: document total, category
distribution, and the most frequent normalized terms.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
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

			report, err := svc.AnalyzeCorpus(cmd.Context(), topN)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprintf(out, "Documents: %d\n\n", report.TotalDocuments)

			fmt.Fprintln(out, "Categories:")
			categories := make([]string, 0, len(report.Categories))
			for name := range report.Categories {
				categories = append(categories, name)
			}
			sort.Strings(categories)
			for _, name := range categories {
				fmt.Fprintf(out, "  %-10s %d\n", name, report.Categories[name])
			}

			fmt.Fprintln(out, "\nTop terms:")
			for _, tc := range report.TopTerms {
				fmt.Fprintf(out, "  %-20s %d\n", tc.Term, tc.Count)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 20, "Number of top terms to show")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")

	return cmd
}
