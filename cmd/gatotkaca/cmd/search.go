package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/search"
	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/service"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	category string
	page     int
	limit    int
	format   string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed corpus",
		Long: `Search the indexed corpus and print ranked results.

Examples:
  gatotkaca search "candi borobudur"
  gatotkaca search kerajaan --category Sejarah --limit 5
  gatotkaca search wisata --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "t", "all", "Filter by category (all, Sejarah, Wisata, Budaya, Lainnya)")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Result page")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Results per page")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
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

	result, err := svc.Search(cmd.Context(), search.Params{
		Query:    query,
		Category: opts.category,
		Page:     opts.page,
		Limit:    opts.limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Total == 0 {
		fmt.Fprintf(out, "No results for %q\n", query)
		return nil
	}

	fmt.Fprintf(out, "%d results (page %d of %d)\n\n", result.Total, result.Page, result.TotalPages)
	for i, row := range result.Results {
		rank := (result.Page-1)*opts.limit + i + 1
		fmt.Fprintf(out, "%d. %s [%s]\n", rank, row.Title, row.Category)
		if row.URL != "" {
			fmt.Fprintf(out, "   %s\n", row.URL)
		}
		fmt.Fprintf(out, "   %s\n\n", stripTags(row.Snippet))
	}
	return nil
}

// stripTags removes highlight markers for terminal output.
func stripTags(snippet string) string {
	snippet = strings.ReplaceAll(snippet, "<mark>", "")
	return strings.ReplaceAll(snippet, "</mark>", "")
}
