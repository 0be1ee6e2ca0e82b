// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dvaz/litscout/internal/arxiv"
	"github.com/dvaz/litscout/internal/scholar"
	"github.com/dvaz/litscout/pkg/types"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "litscout/0.1"
	defaultMaxResults = 50
	defaultBatchSize  = 2000

	// summaryPreviewLen bounds the abstract excerpt in list output.
	summaryPreviewLen = 300
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search arXiv for articles matching a structured filter",
	Long: `Search queries the arXiv API for articles whose fields mention a subject,
optionally restricted to categories and a submission-year range. Large result
sets are paged through automatically. With --cite, the first result is
enriched with Semantic Scholar citation data.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("subject", "", "subject to search for across article fields")
	searchCmd.Flags().String("categories", "", "arXiv categories to restrict the search to (comma-separated)")
	searchCmd.Flags().Int("year-start", 0, "start year for the submission-date filter")
	searchCmd.Flags().Int("year-end", 0, "end year for the submission-date filter (requires --year-start)")
	searchCmd.Flags().Int("max-results", 0, "total number of articles to retrieve (default 50)")
	searchCmd.Flags().Int("batch-size", 0, "articles requested per API call (default 2000)")
	searchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	searchCmd.Flags().String("filter-file", "", "load the search filter from a YAML file")
	searchCmd.Flags().String("save-filter", "", "save the search filter to a YAML file")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("cite", false, "enrich the first result with citation data")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter(cmd)
	if err != nil {
		return err
	}

	if savePath, _ := cmd.Flags().GetString("save-filter"); savePath != "" {
		if err := arxiv.WriteFilterFile(savePath, filter); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved filter to %s\n", savePath)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("http.timeout")
	}

	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: viper.GetString("http.user_agent"),
		},
		MaxResults: filter.MaxResults,
		BatchSize:  viper.GetInt("search.batch_size"),
	}
	if batchSize, _ := cmd.Flags().GetInt("batch-size"); batchSize > 0 {
		cfg.BatchSize = batchSize
	}

	client := &http.Client{Timeout: cfg.Timeout}
	fetcher := &arxiv.Fetcher{Client: client}

	query := arxiv.BuildQuery(filter)
	articles := fetcher.Fetch(cmd.Context(), query, cfg, os.Stderr)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(articles)
	}

	if len(articles) == 0 {
		fmt.Println("No articles found for the given subject in the specified categories and date range.")
		return nil
	}

	printArticles(articles)

	if cite, _ := cmd.Flags().GetBool("cite"); cite {
		first := articles[0]
		id := first.Identifier
		if id == "" {
			id = scholar.IDFromLink(first.Link)
		}

		enricher := &scholar.Enricher{Client: client}
		record := enricher.Enrich(cmd.Context(), id, types.CitationConfig{HTTPConfig: cfg.HTTPConfig}, os.Stderr)
		printCitation(first.Title, record)
	}
	return nil
}

// buildFilter assembles the search filter from a filter file or flags.
// Flags override values loaded from a file.
func buildFilter(cmd *cobra.Command) (arxiv.SearchFilter, error) {
	var filter arxiv.SearchFilter

	if path, _ := cmd.Flags().GetString("filter-file"); path != "" {
		loaded, err := arxiv.ReadFilterFile(path)
		if err != nil {
			return arxiv.SearchFilter{}, err
		}
		filter = loaded
	}

	if subject, _ := cmd.Flags().GetString("subject"); subject != "" {
		filter.Subject = subject
	}
	if cats, _ := cmd.Flags().GetString("categories"); cats != "" {
		filter.Categories = nil
		for _, cat := range strings.Split(cats, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				filter.Categories = append(filter.Categories, cat)
			}
		}
	}
	if yearStart, _ := cmd.Flags().GetInt("year-start"); yearStart != 0 {
		filter.YearStart = yearStart
	}
	if yearEnd, _ := cmd.Flags().GetInt("year-end"); yearEnd != 0 {
		filter.YearEnd = yearEnd
	}
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults > 0 {
		filter.MaxResults = maxResults
	}

	if filter.Subject == "" && len(filter.Categories) == 0 {
		return arxiv.SearchFilter{}, fmt.Errorf("provide a search subject (--subject or a filter file)")
	}
	if filter.YearEnd != 0 && filter.YearStart == 0 {
		return arxiv.SearchFilter{}, fmt.Errorf("--year-end requires --year-start")
	}
	if filter.MaxResults <= 0 {
		filter.MaxResults = viper.GetInt("search.max_results")
	}
	return filter, nil
}

func printArticles(articles []types.Article) {
	fmt.Printf("\nFound %d articles:\n\n", len(articles))
	for i, a := range articles {
		fmt.Printf("%d. %s\n", i+1, a.Title)
		fmt.Printf("   Author(s): %s\n", strings.Join(a.Authors, ", "))
		fmt.Printf("   Summary: %s\n", preview(a.Summary))
		fmt.Printf("   Link: %s\n\n", a.Link)
	}
}

func preview(s string) string {
	if len(s) <= summaryPreviewLen {
		return s
	}
	return s[:summaryPreviewLen] + "..."
}
