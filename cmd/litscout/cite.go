// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dvaz/litscout/internal/scholar"
	"github.com/dvaz/litscout/pkg/types"
)

var citeCmd = &cobra.Command{
	Use:   "cite <arxiv-id>",
	Short: "Fetch citation-graph data for an arXiv ID",
	Long: `Cite looks up a paper on Semantic Scholar by its arXiv ID and prints its
citation count, influential citation count, references, and citing papers.
A version suffix on the ID (e.g. "v2") is stripped before the lookup.`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

func init() {
	citeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(citeCmd)
}

func runCite(cmd *cobra.Command, args []string) error {
	id := scholar.NormalizeID(args[0])

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("http.timeout")
	}

	cfg := types.CitationConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: viper.GetString("http.user_agent"),
		},
	}

	enricher := &scholar.Enricher{Client: &http.Client{Timeout: cfg.Timeout}}
	record := enricher.Enrich(cmd.Context(), id, cfg, os.Stderr)
	printCitation("arXiv:"+id, record)
	return nil
}

// printCitation writes a citation record in human-readable form. An
// unavailable record prints a single notice instead of empty sections.
func printCitation(label string, record types.CitationRecord) {
	fmt.Printf("\nSemantic Scholar data for %q:\n", label)

	if !record.Available() {
		fmt.Println("  No citation data available.")
		return
	}

	fmt.Printf("  Citation Count: %d\n", *record.CitationCount)
	fmt.Printf("  Influential Citations: %d\n", *record.InfluentialCitationCount)

	fmt.Println("\nReferences:")
	for _, ref := range record.References {
		fmt.Printf("   - %s by %s\n", ref.Title, strings.Join(ref.Authors, ", "))
	}

	fmt.Println("\nCiting Papers:")
	for _, citing := range record.CitingPapers {
		fmt.Printf("   - %s by %s\n", citing.Title, strings.Join(citing.Authors, ", "))
	}
}
