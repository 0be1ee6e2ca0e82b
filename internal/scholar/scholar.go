// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar enriches a single arXiv article with citation-graph data
// from the Semantic Scholar API: citation counts, references, and citing
// papers.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dvaz/litscout/pkg/types"
)

// scholarAPIBase is the Semantic Scholar paper lookup endpoint. Declared
// as a var so tests can substitute an httptest server.
var scholarAPIBase = "https://api.semanticscholar.org/v1/paper"

// NormalizeID strips the version suffix from an arXiv ID: everything from
// the first "v" on is dropped ("2405.01304v1" → "2405.01304"). An ID
// without a version marker is returned unchanged. This is a convention of
// the identifier scheme, not general version parsing.
func NormalizeID(rawID string) string {
	id, _, _ := strings.Cut(rawID, "v")
	return id
}

// IDFromLink derives a normalized arXiv ID from an abstract-page URL by
// taking the last path segment and stripping its version suffix.
func IDFromLink(link string) string {
	idx := strings.LastIndex(link, "/")
	return NormalizeID(link[idx+1:])
}

// Enricher looks up citation-graph data on the Semantic Scholar API.
type Enricher struct {
	Client *http.Client
}

// Enrich fetches citation data for a normalized arXiv ID. On success every
// field of the returned record is populated (slices are non-nil even when
// empty). On any failure — bad status, unreachable endpoint, undecodable
// body — a warning goes to w and the zero record is returned, with all
// fields absent. The lookup is a single request; there are no retries.
func (e *Enricher) Enrich(ctx context.Context, id string, cfg types.CitationConfig, w io.Writer) types.CitationRecord {
	reqURL := scholarAPIBase + "/arXiv:" + id

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		fmt.Fprintf(w, "warning: creating Semantic Scholar request: %v\n", err)
		return types.CitationRecord{}
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := e.Client.Do(req)
	if err != nil {
		fmt.Fprintf(w, "warning: Semantic Scholar request for %s: %v\n", id, err)
		return types.CitationRecord{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(w, "warning: failed to fetch citation data for arXiv ID %s: HTTP %d\n", id, resp.StatusCode)
		return types.CitationRecord{}
	}

	var paper scholarPaper
	if err := json.NewDecoder(resp.Body).Decode(&paper); err != nil {
		fmt.Fprintf(w, "warning: parsing Semantic Scholar response for %s: %v\n", id, err)
		return types.CitationRecord{}
	}

	citationCount := len(paper.Citations)
	influential := paper.InfluentialCitationCount

	return types.CitationRecord{
		CitationCount:            &citationCount,
		InfluentialCitationCount: &influential,
		References:               toCitedPapers(paper.References),
		CitingPapers:             toCitedPapers(paper.Citations),
	}
}

// toCitedPapers reshapes API entries, substituting "Unknown Title" and
// "Unknown" for missing titles and author names.
func toCitedPapers(entries []scholarEntry) []types.CitedPaper {
	papers := make([]types.CitedPaper, 0, len(entries))
	for _, entry := range entries {
		p := types.CitedPaper{Title: entry.Title}
		if p.Title == "" {
			p.Title = "Unknown Title"
		}
		for _, a := range entry.Authors {
			name := a.Name
			if name == "" {
				name = "Unknown"
			}
			p.Authors = append(p.Authors, name)
		}
		papers = append(papers, p)
	}
	return papers
}

// Semantic Scholar API JSON structures.
type scholarPaper struct {
	InfluentialCitationCount int            `json:"influentialCitationCount"`
	Citations                []scholarEntry `json:"citations"`
	References               []scholarEntry `json:"references"`
}

type scholarEntry struct {
	Title   string          `json:"title"`
	Authors []scholarAuthor `json:"authors"`
}

type scholarAuthor struct {
	Name string `json:"name"`
}
