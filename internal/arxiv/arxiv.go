// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv queries the arXiv API. It builds search_query strings from
// structured filters and pages through result batches until enough articles
// are collected or the result set is exhausted.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dvaz/litscout/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// defaultBatchSize is the arXiv per-request cap on max_results.
const defaultBatchSize = 2000

// Fetcher retrieves articles from the arXiv API.
type Fetcher struct {
	Client *http.Client
}

// Fetch pages through the arXiv API until cfg.MaxResults articles are
// collected or the source runs out. Runtime failures never abort the call:
// a bad status or an undecodable response body ends pagination with a
// warning on w, and whatever was collected so far is returned.
//
// The offset advances by the full batch size each round regardless of how
// many entries actually arrived. That is how the provider paginates;
// advancing by the received count would re-fetch or skip entries.
func (f *Fetcher) Fetch(ctx context.Context, query string, cfg types.SearchConfig, w io.Writer) []types.Article {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	collected := make([]types.Article, 0)
	offset := 0

	for len(collected) < cfg.MaxResults {
		want := batchSize
		if remaining := cfg.MaxResults - len(collected); remaining < want {
			want = remaining
		}

		params := url.Values{
			"search_query": {query},
			"start":        {strconv.Itoa(offset)},
			"max_results":  {strconv.Itoa(want)},
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
		if err != nil {
			fmt.Fprintf(w, "warning: creating arXiv request: %v\n", err)
			break
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err := f.Client.Do(req)
		if err != nil {
			fmt.Fprintf(w, "warning: arXiv API request: %v\n", err)
			break
		}

		batch, ok := decodeBatch(resp, w)
		if !ok || len(batch) == 0 {
			// Transport failure or exhaustion; keep what we have.
			break
		}

		collected = append(collected, batch...)
		offset += batchSize
	}

	if len(collected) > cfg.MaxResults {
		collected = collected[:cfg.MaxResults]
	}
	return collected
}

// decodeBatch parses one API response into articles. ok is false when the
// response is unusable as a whole (non-200 status, undecodable body), which
// ends pagination. Individual malformed entries are skipped with a warning;
// the rest of the batch is kept.
func decodeBatch(resp *http.Response, w io.Writer) (articles []types.Article, ok bool) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(w, "warning: arXiv API returned HTTP %d\n", resp.StatusCode)
		return nil, false
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		fmt.Fprintf(w, "warning: parsing arXiv response: %v\n", err)
		return nil, false
	}

	articles = make([]types.Article, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		article, err := parseEntry(entry)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping malformed entry: %v\n", err)
			continue
		}
		articles = append(articles, article)
	}
	return articles, true
}

// parseEntry converts one feed entry into an Article. An entry missing its
// alternate link, title, or summary is malformed.
func parseEntry(e arxivEntry) (types.Article, error) {
	var link string
	for _, l := range e.Links {
		if l.Rel == "alternate" {
			link = l.Href
			break
		}
	}
	if link == "" {
		return types.Article{}, fmt.Errorf("entry %q has no alternate link", e.ID)
	}

	title := strings.TrimSpace(e.Title)
	summary := strings.TrimSpace(e.Summary)
	if title == "" || summary == "" {
		return types.Article{}, fmt.Errorf("entry %q is missing title or summary", e.ID)
	}

	a := types.Article{
		Identifier: extractArxivID(link),
		Title:      title,
		Summary:    summary,
		Link:       link,
	}
	for _, author := range e.Authors {
		a.Authors = append(a.Authors, strings.TrimSpace(author.Name))
	}
	return a, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string        `xml:"id"`
	Title   string        `xml:"title"`
	Summary string        `xml:"summary"`
	Authors []arxivAuthor `xml:"author"`
	Links   []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// extractArxivID pulls the arXiv ID from an abstract-page URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
// Returns "" when the URL has no /abs/ segment.
func extractArxivID(link string) string {
	const prefix = "/abs/"
	idx := strings.Index(link, prefix)
	if idx < 0 {
		return ""
	}
	id := link[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
