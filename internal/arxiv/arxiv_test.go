// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dvaz/litscout/pkg/types"
)

func testCfg(maxResults, batchSize int) types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResults: maxResults,
		BatchSize:  batchSize,
	}
}

// entryXML renders one well-formed Atom entry for arXiv ID id.
func entryXML(id, title, summary string, authors ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<entry><id>http://arxiv.org/abs/%s</id>", id)
	fmt.Fprintf(&b, "<title>%s</title><summary>%s</summary>", title, summary)
	for _, a := range authors {
		fmt.Fprintf(&b, "<author><name>%s</name></author>", a)
	}
	fmt.Fprintf(&b, `<link href="http://arxiv.org/abs/%s" rel="alternate" type="text/html"/>`, id)
	fmt.Fprintf(&b, `<link href="http://arxiv.org/pdf/%s" rel="related" type="application/pdf"/>`, id)
	b.WriteString("</entry>")
	return b.String()
}

func feedXML(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<feed xmlns="http://www.w3.org/2005/Atom">` +
		strings.Join(entries, "") +
		`</feed>`
}

// nEntries renders n generated entries, numbered from start.
func nEntries(start, n int) []string {
	entries := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("2405.%05d", start+i)
		entries[i] = entryXML(id, "Paper "+id, "Summary "+id, "Author A")
	}
	return entries
}

// withAPIBase points the package at a test server for the test's duration.
func withAPIBase(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	t.Cleanup(func() { arxivAPIBase = old })
	return ts
}

func TestFetchTruncatesOverDeliveredBatch(t *testing.T) {
	calls := 0
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		// Over-deliver: five entries no matter what was requested.
		fmt.Fprint(w, feedXML(nEntries(0, 5)...))
	})

	f := &Fetcher{Client: ts.Client()}
	var warnings bytes.Buffer
	got := f.Fetch(context.Background(), "q", testCfg(2, 0), &warnings)

	if len(got) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(got))
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if warnings.Len() != 0 {
		t.Errorf("unexpected warnings: %s", warnings.String())
	}
}

func TestFetchPaginatesAcrossBatches(t *testing.T) {
	var starts []int
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		starts = append(starts, start)
		want, _ := strconv.Atoi(r.URL.Query().Get("max_results"))
		fmt.Fprint(w, feedXML(nEntries(start, want)...))
	})

	f := &Fetcher{Client: ts.Client()}
	got := f.Fetch(context.Background(), "q", testCfg(5, 2), &bytes.Buffer{})

	if len(got) != 5 {
		t.Fatalf("len(articles) = %d, want 5", len(got))
	}
	// Three rounds: 2 + 2 + 1, offset stepping by the batch size.
	wantStarts := []int{0, 2, 4}
	if len(starts) != len(wantStarts) {
		t.Fatalf("starts = %v, want %v", starts, wantStarts)
	}
	for i := range wantStarts {
		if starts[i] != wantStarts[i] {
			t.Errorf("starts[%d] = %d, want %d", i, starts[i], wantStarts[i])
		}
	}
	// No article appears twice.
	seen := make(map[string]bool)
	for _, a := range got {
		if seen[a.Identifier] {
			t.Errorf("duplicate article %s", a.Identifier)
		}
		seen[a.Identifier] = true
	}
}

func TestFetchOffsetAdvancesByBatchSizeNotReceived(t *testing.T) {
	var starts []int
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		starts = append(starts, start)
		if len(starts) > 3 {
			fmt.Fprint(w, feedXML())
			return
		}
		// Under-deliver: one entry although three were requested.
		fmt.Fprint(w, feedXML(nEntries(start, 1)...))
	})

	f := &Fetcher{Client: ts.Client()}
	got := f.Fetch(context.Background(), "q", testCfg(6, 3), &bytes.Buffer{})

	if len(got) != 3 {
		t.Fatalf("len(articles) = %d, want 3", len(got))
	}
	// The offset steps by the configured batch size even when the provider
	// under-delivers; the empty fourth batch ends the loop.
	wantStarts := []int{0, 3, 6, 9}
	if fmt.Sprint(starts) != fmt.Sprint(wantStarts) {
		t.Errorf("starts = %v, want %v", starts, wantStarts)
	}
}

func TestFetchStopsOnEmptyBatch(t *testing.T) {
	calls := 0
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, feedXML(nEntries(0, 2)...))
			return
		}
		fmt.Fprint(w, feedXML())
	})

	f := &Fetcher{Client: ts.Client()}
	var warnings bytes.Buffer
	got := f.Fetch(context.Background(), "q", testCfg(10, 2), &warnings)

	if len(got) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(got))
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if warnings.Len() != 0 {
		t.Errorf("exhaustion is not an error, got warning: %s", warnings.String())
	}
}

func TestFetchReturnsPartialOnHTTPError(t *testing.T) {
	calls := 0
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, feedXML(nEntries(0, 2)...))
			return
		}
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	f := &Fetcher{Client: ts.Client()}
	var warnings bytes.Buffer
	got := f.Fetch(context.Background(), "q", testCfg(10, 2), &warnings)

	if len(got) != 2 {
		t.Fatalf("len(articles) = %d, want 2 (partial result)", len(got))
	}
	if !strings.Contains(warnings.String(), "HTTP 503") {
		t.Errorf("warnings = %q, want mention of HTTP 503", warnings.String())
	}
}

func TestFetchEmptyOnImmediateHTTPError(t *testing.T) {
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	})

	f := &Fetcher{Client: ts.Client()}
	var warnings bytes.Buffer
	got := f.Fetch(context.Background(), "q", testCfg(10, 0), &warnings)

	if got == nil {
		t.Fatal("articles = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len(articles) = %d, want 0", len(got))
	}
	if warnings.Len() == 0 {
		t.Error("expected a warning for the failed request")
	}
}

func TestFetchZeroMaxResultsMakesNoRequests(t *testing.T) {
	calls := 0
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, feedXML())
	})

	f := &Fetcher{Client: ts.Client()}
	got := f.Fetch(context.Background(), "q", testCfg(0, 0), &bytes.Buffer{})

	if len(got) != 0 {
		t.Errorf("len(articles) = %d, want 0", len(got))
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestFetchSkipsMalformedEntry(t *testing.T) {
	// Middle entry has no alternate link.
	malformed := `<entry><id>http://arxiv.org/abs/2405.00001</id>` +
		`<title>Broken</title><summary>No link</summary>` +
		`<author><name>A</name></author></entry>`
	calls := 0
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			fmt.Fprint(w, feedXML())
			return
		}
		fmt.Fprint(w, feedXML(
			entryXML("2405.11111v1", "Good One", "S1", "A"),
			malformed,
			entryXML("2405.22222v2", "Good Two", "S2", "B"),
		))
	})

	f := &Fetcher{Client: ts.Client()}
	var warnings bytes.Buffer
	got := f.Fetch(context.Background(), "q", testCfg(10, 0), &warnings)

	if len(got) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(got))
	}
	if got[0].Title != "Good One" || got[1].Title != "Good Two" {
		t.Errorf("kept titles = %q, %q", got[0].Title, got[1].Title)
	}
	if !strings.Contains(warnings.String(), "malformed") {
		t.Errorf("warnings = %q, want mention of the skipped entry", warnings.String())
	}
}

func TestFetchStopsOnUndecodableBody(t *testing.T) {
	calls := 0
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, feedXML(nEntries(0, 1)...))
			return
		}
		fmt.Fprint(w, "this is not xml <<<")
	})

	f := &Fetcher{Client: ts.Client()}
	var warnings bytes.Buffer
	got := f.Fetch(context.Background(), "q", testCfg(10, 1), &warnings)

	if len(got) != 1 {
		t.Fatalf("len(articles) = %d, want 1 (partial result)", len(got))
	}
	if !strings.Contains(warnings.String(), "parsing") {
		t.Errorf("warnings = %q, want a parse warning", warnings.String())
	}
}

func TestFetchRequestParams(t *testing.T) {
	var captured *http.Request
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, feedXML())
	})

	query := `(cat:stat.ML OR cat:stat.TH) AND submittedDate:[20200000 TO *] AND all:Bayesian optimization`
	f := &Fetcher{Client: ts.Client()}
	f.Fetch(context.Background(), query, testCfg(7, 0), &bytes.Buffer{})

	q := captured.URL.Query()
	if got := q.Get("search_query"); got != query {
		t.Errorf("search_query = %q, want %q", got, query)
	}
	if got := q.Get("start"); got != "0" {
		t.Errorf("start = %q, want %q", got, "0")
	}
	if got := q.Get("max_results"); got != "7" {
		t.Errorf("max_results = %q, want %q", got, "7")
	}
	if got := captured.Header.Get("User-Agent"); got != "test/0.1" {
		t.Errorf("User-Agent = %q, want %q", got, "test/0.1")
	}
}

func TestFetchArticleFields(t *testing.T) {
	entry := `<entry><id>http://arxiv.org/abs/2405.01304v1</id>` +
		"<title>\n  A Study of Things\n </title>" +
		"<summary>\n  We study things.\n </summary>" +
		`<author><name>Alice Ample</name></author>` +
		`<author><name>Bob Binder</name></author>` +
		`<link href="http://arxiv.org/pdf/2405.01304v1" rel="related" type="application/pdf"/>` +
		`<link href="http://arxiv.org/abs/2405.01304v1" rel="alternate" type="text/html"/>` +
		`</entry>`
	ts := withAPIBase(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(entry))
	})

	f := &Fetcher{Client: ts.Client()}
	got := f.Fetch(context.Background(), "q", testCfg(1, 0), &bytes.Buffer{})

	if len(got) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(got))
	}
	a := got[0]
	if a.Title != "A Study of Things" {
		t.Errorf("Title = %q, want trimmed title", a.Title)
	}
	if a.Summary != "We study things." {
		t.Errorf("Summary = %q, want trimmed summary", a.Summary)
	}
	if len(a.Authors) != 2 || a.Authors[0] != "Alice Ample" || a.Authors[1] != "Bob Binder" {
		t.Errorf("Authors = %v, want feed order preserved", a.Authors)
	}
	if a.Link != "http://arxiv.org/abs/2405.01304v1" {
		t.Errorf("Link = %q, want the alternate link", a.Link)
	}
	if a.Identifier != "2405.01304" {
		t.Errorf("Identifier = %q, want version-stripped ID", a.Identifier)
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"https://arxiv.org/abs/2301.07041v12", "2301.07041"},
		{"http://example.com/paper/123", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.link); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}
