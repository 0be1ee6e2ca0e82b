// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"fmt"
	"strings"
)

// SearchFilter holds the structured parameters a search is built from.
// A zero year means "unset"; YearEnd is only honored when YearStart is set.
type SearchFilter struct {
	// Subject is searched across all article fields (all: prefix).
	Subject string `yaml:"subject"`

	// MaxResults is the total number of articles to retrieve.
	MaxResults int `yaml:"max_results"`

	// Categories restricts the search to these arXiv categories
	// (e.g. "stat.ML"). Empty means no category restriction.
	Categories []string `yaml:"categories,omitempty"`

	// YearStart and YearEnd bound the submission date. YearStart alone
	// means "from that year onward".
	YearStart int `yaml:"year_start,omitempty"`
	YearEnd   int `yaml:"year_end,omitempty"`
}

// BuildQuery constructs the search_query string for the arXiv API from a
// filter. It is pure: the same filter always yields the same string.
//
// The clause layout is [(cat:a OR cat:b) AND ][submittedDate:[...]] AND all:<subject>.
// When the category and date clauses are both absent the leading " AND"
// before the subject clause remains; the API tolerates it, and saved
// queries depend on the exact shape, so it is preserved rather than fixed.
func BuildQuery(f SearchFilter) string {
	var categoryFilter string
	if len(f.Categories) > 0 {
		clauses := make([]string, len(f.Categories))
		for i, cat := range f.Categories {
			clauses[i] = "cat:" + cat
		}
		categoryFilter = "(" + strings.Join(clauses, " OR ") + ") AND "
	}

	var dateFilter string
	if f.YearStart != 0 {
		upper := "*"
		if f.YearEnd != 0 {
			upper = fmt.Sprintf("%d1231", f.YearEnd)
		}
		dateFilter = fmt.Sprintf("submittedDate:[%d0000 TO %s]", f.YearStart, upper)
	}

	return categoryFilter + dateFilter + " AND all:" + f.Subject
}
