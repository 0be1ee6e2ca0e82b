// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litscout pipeline:
// articles returned by the arXiv search stage and citation-graph records
// returned by the Semantic Scholar enrichment stage.
package types

// Article represents one arXiv entry returned by a search.
type Article struct {
	// Identifier is the version-stripped arXiv ID (e.g. "2405.01304"),
	// derived from the entry's abstract-page link.
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the article title, whitespace-trimmed.
	Title string `json:"title" yaml:"title"`

	// Authors lists the article authors in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Summary is the article abstract, whitespace-trimmed.
	Summary string `json:"summary" yaml:"summary"`

	// Link is the URL of the entry's rel="alternate" link, the canonical
	// abstract page for the article.
	Link string `json:"link" yaml:"link"`
}

// CitedPaper is one entry in a citation graph: a paper referenced by, or
// citing, the enriched article.
type CitedPaper struct {
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
}

// CitationRecord holds citation-graph data for a single article. The four
// fields are populated together on a successful lookup and all left at
// their zero values when the lookup fails; a nil CitationCount therefore
// marks the whole record as unavailable, distinct from a legitimate zero.
type CitationRecord struct {
	CitationCount            *int         `json:"citation_count" yaml:"citation_count"`
	InfluentialCitationCount *int         `json:"influential_citation_count" yaml:"influential_citation_count"`
	References               []CitedPaper `json:"references" yaml:"references"`
	CitingPapers             []CitedPaper `json:"citing_papers" yaml:"citing_papers"`
}

// Available reports whether the record holds data, i.e. the lookup that
// produced it succeeded.
func (r CitationRecord) Available() bool {
	return r.CitationCount != nil
}
