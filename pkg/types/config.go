package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout, applied on the client by the caller.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litscout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the arXiv search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the total number of articles to collect across all
	// pagination batches (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// BatchSize is the number of articles requested per API call
	// (default 2000, the arXiv per-request cap).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// CitationConfig holds settings for the citation enrichment stage.
type CitationConfig struct {
	HTTPConfig `yaml:",inline"`
}
