// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Filter files let a researcher keep a search definition on disk and re-run
// it without retyping flags. Only the filter is stored; results are always
// fetched fresh.

// WriteFilterFile saves a search filter to a YAML file.
func WriteFilterFile(path string, f SearchFilter) error {
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling filter file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFilterFile loads a previously saved search filter from disk.
func ReadFilterFile(path string) (SearchFilter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SearchFilter{}, fmt.Errorf("reading filter file: %w", err)
	}
	var f SearchFilter
	if err := yaml.Unmarshal(data, &f); err != nil {
		return SearchFilter{}, fmt.Errorf("parsing filter file %s: %w", path, err)
	}
	if f.YearEnd != 0 && f.YearStart == 0 {
		return SearchFilter{}, fmt.Errorf("filter file %s: year_end requires year_start", path)
	}
	return f, nil
}
