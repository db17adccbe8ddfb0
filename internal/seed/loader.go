// Package seed loads the reference catalog sources and classifies echo
// types. Sources are JSON files resolved through a small search path, with
// the embedded copies as the last resort so a bare deployment still seeds.
package seed

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed data/*.json
var embeddedData embed.FS

// ErrSourceNotFound marks a catalog whose source file is absent
// everywhere. The seeder treats it as a warning and skips the catalog.
var ErrSourceNotFound = errors.New("seed: catalog source not found")

// CatalogRecord is one row of a catalog source file. Flat catalogs carry
// only value (+ optional description); age groups fill the remaining
// fields. Property matching is case-insensitive on decode.
type CatalogRecord struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
	MinimumAge  int    `json:"minimumAge"`
	MaximumAge  int    `json:"maximumAge"`
}

// Loader resolves catalog source files. DataDir is the explicit override
// directory; when empty only the fallback locations are tried.
type Loader struct {
	DataDir string
}

// searchPaths returns candidate locations in priority order: the explicit
// data directory, the local Data/ subfolder, then the working directory.
func (l Loader) searchPaths(filename string) []string {
	paths := []string{}
	if l.DataDir != "" {
		paths = append(paths, filepath.Join(l.DataDir, filename))
	}
	paths = append(paths, filepath.Join("Data", filename), filename)
	return paths
}

// Load reads and validates one catalog source. Duplicate semantic keys
// (values compared case-insensitively) are rejected up front rather than
// letting insert order decide which row survives.
func (l Loader) Load(filename string) ([]CatalogRecord, error) {
	raw, err := l.read(filename)
	if err != nil {
		return nil, err
	}

	var records []CatalogRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("seed: parse %s: %w", filename, err)
	}

	seen := map[string]bool{}
	for _, rec := range records {
		if rec.Value == "" {
			return nil, fmt.Errorf("seed: %s contains a record with an empty value", filename)
		}
		key := strings.ToLower(rec.Value)
		if seen[key] {
			return nil, fmt.Errorf("seed: %s contains duplicate semantic key %q", filename, rec.Value)
		}
		seen[key] = true
	}
	return records, nil
}

func (l Loader) read(filename string) ([]byte, error) {
	for _, path := range l.searchPaths(filename) {
		raw, err := os.ReadFile(path)
		if err == nil {
			return raw, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("seed: read %s: %w", path, err)
		}
	}
	raw, err := embeddedData.ReadFile("data/" + filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, filename)
	}
	return raw, nil
}
