// Package records loads reference collections and query lists for the
// command-line tools. The matcher itself never performs I/O.
package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/batch"
	"github.com/baditaflorin/go_institution_matcher/internal/core/domain"
	"github.com/baditaflorin/go_institution_matcher/internal/ports"
)

// maxLine bounds a single query line.
const maxLine = 1024 * 1024

// Decode reads a JSON array of objects.
func Decode(r io.Reader) ([]domain.Record, error) {
	var raw []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	out := make([]domain.Record, len(raw))
	for i, m := range raw {
		out[i] = domain.Record(m)
	}
	return out, nil
}

// LoadFile reads a JSON reference collection from path.
func LoadFile(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// ReadQueries reads one query per line, skipping blank lines.
func ReadQueries(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	var out []string
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}
	return out, nil
}

// DecodeQueries reads a JSON array whose entries are strings or records.
func DecodeQueries(r io.Reader, fields ports.NameFieldExtractor) ([]string, error) {
	var raw []interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode queries: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, batch.QueryText(v, fields))
	}
	return out, nil
}

// LoadQueries reads queries from every file matching the patterns, in
// pattern order and sorted path order within a pattern. Files ending in
// .json are decoded as JSON arrays, anything else as lines.
func LoadQueries(patterns []string, fields ports.NameFieldExtractor) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		paths, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		sort.Strings(paths)
		for _, p := range paths {
			qs, err := loadQueryFile(p, fields)
			if err != nil {
				return nil, err
			}
			out = append(out, qs...)
		}
	}
	return out, nil
}

func loadQueryFile(path string, fields ports.NameFieldExtractor) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queries %s: %w", path, err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DecodeQueries(f, fields)
	}
	return ReadQueries(f)
}
