// Package export drives the per-record pipeline: load the configured
// targets, assemble each bundle, build and serialize its document, and
// write (or, in dry-run mode, discard) one file per catalogue entry.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Target names one catalogue entry to export and which optional record
// families to include.
type Target struct {
	ID              string
	IncludeSources  bool
	IncludeKeywords bool
}

// LoadTargets reads the export target list from a CSV file with a
// metadata_id,include_sources,include_keywords header. Blank lines and
// lines beginning with '#' are ignored; both boolean columns default to
// true when blank or unrecognised.
func LoadTargets(path string) ([]Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer f.Close()
	return ParseTargets(f)
}

// ParseTargets is LoadTargets over an arbitrary reader.
func ParseTargets(r io.Reader) ([]Target, error) {
	reader := csv.NewReader(stripComments(r))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("targets file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read targets header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := columns["metadata_id"]
	if !ok {
		return nil, fmt.Errorf("targets file must define a metadata_id column")
	}

	var targets []Target
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read targets row %d: %w", line, err)
		}

		id := strings.TrimSpace(field(record, idCol))
		if id == "" {
			return nil, fmt.Errorf("targets row %d: missing mandatory metadata_id", line)
		}

		target := Target{ID: id, IncludeSources: true, IncludeKeywords: true}
		if col, ok := columns["include_sources"]; ok {
			target.IncludeSources = parseBool(field(record, col), true)
		}
		if col, ok := columns["include_keywords"]; ok {
			target.IncludeKeywords = parseBool(field(record, col), true)
		}
		targets = append(targets, target)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("targets file did not contain any records")
	}
	return targets, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}

// parseBool accepts the usual truthy/falsy spellings and falls back to the
// default for blank or unrecognised values.
func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "y":
		return true
	case "0", "false", "f", "no", "n":
		return false
	default:
		return fallback
	}
}

// stripComments filters out blank lines and '#' comment lines before the
// CSV reader sees them.
func stripComments(r io.Reader) io.Reader {
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.NewReader(b.String())
}
