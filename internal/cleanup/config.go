package cleanup

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Target describes one table/column pair subject to normalisation.
type Target struct {
	// Table is the table name, e.g. metadata_main.
	Table string `yaml:"table"`

	// Column is the column to scan and rewrite.
	Column string `yaml:"column"`

	// Where optionally narrows the scan. Applied verbatim; the config file
	// is trusted operator input, the scanned values are not.
	Where string `yaml:"where,omitempty"`

	// Identifier optionally names a column whose value labels log lines,
	// so proposed changes can be traced back to a record.
	Identifier string `yaml:"identifier,omitempty"`
}

// Table and column names are interpolated into SQL, so they must look like
// plain identifiers. Values are always bound parameters.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate rejects targets whose table or column is missing or is not a
// plain SQL identifier.
func (t Target) Validate() error {
	if t.Table == "" || t.Column == "" {
		return fmt.Errorf("cleanup target must define both table and column")
	}
	for _, name := range []string{t.Table, t.Column} {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("invalid identifier %q in cleanup target", name)
		}
	}
	if t.Identifier != "" && !identifierPattern.MatchString(t.Identifier) {
		return fmt.Errorf("invalid identifier column %q in cleanup target", t.Identifier)
	}
	return nil
}

// LoadTargets reads the cleanup target list from a YAML file holding a
// sequence of targets.
func LoadTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cleanup config: %w", err)
	}

	var targets []Target
	if err := yaml.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("parse cleanup config: %w", err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("cleanup config defines no targets")
	}
	for i, target := range targets {
		if err := target.Validate(); err != nil {
			return nil, fmt.Errorf("cleanup config target %d: %w", i+1, err)
		}
	}
	return targets, nil
}
