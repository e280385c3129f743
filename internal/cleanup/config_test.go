package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cleanup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTargets_ParsesSequence(t *testing.T) {
	path := writeConfig(t, `
- table: metadata_main
  column: abstract
  identifier: metadata_id
- table: metadata_citations
  column: citation_title
  where: citation_title IS NOT NULL
`)

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "metadata_main", targets[0].Table)
	assert.Equal(t, "abstract", targets[0].Column)
	assert.Equal(t, "metadata_id", targets[0].Identifier)
	assert.Equal(t, "citation_title IS NOT NULL", targets[1].Where)
}

func TestLoadTargets_EmptyConfigFails(t *testing.T) {
	path := writeConfig(t, "[]\n")

	_, err := LoadTargets(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no targets")
}

func TestLoadTargets_InvalidTargetFails(t *testing.T) {
	path := writeConfig(t, `
- table: metadata_main
  column: "abstract; DROP TABLE metadata_main"
`)

	_, err := LoadTargets(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid identifier")
}

func TestLoadTargets_MissingFileFails(t *testing.T) {
	_, err := LoadTargets(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read cleanup config")
}

func TestTargetValidate(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		wantErr bool
	}{
		{"valid", Target{Table: "metadata_main", Column: "abstract"}, false},
		{"valid with identifier", Target{Table: "t", Column: "c", Identifier: "metadata_id"}, false},
		{"missing table", Target{Column: "abstract"}, true},
		{"missing column", Target{Table: "metadata_main"}, true},
		{"quoted table", Target{Table: `"metadata_main"`, Column: "abstract"}, true},
		{"spaced column", Target{Table: "metadata_main", Column: "ab stract"}, true},
		{"bad identifier column", Target{Table: "t", Column: "c", Identifier: "id-col"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
