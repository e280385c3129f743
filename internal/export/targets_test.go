package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargets_HeaderAndRows(t *testing.T) {
	input := strings.Join([]string{
		"metadata_id,include_sources,include_keywords",
		"SOILS,1,0",
		"HORIZONS,false,yes",
	}, "\n")

	targets, err := ParseTargets(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Target{
		{ID: "SOILS", IncludeSources: true, IncludeKeywords: false},
		{ID: "HORIZONS", IncludeSources: false, IncludeKeywords: true},
	}, targets)
}

func TestParseTargets_BlankColumnsDefaultTrue(t *testing.T) {
	input := "metadata_id,include_sources,include_keywords\nSOILS,,\n"

	targets, err := ParseTargets(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.True(t, targets[0].IncludeSources)
	assert.True(t, targets[0].IncludeKeywords)
}

func TestParseTargets_IDOnlyHeader(t *testing.T) {
	input := "metadata_id\nSOILS\nHORIZONS\n"

	targets, err := ParseTargets(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Target{
		{ID: "SOILS", IncludeSources: true, IncludeKeywords: true},
		{ID: "HORIZONS", IncludeSources: true, IncludeKeywords: true},
	}, targets)
}

func TestParseTargets_CommentsAndBlankLinesIgnored(t *testing.T) {
	input := strings.Join([]string{
		"# export targets for the spring refresh",
		"metadata_id",
		"",
		"SOILS",
		"  # trailing note",
		"HORIZONS",
	}, "\n")

	targets, err := ParseTargets(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "SOILS", targets[0].ID)
	assert.Equal(t, "HORIZONS", targets[1].ID)
}

func TestParseTargets_MissingIDColumnFails(t *testing.T) {
	input := "record,include_sources\nSOILS,1\n"

	_, err := ParseTargets(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata_id")
}

func TestParseTargets_BlankIDFails(t *testing.T) {
	input := "metadata_id,include_sources\n  ,1\n"

	_, err := ParseTargets(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata_id")
}

func TestParseTargets_EmptyInputFails(t *testing.T) {
	_, err := ParseTargets(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParseTargets_HeaderWithoutRowsFails(t *testing.T) {
	_, err := ParseTargets(strings.NewReader("metadata_id\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "any records")
}

func TestLoadTargets_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.csv")
	require.NoError(t, os.WriteFile(path, []byte("metadata_id\nSOILS\n"), 0o644))

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "SOILS", targets[0].ID)
}

func TestLoadTargets_MissingFileFails(t *testing.T) {
	_, err := LoadTargets(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open targets file")
}
