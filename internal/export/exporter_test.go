package export

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landis-portal/metaexport/internal/store"
)

// seedExportStore opens a fresh catalogue with one exportable record and one
// record whose mandatory title is null.
func seedExportStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "catalogue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	db := s.DB()
	exec := func(query string, args ...any) {
		t.Helper()
		_, err := db.Exec(query, args...)
		require.NoError(t, err)
	}

	exec(`INSERT INTO metadata_main (metadata_id, title, abstract, publication_date)
	      VALUES ('SOILS', 'Soil series', 'Mapped soil series.', '2019-04-01')`)
	exec(`INSERT INTO metadata_keywords (metadata_id, keyword_type, keyword, keyword_no)
	      VALUES ('SOILS', 'theme', 'soil', 1)`)
	exec(`INSERT INTO metadata_main (metadata_id, title) VALUES ('UNTITLED', NULL)`)

	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExporterRun_WritesDocuments(t *testing.T) {
	s := seedExportStore(t)
	outputDir := filepath.Join(t.TempDir(), "output")

	e := &Exporter{
		DataSource: s,
		OutputDir:  outputDir,
		Logger:     discardLogger(),
	}

	summary, err := e.Run(context.Background(), []Target{
		{ID: "SOILS", IncludeSources: true, IncludeKeywords: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Exported)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, summary.Written, 1)

	data, err := os.ReadFile(filepath.Join(outputDir, "SOILS.xml"))
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text, "<gco:CharacterString>SOILS</gco:CharacterString>")
	assert.Contains(t, text, "<gco:CharacterString>Soil series</gco:CharacterString>")
	assert.Contains(t, text, "<gco:CharacterString>soil</gco:CharacterString>")
}

func TestExporterRun_DryRunWritesNothing(t *testing.T) {
	s := seedExportStore(t)
	outputDir := filepath.Join(t.TempDir(), "output")

	e := &Exporter{
		DataSource: s,
		OutputDir:  outputDir,
		DryRun:     true,
		Logger:     discardLogger(),
	}

	summary, err := e.Run(context.Background(), []Target{{ID: "SOILS"}})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Exported)
	assert.Empty(t, summary.Written)

	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr), "dry-run must not create the output directory")
}

func TestExporterRun_PerRecordFailuresDoNotAbort(t *testing.T) {
	s := seedExportStore(t)

	e := &Exporter{
		DataSource: s,
		OutputDir:  filepath.Join(t.TempDir(), "output"),
		Logger:     discardLogger(),
	}

	summary, err := e.Run(context.Background(), []Target{
		{ID: "UNTITLED"}, // mandatory title is null
		{ID: "NO-SUCH"},  // record absent
		{ID: "SOILS"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Exported)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Written, 1)
	assert.Equal(t, "SOILS.xml", filepath.Base(summary.Written[0]))
}

func TestExporterRun_DataSourceFailureAborts(t *testing.T) {
	s := seedExportStore(t)
	require.NoError(t, s.Close())

	e := &Exporter{
		DataSource: s,
		OutputDir:  filepath.Join(t.TempDir(), "output"),
		Logger:     discardLogger(),
	}

	summary, err := e.Run(context.Background(), []Target{{ID: "SOILS"}, {ID: "UNTITLED"}})
	require.Error(t, err)
	assert.Equal(t, 0, summary.Exported)
	assert.Equal(t, 0, summary.Failed)
}

func TestExporterRun_ExcludedFamiliesStayOut(t *testing.T) {
	s := seedExportStore(t)
	outputDir := filepath.Join(t.TempDir(), "output")
	e := &Exporter{
		DataSource: s,
		OutputDir:  outputDir,
		Logger:     discardLogger(),
	}

	_, err := e.Run(context.Background(), []Target{
		{ID: "SOILS", IncludeSources: false, IncludeKeywords: false},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, "SOILS.xml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "descriptiveKeywords")
}
