package cleanup

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landis-portal/metaexport/internal/store"
)

func seedCleanupStore(t *testing.T) *store.Store {
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

	exec(`INSERT INTO metadata_main (metadata_id, abstract)
	      VALUES ('SOILS', 'It’s a “stony” loam')`)
	exec(`INSERT INTO metadata_main (metadata_id, abstract)
	      VALUES ('CLEAN', 'Already plain text')`)
	exec(`INSERT INTO metadata_main (metadata_id, abstract)
	      VALUES ('NULLED', NULL)`)

	return s
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func abstractOf(t *testing.T, s *store.Store, id string) string {
	t.Helper()
	var abstract string
	err := s.DB().QueryRow(
		`SELECT abstract FROM metadata_main WHERE metadata_id = ?`, id).Scan(&abstract)
	require.NoError(t, err)
	return abstract
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	s := seedCleanupStore(t)
	targets := []Target{{Table: "metadata_main", Column: "abstract", Identifier: "metadata_id"}}

	updated, err := Run(context.Background(), s.DB(), targets, false, quiet())
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
	assert.Equal(t, "It’s a “stony” loam", abstractOf(t, s, "SOILS"))
}

func TestRun_DryRunLogsProposedChanges(t *testing.T) {
	s := seedCleanupStore(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	targets := []Target{{Table: "metadata_main", Column: "abstract", Identifier: "metadata_id"}}

	_, err := Run(context.Background(), s.DB(), targets, false, logger)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "proposed normalisation")
	assert.Contains(t, out, "SOILS")
	assert.Contains(t, out, "dry-run active")
	assert.NotContains(t, out, "CLEAN")
}

func TestRun_CommitAppliesChanges(t *testing.T) {
	s := seedCleanupStore(t)
	targets := []Target{{Table: "metadata_main", Column: "abstract"}}

	updated, err := Run(context.Background(), s.DB(), targets, true, quiet())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, `It's a "stony" loam`, abstractOf(t, s, "SOILS"))
	assert.Equal(t, "Already plain text", abstractOf(t, s, "CLEAN"))
}

func TestRun_CommitIsIdempotent(t *testing.T) {
	s := seedCleanupStore(t)
	targets := []Target{{Table: "metadata_main", Column: "abstract"}}

	updated, err := Run(context.Background(), s.DB(), targets, true, quiet())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	updated, err = Run(context.Background(), s.DB(), targets, true, quiet())
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestRun_WhereClauseNarrowsScan(t *testing.T) {
	s := seedCleanupStore(t)
	targets := []Target{{
		Table:  "metadata_main",
		Column: "abstract",
		Where:  "metadata_id = 'CLEAN'",
	}}

	updated, err := Run(context.Background(), s.DB(), targets, true, quiet())
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
	assert.Equal(t, "It’s a “stony” loam", abstractOf(t, s, "SOILS"))
}

func TestRun_InvalidTargetFailsBeforeScanning(t *testing.T) {
	s := seedCleanupStore(t)
	targets := []Target{{Table: "metadata_main; --", Column: "abstract"}}

	_, err := Run(context.Background(), s.DB(), targets, true, quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid identifier")
}

func TestRun_MissingTableFails(t *testing.T) {
	s := seedCleanupStore(t)
	targets := []Target{{Table: "no_such_table", Column: "abstract"}}

	_, err := Run(context.Background(), s.DB(), targets, true, quiet())
	require.Error(t, err)
}
