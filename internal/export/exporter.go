package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/landis-portal/metaexport/internal/catalog"
	"github.com/landis-portal/metaexport/internal/iso19139"
)

// Exporter runs the assemble-build-serialize pipeline over a target list.
// Processing is strictly sequential; the data source handle is owned by the
// caller and released there on every exit path.
type Exporter struct {
	DataSource catalog.DataSource
	OutputDir  string
	DryRun     bool
	Logger     *slog.Logger

	// BuildOptions defaults to iso19139.DefaultBuildOptions when zero.
	BuildOptions iso19139.BuildOptions
}

// Summary reports what a run did. Failed counts records whose assembly or
// rendering failed; those failures never abort the remaining targets.
type Summary struct {
	Exported int
	Failed   int
	Written  []string
}

// Run exports every target in order. Per-record failures (missing record,
// mandatory null) are logged with the offending identifier and counted;
// only a data source failure aborts the run. A file is written only after
// its document is fully assembled and rendered - no partial writes.
func (e *Exporter) Run(ctx context.Context, targets []Target) (Summary, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	// One token per run so interleaved log lines from repeated runs stay
	// attributable.
	logger = logger.With("run", uuid.NewString())

	opts := e.BuildOptions
	if opts == (iso19139.BuildOptions{}) {
		opts = iso19139.DefaultBuildOptions()
	}

	if !e.DryRun {
		if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
			return Summary{}, fmt.Errorf("create output directory: %w", err)
		}
	}

	var summary Summary
	for _, target := range targets {
		logger.Info("exporting metadata record",
			"id", target.ID,
			"sources", target.IncludeSources,
			"keywords", target.IncludeKeywords)

		data, err := e.exportOne(ctx, target, opts, logger)
		if err != nil {
			if catalog.IsDataSource(err) {
				return summary, err
			}
			summary.Failed++
			logger.Error("export failed", "id", target.ID, "error", err)
			continue
		}

		summary.Exported++
		if e.DryRun {
			logger.Debug("dry-run enabled; skipping write", "id", target.ID)
			continue
		}

		path := filepath.Join(e.OutputDir, target.ID+".xml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return summary, fmt.Errorf("write %s: %w", path, err)
		}
		summary.Written = append(summary.Written, path)
		logger.Info("wrote document", "path", path)
	}

	return summary, nil
}

// exportOne runs the full pipeline for a single target, returning the
// serialized document. Nothing is written here.
func (e *Exporter) exportOne(ctx context.Context, target Target, opts iso19139.BuildOptions, logger *slog.Logger) ([]byte, error) {
	bundle, err := catalog.FetchBundle(ctx, e.DataSource, target.ID,
		target.IncludeSources, target.IncludeKeywords, logger)
	if err != nil {
		return nil, err
	}

	doc, err := iso19139.BuildDocument(bundle, opts)
	if err != nil {
		return nil, err
	}

	return iso19139.Serialize(doc), nil
}
