package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/landis-portal/metaexport/internal/export"
	"github.com/landis-portal/metaexport/internal/iso19139"
	"github.com/landis-portal/metaexport/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database  string
	Config    string
	OutputDir string
	DryRun    bool
	DateStamp string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export configured metadata records to ISO 19139 XML files",
		Long: `Export each metadata record named in the targets file to an ISO 19139
XML document, one <id>.xml file per record.

Per-record failures (missing record, null mandatory field) are logged and
counted; the remaining targets still export. Dry-run mode runs the full
fetch-and-build pipeline without writing any file, which validates data
completeness without side effects.

Example:
  metaexport export --db ./catalogue.db --config config/targets.csv --output-dir output
  metaexport export --db ./catalogue.db --config config/targets.csv --dry-run --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the catalogue SQLite database (required)")
	cmd.Flags().StringVar(&opts.Config, "config", "config/targets.csv", "path to CSV file listing metadata ids to export")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "output", "directory where XML files will be written")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "fetch and build without writing XML files")
	cmd.Flags().StringVar(&opts.DateStamp, "date-stamp", "", "override the metadata date stamp (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	logger := configureLogging(opts.Verbose)

	targets, err := export.LoadTargets(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load targets", err)
	}
	logger.Info("loaded export targets", "count", len(targets), "path", opts.Config)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	exporter := &export.Exporter{
		DataSource: st,
		OutputDir:  opts.OutputDir,
		DryRun:     opts.DryRun,
		Logger:     logger,
	}
	buildOpts := iso19139.DefaultBuildOptions()
	buildOpts.DateStamp = opts.DateStamp
	exporter.BuildOptions = buildOpts

	summary, err := exporter.Run(cmd.Context(), targets)
	if err != nil {
		return WrapExitError(ExitCommandError, "export run aborted", err)
	}

	if opts.DryRun {
		logger.Info("dry-run completed", "exported", summary.Exported, "failed", summary.Failed)
	} else {
		logger.Info("export completed", "written", len(summary.Written), "failed", summary.Failed)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d record(s) failed to export", summary.Failed))
	}
	return nil
}
