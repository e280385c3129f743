package cli

import (
	"github.com/spf13/cobra"

	"github.com/landis-portal/metaexport/internal/cleanup"
	"github.com/landis-portal/metaexport/internal/store"
)

// CleanupOptions holds flags for the cleanup command.
type CleanupOptions struct {
	*RootOptions
	Database string
	Config   string
	Commit   bool
}

// NewCleanupCommand creates the cleanup command.
func NewCleanupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Normalise smart quotes within configured catalogue columns",
		Long: `Scan the configured table/column pairs for smart quotes and related
glyphs, log every proposed replacement, and apply them only when --commit
is supplied. Without --commit the scan is a dry run; review the log output
before re-running with --commit.

Example:
  metaexport cleanup --db ./catalogue.db --config config/cleanup.yaml
  metaexport cleanup --db ./catalogue.db --config config/cleanup.yaml --commit`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the catalogue SQLite database (required)")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML file describing cleanup targets (required)")
	cmd.Flags().BoolVar(&opts.Commit, "commit", false, "apply updates instead of running in dry-run mode")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runCleanup(cmd *cobra.Command, opts *CleanupOptions) error {
	logger := configureLogging(opts.Verbose)

	targets, err := cleanup.LoadTargets(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load cleanup targets", err)
	}
	logger.Info("loaded cleanup targets", "count", len(targets), "path", opts.Config)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	updated, err := cleanup.Run(cmd.Context(), st.DB(), targets, opts.Commit, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "cleanup failed", err)
	}

	if opts.Commit {
		logger.Info("cleanup finished", "updated", updated)
	} else {
		logger.Info("dry-run completed; re-run with --commit after reviewing the proposed changes")
	}
	return nil
}
