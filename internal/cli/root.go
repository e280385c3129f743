// Package cli wires the exporter and the cleanup utility into cobra
// commands, maps failures to process exit codes, and owns all logging
// configuration. Nothing below this package touches flags, paths, or
// environment state.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the metaexport CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "metaexport",
		Short: "Export catalogue metadata to ISO 19139 XML",
		Long: `metaexport exports catalogued dataset metadata from the relational
catalogue into ISO 19139 XML documents, one file per configured entry.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewCleanupCommand(opts))

	return cmd
}

// configureLogging installs the process-wide slog handler. Log lines go to
// stderr so structured output never mixes with command output.
func configureLogging(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
