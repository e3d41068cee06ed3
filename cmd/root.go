// Package cmd assembles the dashlayout command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/sparksai/dashlayout/internal/cli/arrange"
	"github.com/sparksai/dashlayout/internal/cli/dashboard"
	"github.com/sparksai/dashlayout/internal/cli/move"
	"github.com/sparksai/dashlayout/internal/cli/report"
	"github.com/sparksai/dashlayout/internal/cli/row"
	"github.com/sparksai/dashlayout/internal/cli/serve"
	"github.com/sparksai/dashlayout/internal/cli/styles"
	"github.com/sparksai/dashlayout/internal/cli/use"
	"github.com/sparksai/dashlayout/internal/config"
	"github.com/sparksai/dashlayout/internal/logging"
	"github.com/spf13/cobra"
)

// logCloser is the log file opened for the running command
var logCloser io.Closer

// NewRootCmd builds the dashlayout command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dashlayout",
		Short: "dashlayout - arrange report dashboards",
		Long: `dashlayout keeps dashboards as rows of report cards and rearranges them
by drag and drop, from the terminal arranger, the CLI or the HTTP API.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRun:  setup,
		PersistentPostRun: teardown,
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &cli.CommandError{Code: cli.ExitUsage, Err: err}
	})

	rootCmd.AddCommand(dashboard.DashboardCmd())
	rootCmd.AddCommand(row.RowCmd())
	rootCmd.AddCommand(report.ReportCmd())
	rootCmd.AddCommand(move.MoveCmd())
	rootCmd.AddCommand(arrange.ArrangeCmd())
	rootCmd.AddCommand(serve.ServeCmd())
	rootCmd.AddCommand(use.UseCmd())

	return rootCmd
}

// setup routes logs to the data directory and applies the color scheme
func setup(cmd *cobra.Command, args []string) {
	closer, err := logging.Init(config.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		slog.SetDefault(slog.New(slog.DiscardHandler))
	} else {
		logCloser = closer
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	styles.Init(cfg.ColorScheme)
}

func teardown(cmd *cobra.Command, args []string) {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

// Execute runs the root command and returns the process exit code.
// Errors not already reported by a command are printed here.
func Execute(ctx context.Context) int {
	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}

	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Code == cli.ExitUsage {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return cli.ExitCode(err)
}
