// Package arrange opens the interactive arranger for one dashboard
//
// e.g., dashlayout arrange "Sprint 42"
package arrange

import (
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/sparksai/dashlayout/internal/tui"
	"github.com/spf13/cobra"
)

// ArrangeCmd returns the arrange command
func ArrangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arrange [dashboard]",
		Short: "Rearrange a dashboard interactively",
		Long: `Open a dashboard in the terminal arranger.

Pick a report up with space, move it with the arrow keys and drop it with
space again: onto another card, or past the last card of a row to append
it there. Esc cancels the drag. When the event daemon is running, changes
made by other processes appear as they happen.

Examples:
  dashlayout arrange "Sprint 42"
  DASHLAYOUT_DASHBOARD="Sprint 42" dashlayout arrange
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runArrange,
	}

	cmd.Flags().String("dashboard", "", "Dashboard ID or name (default $DASHLAYOUT_DASHBOARD)")
	return cmd
}

func runArrange(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := &cli.OutputFormatter{}

	ref := cli.DashboardRef(cmd)
	if len(args) == 1 {
		ref = args[0]
	}
	if ref == "" {
		return formatter.Usage("a dashboard is required: pass it as an argument or set --dashboard")
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	model, err := tui.New(ctx, cliInstance.App, ref)
	if err != nil {
		return formatter.Fail(err, cli.SuggestFor(ctx, cliInstance, err, ref, "", ""))
	}

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		slog.Error("arranger exited with error", "error", err)
		return formatter.Fail(err, "")
	}
	return nil
}
