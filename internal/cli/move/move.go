// Package move holds the non-interactive form of a drag and drop
//
// e.g., dashlayout move --report burndown --to-row row-2
package move

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/sparksai/dashlayout/internal/layout"
	"github.com/spf13/cobra"
)

// MoveCmd returns the move command
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a report to another row or position",
		Long: `Move a report the way a drag and drop would.

--to-row drops the report on a row's empty drop zone: it is appended to
that row, or moved to the end of its own row.
--onto-report drops it on another report's card: within the same row the
two swap order, across rows the report is appended to the card's row.

A drop that changes nothing (onto itself, onto a row already holding the
report, onto a row that does not exist) leaves the dashboard untouched and
prints why.

Examples:
  dashlayout move --dashboard "Sprint 42" --report burndown --to-row row-2
  dashlayout move --dashboard "Sprint 42" --report velocity --onto-report burndown
`,
		RunE: runMove,
	}

	cmd.Flags().String("dashboard", "", "Dashboard ID or name (default $DASHLAYOUT_DASHBOARD)")
	cmd.Flags().String("report", "", "Report to move (required)")
	if err := cmd.MarkFlagRequired("report"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("to-row", "", "Drop on this row's drop zone")
	cmd.Flags().String("onto-report", "", "Drop on this report's card")
	cmd.MarkFlagsMutuallyExclusive("to-row", "onto-report")
	cmd.MarkFlagsOneRequired("to-row", "onto-report")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (compact layout)")

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	reportID, _ := cmd.Flags().GetString("report")
	toRow, _ := cmd.Flags().GetString("to-row")
	ontoReport, _ := cmd.Flags().GetString("onto-report")

	ref := cli.DashboardRef(cmd)
	if ref == "" {
		return formatter.Usage("--dashboard or " + cli.DashboardEnv + " is required")
	}

	target := layout.RowZone(toRow)
	if ontoReport != "" {
		target = layout.DropTarget{ReportID: ontoReport}
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

	res, err := cliInstance.App.DashboardService.MoveReport(ctx, ref, reportID, target)
	if err != nil {
		return formatter.Fail(err, cli.SuggestFor(ctx, cliInstance, err, ref, "", reportID))
	}

	if formatter.Quiet {
		_, err := os.Stdout.WriteString(res.Dashboard.Layout.String() + "\n")
		return err
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"result":  res,
		})
	}

	cat, err := cliInstance.App.CatalogService.Catalog(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	if res.Changed {
		cli.PrintSuccess("%s %s", cat.Name(reportID), res.Outcome)
	} else {
		notice := res.Notice
		if notice == "" {
			notice = "the report is already in that position"
		}
		if target.RowID != "" && res.Outcome != nil && *res.Outcome == layout.OutcomeNoTarget {
			if hint := cli.SuggestRow(res.Dashboard, toRow); hint != "" {
				notice = fmt.Sprintf("%s (%s)", notice, hint)
			}
		}
		cli.PrintNotice(notice)
	}
	cli.PrintDashboard(res.Dashboard, cat)
	return nil
}
