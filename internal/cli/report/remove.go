package report

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/spf13/cobra"
)

// RemoveCmd returns the report remove subcommand
func RemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <report>",
		Short: "Take a report off a dashboard",
		Long: `Take a report off a dashboard and deselect it. The row is looked up
unless --row is given.

Examples:
  dashlayout report remove burndown --dashboard "Sprint 42"
  dashlayout report remove burndown --dashboard "Sprint 42" --row row-1
`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}

	cmd.Flags().String("dashboard", "", "Dashboard ID or name (default $DASHLAYOUT_DASHBOARD)")
	cmd.Flags().String("row", "", "Row holding the report")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (compact layout)")

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	reportID := args[0]
	rowID, _ := cmd.Flags().GetString("row")

	ref := cli.DashboardRef(cmd)
	if ref == "" {
		return formatter.Usage("--dashboard or " + cli.DashboardEnv + " is required")
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

	res, err := cliInstance.App.DashboardService.RemoveReport(ctx, ref, rowID, reportID)
	if err != nil {
		return formatter.Fail(err, cli.SuggestFor(ctx, cliInstance, err, ref, rowID, reportID))
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
	cli.PrintSuccess("Removed %s", cat.Name(reportID))
	cli.PrintDashboard(res.Dashboard, cat)
	return nil
}
