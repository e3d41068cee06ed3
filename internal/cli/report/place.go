package report

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/spf13/cobra"
)

// PlaceCmd returns the report place subcommand
func PlaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place <report>",
		Short: "Select a report and add it to the last row",
		Long: `Select a catalog report for a dashboard. The report is appended to the
last row. Placing a report that is already on the dashboard changes nothing.

Examples:
  dashlayout report place burndown --dashboard "Sprint 42"
`,
		Args: cobra.ExactArgs(1),
		RunE: runPlace,
	}

	cmd.Flags().String("dashboard", "", "Dashboard ID or name (default $DASHLAYOUT_DASHBOARD)")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (compact layout)")

	return cmd
}

func runPlace(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	reportID := args[0]

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

	res, err := cliInstance.App.DashboardService.PlaceReport(ctx, ref, reportID)
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
		cli.PrintSuccess("Placed %s", cat.Name(reportID))
	} else {
		cli.PrintNotice(res.Notice)
	}
	cli.PrintDashboard(res.Dashboard, cat)
	return nil
}
