package row

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/spf13/cobra"
)

// AddCmd returns the row add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an empty row",
		Long: `Append an empty row to the bottom of a dashboard.

Examples:
  dashlayout row add --dashboard "Sprint 42"

  # Capture the new row ID
  ROW=$(dashlayout row add --dashboard "Sprint 42" --quiet)
`,
		RunE: runAdd,
	}

	cmd.Flags().String("dashboard", "", "Dashboard ID or name (default $DASHLAYOUT_DASHBOARD)")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (row ID only)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

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

	res, err := cliInstance.App.DashboardService.AddRow(ctx, ref)
	if err != nil {
		return formatter.Fail(err, cli.SuggestDashboard(ctx, cliInstance, ref))
	}

	if formatter.Quiet {
		fmt.Println(res.RowID)
		return nil
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
	cli.PrintSuccess("Added %s", res.RowID)
	cli.PrintDashboard(res.Dashboard, cat)
	return nil
}
