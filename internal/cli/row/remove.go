package row

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/spf13/cobra"
)

// RemoveCmd returns the row remove subcommand
func RemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <row>",
		Short: "Remove a row",
		Long: `Remove a row from a dashboard. Its reports move to the end of the
first remaining row. The only row of a dashboard cannot be removed.

Examples:
  dashlayout row remove row-2 --dashboard "Sprint 42"
`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}

	cmd.Flags().String("dashboard", "", "Dashboard ID or name (default $DASHLAYOUT_DASHBOARD)")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (compact layout)")

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	rowID := args[0]

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

	res, err := cliInstance.App.DashboardService.RemoveRow(ctx, ref, rowID)
	if err != nil {
		return formatter.Fail(err, cli.SuggestFor(ctx, cliInstance, err, ref, rowID, ""))
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
		cli.PrintSuccess("Removed %s", rowID)
	} else {
		cli.PrintNotice(res.Notice)
	}
	cli.PrintDashboard(res.Dashboard, cat)
	return nil
}
