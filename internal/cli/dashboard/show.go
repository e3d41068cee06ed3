package dashboard

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/spf13/cobra"
)

// ShowCmd returns the dashboard show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [dashboard]",
		Short: "Show a dashboard's rows",
		Long: `Show the rows of a dashboard and the reports placed in each.

The dashboard may be given by ID or name, as an argument, with --dashboard,
or through DASHLAYOUT_DASHBOARD.

Examples:
  dashlayout dashboard show "Sprint 42"
  DASHLAYOUT_DASHBOARD="Sprint 42" dashlayout dashboard show --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}

	cmd.Flags().String("dashboard", "", "Dashboard ID or name")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (layout only)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	ref := cli.DashboardRef(cmd)
	if len(args) == 1 {
		ref = args[0]
	}
	if ref == "" {
		return formatter.Usage("a dashboard is required (argument, --dashboard or " + cli.DashboardEnv + ")")
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

	d, err := cliInstance.App.DashboardService.GetDashboard(ctx, ref)
	if err != nil {
		return formatter.Fail(err, cli.SuggestDashboard(ctx, cliInstance, ref))
	}

	if formatter.Quiet {
		// Compact form, e.g. [row-1:velocity,burndown] [row-2:]
		_, err := os.Stdout.WriteString(d.Layout.String() + "\n")
		return err
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"dashboard": d,
		})
	}

	cat, err := cliInstance.App.CatalogService.Catalog(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	cli.PrintDashboard(d, cat)
	return nil
}
