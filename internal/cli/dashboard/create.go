package dashboard

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	dashboardservice "github.com/sparksai/dashlayout/internal/services/dashboard"
	"github.com/spf13/cobra"
)

// CreateCmd returns the dashboard create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new dashboard",
		Long: `Create a dashboard, optionally with an initial set of reports arranged
a few to a row.

Examples:
  # Empty dashboard (one empty row)
  dashlayout dashboard create --name "Sprint 42"

  # With reports, two per row
  dashlayout dashboard create --name "Sprint 42" \
    --reports velocity,burndown,cycle-time --per-row 2

  # Quiet mode for bash capture
  DASH_ID=$(dashlayout dashboard create --name "Sprint 42" --quiet)
`,
		RunE: runCreate,
	}

	// Required flags
	cmd.Flags().String("name", "", "Dashboard name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}

	// Optional flags
	cmd.Flags().StringSlice("reports", nil, "Report IDs to place, in order")
	cmd.Flags().Int("per-row", 0, "Reports per row (default from config)")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("name")
	reportIDs, _ := cmd.Flags().GetStringSlice("reports")
	perRow, _ := cmd.Flags().GetInt("per-row")
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	d, err := cliInstance.App.DashboardService.CreateDashboard(ctx, dashboardservice.CreateDashboardRequest{
		Name:          name,
		ReportIDs:     reportIDs,
		ReportsPerRow: perRow,
	})
	if err != nil {
		suggestion := ""
		if unknown := firstUnknown(cliInstance, cmd, reportIDs); unknown != "" {
			suggestion = cli.SuggestReport(ctx, cliInstance, unknown)
		}
		return formatter.Fail(err, suggestion)
	}

	if formatter.Quiet {
		return formatter.Success(d)
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
	cli.PrintSuccess("Dashboard '%s' created", d.Name)
	cli.PrintDashboard(d, cat)
	return nil
}

// firstUnknown returns the first requested report the catalog lacks
func firstUnknown(c *cli.CLI, cmd *cobra.Command, reportIDs []string) string {
	cat, err := c.App.CatalogService.Catalog(cmd.Context())
	if err != nil {
		return ""
	}
	for _, id := range reportIDs {
		if !cat.Has(id) {
			return id
		}
	}
	return ""
}
