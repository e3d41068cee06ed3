package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/catalog"
	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/sparksai/dashlayout/internal/cli/styles"
	"github.com/sparksai/dashlayout/internal/models"
	"github.com/spf13/cobra"
)

// placedReport is a catalog entry with its position on a dashboard
type placedReport struct {
	catalog.Report
	RowID    string `json:"row_id,omitempty"`
	Selected bool   `json:"selected"`
}

// ListCmd returns the report list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog reports",
		Long: `List every report in the catalog. With --dashboard, each report also
shows the row it is placed in.

Examples:
  dashlayout report list
  dashlayout report list --dashboard "Sprint 42" --json
`,
		RunE: runList,
	}

	cmd.Flags().String("dashboard", "", "Show placement on this dashboard")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	ref := cli.DashboardRef(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	reports, err := cliInstance.App.CatalogService.ListReports(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}

	var d *models.Dashboard
	if ref != "" {
		if d, err = cliInstance.App.DashboardService.GetDashboard(ctx, ref); err != nil {
			return formatter.Fail(err, cli.SuggestDashboard(ctx, cliInstance, ref))
		}
	}

	placed := make([]placedReport, len(reports))
	for i, r := range reports {
		placed[i] = placedReport{Report: r}
		if d != nil {
			placed[i].RowID, _, _ = d.Layout.RowOf(r.ID)
			placed[i].Selected = d.IsSelected(r.ID)
		}
	}

	if formatter.Quiet {
		for _, r := range placed {
			fmt.Println(r.ID)
		}
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"reports": placed,
		})
	}

	if len(placed) == 0 {
		fmt.Println("No reports found. Import a catalog with 'dashlayout report import <file>'.")
		return nil
	}

	fmt.Printf("Found %d reports:\n\n", len(placed))
	for _, r := range placed {
		fmt.Printf("  %-20s %s", r.ID, styles.RenderReportReference(r.Report, true))
		if d != nil && r.RowID != "" {
			fmt.Printf("  %s", styles.SubtitleStyle.Render("in "+r.RowID))
		}
		fmt.Println()
	}
	return nil
}
