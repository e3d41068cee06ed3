package dashboard

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/sparksai/dashlayout/internal/cli/styles"
	"github.com/spf13/cobra"
)

// ListCmd returns the dashboard list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all dashboards",
		Long:  "List all dashboards with their row and report counts.",
		RunE:  runList,
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
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

	dashboards, err := cliInstance.App.DashboardService.ListDashboards(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.Quiet {
		for _, d := range dashboards {
			fmt.Println(d.ID)
		}
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":    true,
			"dashboards": dashboards,
		})
	}

	if len(dashboards) == 0 {
		fmt.Println("No dashboards found")
		return nil
	}

	fmt.Printf("Found %d dashboards:\n\n", len(dashboards))
	for _, d := range dashboards {
		fmt.Printf("  %s %s  %d rows, %d reports\n",
			styles.TitleStyle.Render(d.Name),
			styles.SubtitleStyle.Render("("+d.ID+")"),
			d.RowCount, d.ReportCount)
	}
	return nil
}
