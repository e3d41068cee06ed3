package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/sparksai/dashlayout/internal/cli/styles"
	"github.com/spf13/cobra"
)

// ShowCmd returns the report show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <report>",
		Short: "Show a report and its description",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	reportID := args[0]

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	r, err := cliInstance.App.CatalogService.GetReport(ctx, reportID)
	if err != nil {
		return formatter.Fail(err, cli.SuggestReport(ctx, cliInstance, reportID))
	}

	if formatter.Quiet {
		fmt.Println(r.ID)
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"report":  r,
		})
	}

	content := fmt.Sprintf("%s %s\n%s %s",
		styles.TitleStyle.Render(r.Name), styles.RenderChartChip(r.ChartType),
		styles.LabelStyle.Render("ID:"), styles.ValueStyle.Render(r.ID))
	if r.Description != "" {
		content += "\n" + styles.RenderMarkdown(r.Description, styles.CardWidth-6)
	}
	fmt.Println(styles.RenderCard(content))
	return nil
}
