package dashboard

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/spf13/cobra"
)

// DeleteCmd returns the dashboard delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [dashboard]",
		Short: "Delete a dashboard",
		Long:  "Delete a dashboard by ID or name (requires confirmation unless --force, --json or --quiet).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDelete,
	}

	cmd.Flags().String("dashboard", "", "Dashboard ID or name")
	cmd.Flags().Bool("force", false, "Skip confirmation")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")
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

	// Ask for confirmation unless forced or driven by a script
	if !force && !formatter.Quiet && !formatter.JSON {
		fmt.Printf("Delete dashboard '%s' with %d rows? (y/N): ", d.Name, d.Layout.Len())
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.DashboardService.DeleteDashboard(ctx, d.ID); err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.Quiet {
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":      true,
			"dashboard_id": d.ID,
		})
	}

	cli.PrintSuccess("Dashboard '%s' deleted", d.Name)
	return nil
}
