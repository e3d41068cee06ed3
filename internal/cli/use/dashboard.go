package use

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/spf13/cobra"
)

// DashboardCmd returns the use dashboard subcommand
func DashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard [dashboard]",
		Short: "Set dashboard context for current shell session",
		Long: `Set the current dashboard using an environment variable.
This command outputs shell commands that should be evaluated:

  eval $(dashlayout use dashboard "Sprint 42")  # Use a dashboard
  eval $(dashlayout use dashboard --clear)      # Clear dashboard context
  dashlayout use dashboard --show               # Show current dashboard

DASHLAYOUT_DASHBOARD is set in the current shell only, to the dashboard's
ID so a later rename does not break it. --dashboard on other commands
takes precedence over it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUseDashboard,
	}

	cmd.Flags().Bool("clear", false, "Clear the current dashboard context")
	cmd.Flags().Bool("show", false, "Show the current dashboard context")
	cmd.Flags().Bool("dry-run", false, "Show what would be exported without outputting shell commands")

	return cmd
}

func runUseDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := &cli.OutputFormatter{}

	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if showFlag {
		return showCurrentDashboard(cmd)
	}

	if clearFlag {
		if dryRun {
			fmt.Fprintf(os.Stderr, "Would clear %s\n", cli.DashboardEnv)
			return nil
		}
		fmt.Printf("unset %s\n", cli.DashboardEnv)
		fmt.Fprintf(os.Stderr, "Cleared dashboard context\n")
		return nil
	}

	if len(args) == 0 {
		return formatter.Usage("dashboard required: eval $(dashlayout use dashboard <dashboard>)")
	}
	ref := args[0]

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
		suggestion := cli.SuggestDashboard(ctx, cliInstance, ref)
		if suggestion == "" {
			suggestion = "use 'dashlayout dashboard list' to see available dashboards"
		}
		return formatter.Fail(err, suggestion)
	}

	if dryRun {
		fmt.Fprintf(os.Stderr, "Would set %s=%s (%s)\n", cli.DashboardEnv, d.ID, d.Name)
		return nil
	}

	// Stdout is meant for eval
	fmt.Printf("export %s=%s\n", cli.DashboardEnv, d.ID)
	fmt.Fprintf(os.Stderr, "Now using dashboard %s\n", d.Name)
	return nil
}

func showCurrentDashboard(cmd *cobra.Command) error {
	current := os.Getenv(cli.DashboardEnv)
	if current == "" {
		fmt.Println("No dashboard context set")
		fmt.Println("Use 'eval $(dashlayout use dashboard <dashboard>)' to set one")
		return nil
	}

	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return (&cli.OutputFormatter{}).Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	d, err := cliInstance.App.DashboardService.GetDashboard(cmd.Context(), current)
	if err != nil {
		fmt.Printf("Current dashboard: %s (not found)\n", current)
		return nil
	}

	fmt.Printf("Current dashboard: %s (%s)\n", d.Name, d.ID)
	return nil
}
