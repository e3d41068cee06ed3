package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/spf13/cobra"
)

// ImportCmd returns the report import subcommand
func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import reports from a YAML catalog file",
		Long: `Import reports from a YAML catalog file. Existing reports with the same
ID are updated. Without an argument the catalog_file setting is used.

Catalog format:
  reports:
    - id: velocity
      name: Velocity
      chart_type: bar
      description: Points completed per sprint.

Examples:
  dashlayout report import reports.yaml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImport,
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (count only)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
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

	path := cliInstance.Config().CatalogFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return formatter.Usage("a catalog file is required (argument or catalog_file in config)")
	}

	count, err := cliInstance.App.CatalogService.ImportFile(ctx, path)
	if err != nil {
		return formatter.Fail(err, "")
	}

	if formatter.Quiet {
		fmt.Println(count)
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":  true,
			"imported": count,
			"file":     path,
		})
	}

	cli.PrintSuccess("Imported %d reports from %s", count, path)
	return nil
}
