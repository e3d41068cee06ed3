// Package report holds the cli commands for the report catalog and for
// placing reports on dashboards
package report

import (
	"github.com/spf13/cobra"
)

// ReportCmd returns the report parent command
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Manage catalog reports and their placement",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(ImportCmd())
	cmd.AddCommand(PlaceCmd())
	cmd.AddCommand(RemoveCmd())

	return cmd
}
