// Package dashboard holds the cli commands that manage dashboards
//
// e.g., dashlayout dashboard ...
package dashboard

import (
	"github.com/spf13/cobra"
)

// DashboardCmd returns the dashboard parent command
func DashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Manage dashboards",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
