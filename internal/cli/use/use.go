// Package use holds all cli commands related to setting contextual information
// e.g., dashlayout use ...
package use

import (
	"github.com/spf13/cobra"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Manage contextual settings for the current shell",
		Long: `Set and manage contextual information for the current shell session.

The 'use' command sets context that applies to subsequent commands,
so --dashboard does not have to be repeated.

Examples:
  eval $(dashlayout use dashboard "Sprint 42")  # Use a dashboard
  eval $(dashlayout use dashboard --clear)      # Clear dashboard context
  dashlayout use dashboard --show               # Show current dashboard`,
	}

	cmd.AddCommand(DashboardCmd())

	return cmd
}
