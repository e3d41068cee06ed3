// Package row holds the cli commands that add and remove dashboard rows
package row

import (
	"github.com/spf13/cobra"
)

// RowCmd returns the row parent command
func RowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "row",
		Short: "Add or remove dashboard rows",
	}

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(RemoveCmd())

	return cmd
}
