// internal/cli/sync.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Update the system package registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Updating registry from %s...\n", config.RegistryURL)
		if err := manager.Sync(cmd.Context(), os.Stderr); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Registry updated successfully.")
		return nil
	},
}
