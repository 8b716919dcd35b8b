// internal/cli/set_version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setVersionCmd = &cobra.Command{
	Use:   "set-version <version> [path]",
	Short: "Write a new version into the descriptor or its version file",
	Long: `Replace the version where the descriptor declares it: the literal in
setup.py or pyproject.toml, or the version file a helper reads.

Examples:
  pydesc set-version 1.2.0
  pydesc set-version 2.0.0rc1 ./service`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSetVersion,
}

func runSetVersion(cmd *cobra.Command, args []string) error {
	k, err := descriptorKind()
	if err != nil {
		return err
	}

	newVersion := args[0]
	path := pathArg(args[1:])
	if err := manager.SetVersion(cmd.Context(), path, k, newVersion); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Version set to %s\n", newVersion)
	return nil
}
