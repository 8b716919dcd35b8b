// internal/cli/version_of.go
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var versionOfCmd = &cobra.Command{
	Use:   "version-of [path]",
	Short: "Print the version declared by a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVersionOf,
}

func runVersionOf(cmd *cobra.Command, args []string) error {
	k, err := descriptorKind()
	if err != nil {
		return err
	}

	d, err := manager.Open(pathArg(args), k)
	if err != nil {
		return err
	}
	v, err := d.GetVersion(cmd.Context())
	if err != nil {
		return err
	}

	return render(cmd, map[string]string{"version": v}, func(w io.Writer) {
		fmt.Fprintln(w, v)
	})
}
