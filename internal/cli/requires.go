// internal/cli/requires.go
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arc-language/pydesc/pkg/reqfile"
)

var requiresRaw bool

var requiresCmd = &cobra.Command{
	Use:   "requires [path]",
	Short: "List the install requirements of a project",
	Long: `List install_requires / dependencies with -r includes expanded.

Use --raw to print the entries exactly as declared, blank lines and comments included.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRequires,
}

func init() {
	requiresCmd.Flags().BoolVar(&requiresRaw, "raw", false, "print entries as declared without parsing")
}

func runRequires(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	k, err := descriptorKind()
	if err != nil {
		return err
	}

	if requiresRaw {
		meta, err := manager.Describe(ctx, pathArg(args), k)
		if err != nil {
			return err
		}
		return render(cmd, meta.InstallRequires, func(w io.Writer) {
			for _, line := range meta.InstallRequires {
				fmt.Fprintln(w, line)
			}
		})
	}

	reqs, err := manager.Dependencies(ctx, pathArg(args), k)
	if err != nil {
		return err
	}
	if reqs == nil {
		reqs = []reqfile.Requirement{}
	}

	return render(cmd, reqs, func(w io.Writer) {
		for _, r := range reqs {
			fmt.Fprintln(w, r.String())
		}
	})
}
