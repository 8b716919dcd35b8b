// internal/cli/system_deps.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/pydesc"
)

var (
	systemBackend string
	systemSync    bool
)

var systemDepsCmd = &cobra.Command{
	Use:   "system-deps [path]",
	Short: "Map the requirements of a project to system packages",
	Long: `Resolve each requirement through the registry to the package of the
system package manager (apt, apk, dnf, pacman, zypper, brew, winget, nix).

Examples:
  pydesc system-deps
  pydesc system-deps --backend apk --sync`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSystemDeps,
}

func init() {
	systemDepsCmd.Flags().StringVar(&systemBackend, "backend", "", "package manager to resolve for (default detected)")
	systemDepsCmd.Flags().BoolVar(&systemSync, "sync", false, "sync the registry first")
}

func runSystemDeps(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	k, err := descriptorKind()
	if err != nil {
		return err
	}

	if systemSync {
		if err := manager.Sync(ctx, os.Stderr); err != nil {
			return err
		}
	}

	pkgs, err := manager.SystemPackages(ctx, pathArg(args), k, systemBackend)
	if errors.Is(err, pydesc.ErrNotSynced) {
		return fmt.Errorf("%w (pass --sync or run 'pydesc sync')", err)
	}
	if err != nil {
		return err
	}
	if pkgs == nil {
		pkgs = []pydesc.SystemPackage{}
	}

	return render(cmd, pkgs, func(w io.Writer) {
		for _, p := range pkgs {
			if len(p.Libs) > 0 {
				fmt.Fprintf(w, "%s -> %s (libs: %s)\n", p.Requirement, p.Package, strings.Join(p.Libs, ", "))
				continue
			}
			fmt.Fprintf(w, "%s -> %s\n", p.Requirement, p.Package)
		}
	})
}
