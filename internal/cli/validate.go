// internal/cli/validate.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check that the package metadata is complete and well formed",
	Long: `Check that name and version are declared, the version is PEP 440 and
every requirement parses. --strict also requires description, author,
author_email, url and packages.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "require the full set of metadata fields")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateStrict {
		config.Strict = true
	}

	k, err := descriptorKind()
	if err != nil {
		return err
	}

	meta, err := manager.Validate(cmd.Context(), pathArg(args), k)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: ok\n", meta.Name, meta.Version)
	return nil
}
