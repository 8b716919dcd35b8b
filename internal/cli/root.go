// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/pydesc"
	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/descriptor"
	"github.com/arc-language/pydesc/pkg/logging"
)

const version = "0.1.0"

var (
	cfgFile string
	debug   bool
	output  string
	kind    string
	config  *core.Config
	manager *pydesc.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pydesc",
	Short: "Python build descriptor toolkit",
	Long: `pydesc - Python build descriptor toolkit

Reads setup.py, pyproject.toml and version files to report package
metadata and artifact coordinates, validates them, bumps versions
and maps dependencies to system packages.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pydesc/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", formatText, "output format (text, yaml, json)")
	rootCmd.PersistentFlags().StringVar(&kind, "kind", string(core.KindAuto), "descriptor kind (auto, setuppy, pyproject, versionfile)")

	// Add commands
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionOfCmd)
	rootCmd.AddCommand(requiresCmd)
	rootCmd.AddCommand(setVersionCmd)
	rootCmd.AddCommand(coordsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(systemDepsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if debug {
		config.Debug = true
	}

	logger := logging.New(config.Debug, os.Stderr)
	config.Logger = &logger
	manager = pydesc.NewManager(config)
}

// descriptorKind validates the --kind flag
func descriptorKind() (core.Kind, error) {
	return descriptor.ParseKind(kind)
}

// pathArg returns the first argument or the working directory
func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
