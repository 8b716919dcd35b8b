// internal/cli/coords.go
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arc-language/pydesc/pkg/coords"
)

var (
	coordsScheme string
	coordsName   string
)

var coordsCmd = &cobra.Command{
	Use:   "coords [path]",
	Short: "Print artifact coordinates and the derived project name and version",
	Long: `Print the artifact coordinates of a project. The project name is rendered
from --name-template, the project version from --scheme (full, major,
major-minor, semantic). Templates may use sprig functions.

Examples:
  pydesc coords
  pydesc coords --scheme major-minor --name-template '{{.ArtifactID | upper}}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCoords,
}

func init() {
	coordsCmd.Flags().StringVar(&coordsScheme, "scheme", "", "version scheme (full, major, major-minor, semantic)")
	coordsCmd.Flags().StringVar(&coordsName, "name-template", "", "go template for the project name")
}

func runCoords(cmd *cobra.Command, args []string) error {
	if coordsScheme != "" {
		if !coords.ValidScheme(coordsScheme) {
			return fmt.Errorf("unknown version scheme '%s', supported: %v", coordsScheme, coords.Schemes)
		}
		config.VersionScheme = coordsScheme
	}
	if coordsName != "" {
		config.NameTemplate = coordsName
	}

	k, err := descriptorKind()
	if err != nil {
		return err
	}

	c, err := manager.Coordinates(cmd.Context(), pathArg(args), k)
	if err != nil {
		return err
	}

	return render(cmd, c, func(w io.Writer) {
		field(w, "Artifact", c.ArtifactID)
		field(w, "Version", c.Version)
		field(w, "Packaging", c.Packaging)
		field(w, "Project name", c.ProjectName)
		field(w, "Project version", c.ProjectVersion)
	})
}
