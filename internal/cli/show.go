// internal/cli/show.go
package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/sdist"
)

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show the package metadata of a project, descriptor or sdist",
	Long: `Display the metadata declared by setup.py, pyproject.toml or a version file.

Examples:
  pydesc show
  pydesc show ./service/setup.py
  pydesc show dist/some-test-1.0.3.tar.gz -o yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := pathArg(args)

	var meta *core.Metadata
	var err error
	if isArchive(path) {
		meta, err = manager.DescribeArchive(ctx, path)
	} else {
		k, kerr := descriptorKind()
		if kerr != nil {
			return kerr
		}
		meta, err = manager.Describe(ctx, path, k)
	}
	if err != nil {
		return err
	}

	return render(cmd, meta, func(w io.Writer) { printMetadata(w, meta) })
}

func isArchive(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	_, err = sdist.DetectFormat(path)
	return err == nil
}

func printMetadata(w io.Writer, meta *core.Metadata) {
	field(w, "Name", meta.Name)
	field(w, "Version", meta.Version)
	field(w, "Description", meta.Description)
	field(w, "Author", meta.Author)
	field(w, "Author-email", meta.AuthorEmail)
	field(w, "URL", meta.URL)
	field(w, "License", meta.License)
	field(w, "Requires-Python", meta.PythonRequires)
	if len(meta.Packages) > 0 {
		field(w, "Packages", strings.Join(meta.Packages, ", "))
	}
	if len(meta.Keywords) > 0 {
		field(w, "Keywords", strings.Join(meta.Keywords, ", "))
	}
	for _, c := range meta.Classifiers {
		field(w, "Classifier", c)
	}
	for _, r := range meta.InstallRequires {
		field(w, "Requires", r)
	}
	extras := make([]string, 0, len(meta.ExtrasRequire))
	for name := range meta.ExtrasRequire {
		extras = append(extras, name)
	}
	sort.Strings(extras)
	for _, name := range extras {
		field(w, "Extra", fmt.Sprintf("%s: %s", name, strings.Join(meta.ExtrasRequire[name], ", ")))
	}
	field(w, "Descriptor", fmt.Sprintf("%s (%s)", meta.Source, meta.Kind))
	field(w, "Version-source", meta.VersionSource)
}
