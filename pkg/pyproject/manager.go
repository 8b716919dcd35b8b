// pkg/pyproject/manager.go
package pyproject

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/logging"
	"github.com/arc-language/pydesc/pkg/reqfile"
)

var (
	// ErrNotPyProject is returned for files not named pyproject.toml
	ErrNotPyProject = errors.New("not a pyproject.toml")
	// ErrNoVersion is returned when neither [project] nor [tool.poetry] declare a version
	ErrNoVersion = errors.New("no version information found")

	tableRe   = regexp.MustCompile(`^\s*\[\s*([^\[\]]+?)\s*\]\s*(#.*)?$`)
	versionRe = regexp.MustCompile(`^(\s*version\s*=\s*)(["'])([^"']*)(["'])`)
)

// Reader reads and updates pyproject.toml descriptors
type Reader struct {
	config *Config
	logger zerolog.Logger
}

// NewReader creates a pyproject.toml reader
func NewReader(cfg *Config) *Reader {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Reader{
		config: cfg,
		logger: logging.Component(logging.OrNop(cfg.Logger), "pyproject"),
	}
}

// Load reads the package metadata of the pyproject.toml at path
func (r *Reader) Load(ctx context.Context, path string) (*core.Metadata, error) {
	doc, err := r.decode(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	var meta *core.Metadata
	switch {
	case doc.Project != nil:
		meta, err = r.fromProject(doc, dir)
	case doc.Tool.Poetry != nil:
		meta = fromPoetry(doc.Tool.Poetry)
	default:
		meta = &core.Metadata{}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if meta.Version == "" {
		return nil, fmt.Errorf("%w in file '%s'", ErrNoVersion, path)
	}
	meta.Kind = core.KindPyProject
	meta.Source = path

	r.logger.Debug().Str("path", path).Str("name", meta.Name).Str("version", meta.Version).Msg("read pyproject.toml")
	return meta, nil
}

// GetVersion reads only the version of the pyproject.toml at path
func (r *Reader) GetVersion(ctx context.Context, path string) (string, error) {
	meta, err := r.Load(ctx, path)
	if err != nil {
		return "", err
	}
	return meta.Version, nil
}

// SetVersion rewrites the version key of [project] (or [tool.poetry]),
// or the version file of a dynamic version
func (r *Reader) SetVersion(ctx context.Context, path, version string) error {
	doc, err := r.decode(path)
	if err != nil {
		return err
	}

	if doc.Project != nil && isDynamic(doc.Project, "version") {
		files := doc.Tool.Setuptools.Dynamic.Version.files()
		if len(files) == 0 {
			return fmt.Errorf("%w in file '%s': dynamic version is not read from a file", ErrNoVersion, path)
		}
		target := filepath.Join(filepath.Dir(path), filepath.FromSlash(files[0]))
		r.logger.Debug().Str("path", target).Str("version", version).Msg("updating dynamic version file")
		return reqfile.WriteVersion(target, version)
	}

	table := "project"
	if doc.Project == nil {
		if doc.Tool.Poetry == nil {
			return fmt.Errorf("%w in file '%s'", ErrNoVersion, path)
		}
		table = "tool.poetry"
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	updated, ok := replaceVersion(string(content), table, version)
	if !ok {
		return fmt.Errorf("%w in file '%s'", ErrNoVersion, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	r.logger.Debug().Str("path", path).Str("table", table).Str("version", version).Msg("updated version")
	return nil
}

func (r *Reader) decode(path string) (*document, error) {
	if filepath.Base(path) != DescriptorName {
		return nil, fmt.Errorf("file '%s' is %w", path, ErrNotPyProject)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse file '%s': %w", path, err)
	}
	return &doc, nil
}

func (r *Reader) fromProject(doc *document, dir string) (*core.Metadata, error) {
	p := doc.Project
	meta := &core.Metadata{
		Name:            p.Name,
		Version:         p.Version,
		Description:     p.Description,
		PythonRequires:  p.RequiresPython,
		License:         license(p.License),
		Keywords:        p.Keywords,
		Classifiers:     p.Classifiers,
		InstallRequires: p.Dependencies,
		ExtrasRequire:   p.OptionalDependencies,
		URL:             homepage(p.URLs),
		Packages:        packages(doc.Tool.Setuptools.Packages),
	}

	authors := append(append([]person(nil), p.Authors...), p.Maintainers...)
	for _, a := range authors {
		if meta.Author == "" && a.Name != "" {
			meta.Author = a.Name
		}
		if meta.AuthorEmail == "" && a.Email != "" {
			meta.AuthorEmail = a.Email
		}
	}

	if isDynamic(p, "version") {
		files := doc.Tool.Setuptools.Dynamic.Version.files()
		if len(files) > 0 {
			versionFile := filepath.Join(dir, filepath.FromSlash(files[0]))
			version, err := reqfile.ReadVersion(versionFile)
			if err != nil {
				return nil, fmt.Errorf("reading dynamic version: %w", err)
			}
			meta.Version = version
			meta.VersionSource = versionFile
		}
	}

	if isDynamic(p, "dependencies") {
		for _, file := range doc.Tool.Setuptools.Dynamic.Dependencies.files() {
			lines, err := reqfile.ReadLines(filepath.Join(dir, filepath.FromSlash(file)))
			if err != nil {
				return nil, fmt.Errorf("reading dynamic dependencies: %w", err)
			}
			meta.InstallRequires = append(meta.InstallRequires, lines...)
		}
	}

	return meta, nil
}

// replaceVersion rewrites the first version key inside [table]
func replaceVersion(content, table, version string) (string, bool) {
	lines := strings.SplitAfter(content, "\n")
	current := ""
	for i, line := range lines {
		if m := tableRe.FindStringSubmatch(strings.TrimRight(line, "\r\n")); m != nil {
			current = strings.ReplaceAll(m[1], " ", "")
			continue
		}
		if current != table {
			continue
		}
		if m := versionRe.FindStringSubmatchIndex(line); m != nil {
			lines[i] = line[:m[6]] + version + line[m[7]:]
			return strings.Join(lines, ""), true
		}
	}
	return content, false
}

func isDynamic(p *project, field string) bool {
	for _, d := range p.Dynamic {
		if d == field {
			return true
		}
	}
	return false
}

func license(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		if text, ok := l["text"].(string); ok {
			return text
		}
		if file, ok := l["file"].(string); ok {
			return file
		}
	}
	return ""
}

func homepage(urls map[string]string) string {
	for _, key := range []string{"Homepage", "homepage", "Home", "Source", "Repository"} {
		if u, ok := urls[key]; ok {
			return u
		}
	}
	return ""
}

func packages(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
