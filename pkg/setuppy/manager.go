// pkg/setuppy/manager.go
package setuppy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/logging"
	"github.com/arc-language/pydesc/pkg/reqfile"
)

// ErrVersionNotFound is returned when setup() declares no usable version
var ErrVersionNotFound = errors.New("failed to retrieve version")

// Reader reads and updates setup.py descriptors
type Reader struct {
	config *Config
	logger zerolog.Logger
}

// NewReader creates a setup.py reader
func NewReader(cfg *Config) *Reader {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Reader{
		config: cfg,
		logger: logging.Component(logging.OrNop(cfg.Logger), "setuppy"),
	}
}

// Load reads the package metadata declared by the setup.py at path
func (r *Reader) Load(ctx context.Context, path string) (*core.Metadata, error) {
	m, err := r.parse(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	meta := &core.Metadata{
		Name:           r.str(m, "name"),
		Description:    r.str(m, "description"),
		Author:         r.str(m, "author"),
		AuthorEmail:    r.str(m, "author_email"),
		URL:            r.str(m, "url"),
		License:        r.str(m, "license"),
		PythonRequires: r.str(m, "python_requires"),
		Classifiers:    r.list(m, "classifiers"),
		Keywords:       r.keywords(m),
		ExtrasRequire:  r.extras(m),
		Kind:           core.KindSetupPy,
		Source:         path,
	}

	meta.Version, meta.VersionSource, err = r.resolveVersion(m, dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	meta.InstallRequires, err = r.installRequires(m, dir)
	if err != nil {
		return nil, fmt.Errorf("%s: reading install_requires: %w", path, err)
	}

	meta.Packages, err = r.packages(m, dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r.logger.Debug().
		Str("path", path).
		Str("name", meta.Name).
		Str("version", meta.Version).
		Int("requires", len(meta.InstallRequires)).
		Msg("read setup.py")

	return meta, nil
}

// GetVersion reads only the version declared by the setup.py at path
func (r *Reader) GetVersion(ctx context.Context, path string) (string, error) {
	m, err := r.parse(path)
	if err != nil {
		return "", err
	}
	version, _, err := r.resolveVersion(m, filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return version, nil
}

// SetVersion replaces the version literal in setup.py, or rewrites the
// version file when the version is read by a helper
func (r *Reader) SetVersion(ctx context.Context, path, version string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}
	m, err := Parse(src)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrVersionNotFound, err)
	}

	v, ok := m.Get("version")
	if !ok {
		file := existingFile(filepath.Dir(path), DefaultVersionFiles)
		if file == "" {
			return fmt.Errorf("%s: %w", path, ErrVersionNotFound)
		}
		return reqfile.WriteVersion(file, version)
	}

	resolved := m.Resolve(v)
	if resolved.Kind == ValueString {
		updated := make([]byte, 0, len(src)+len(version))
		updated = append(updated, src[:resolved.Start]...)
		updated = append(updated, encodeLiteral(version, resolved.Quote)...)
		updated = append(updated, src[resolved.End:]...)

		perm := os.FileMode(0644)
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
		if err := renameio.WriteFile(path, updated, perm); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		r.logger.Debug().Str("path", path).Str("version", version).Msg("updated version literal")
		return nil
	}

	file, err := r.auxFile(m, resolved, filepath.Dir(path), DefaultVersionFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := reqfile.WriteVersion(file, version); err != nil {
		return err
	}
	r.logger.Debug().Str("path", file).Str("version", version).Msg("updated version file")
	return nil
}

func (r *Reader) parse(path string) (*Manifest, error) {
	r.logger.Debug().Str("path", path).Msg("reading setup.py")

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	m, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrVersionNotFound, err)
	}
	return m, nil
}

func (r *Reader) resolveVersion(m *Manifest, dir string) (string, string, error) {
	v, ok := m.Get("version")
	if !ok {
		file := existingFile(dir, DefaultVersionFiles)
		if file == "" {
			return "", "", ErrVersionNotFound
		}
		return r.readVersionFile(file)
	}

	v = m.Resolve(v)
	if v.Kind == ValueString {
		if v.Str == "" {
			return "", "", fmt.Errorf("%w: empty version", ErrVersionNotFound)
		}
		return v.Str, "", nil
	}

	if v.Kind != ValueCall && v.Kind != ValueRaw {
		return "", "", fmt.Errorf("%w: unsupported version expression %q", ErrVersionNotFound, v.Raw)
	}

	file, err := r.auxFile(m, v, dir, DefaultVersionFiles)
	if err != nil {
		return "", "", err
	}
	return r.readVersionFile(file)
}

func (r *Reader) readVersionFile(file string) (string, string, error) {
	version, err := reqfile.ReadVersion(file)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrVersionNotFound, err)
	}
	if version == "" {
		return "", "", fmt.Errorf("%w: %s is empty", ErrVersionNotFound, file)
	}
	return version, file, nil
}

func (r *Reader) installRequires(m *Manifest, dir string) ([]string, error) {
	v, ok := m.Get("install_requires")
	if !ok {
		return nil, nil
	}

	v = m.Resolve(v)
	if isComprehension(v) {
		v.Kind = ValueRaw
	}
	switch v.Kind {
	case ValueList:
		return v.Strings(), nil
	case ValueString:
		return strings.Fields(v.Str), nil
	case ValueCall, ValueRaw:
		file, err := r.auxFile(m, v, dir, []string{DefaultRequirementsFile})
		if err != nil {
			return nil, err
		}
		return reqfile.ReadLines(file)
	}
	return nil, nil
}

func (r *Reader) packages(m *Manifest, dir string) ([]string, error) {
	v, ok := m.Get("packages")
	if !ok {
		return nil, nil
	}

	v = m.Resolve(v)
	switch v.Kind {
	case ValueList:
		return v.Strings(), nil
	case ValueCall:
		fn := lastSegment(v.Func)
		if fn != FuncFindPackages && fn != FuncFindNamespacePackages {
			return nil, nil
		}
		where := ""
		if w, ok := getArg(v.Args, "where", 0); ok {
			where = m.Resolve(w).Str
		}
		exclude, _ := getArg(v.Args, "exclude", 1)
		include, _ := getArg(v.Args, "include", 2)
		return FindPackages(dir, where, m.Resolve(include).Strings(), m.Resolve(exclude).Strings(), fn == FuncFindNamespacePackages)
	}
	return nil, nil
}

// auxFile locates the file a version or requirements expression reads:
// the file opened by the called helper, a file literal in the expression,
// else the first existing default. A missing file is returned as is so the
// read reports it.
func (r *Reader) auxFile(m *Manifest, v Value, dir string, defaults []string) (string, error) {
	if v.Kind == ValueCall {
		if helper, ok := m.Helpers[lastSegment(v.Func)]; ok && helper.File != "" {
			r.logger.Debug().Str("helper", helper.Name).Str("file", helper.File).Msg("resolved helper file")
			return filepath.Join(dir, filepath.FromSlash(helper.File)), nil
		}
	}
	if match := auxFileRe.FindStringSubmatch(v.Raw); match != nil {
		return filepath.Join(dir, filepath.FromSlash(match[1])), nil
	}
	if len(defaults) == 0 {
		return "", fmt.Errorf("cannot determine file read by %q", v.Raw)
	}
	if file := existingFile(dir, defaults); file != "" {
		return file, nil
	}
	return filepath.Join(dir, defaults[0]), nil
}

func existingFile(dir string, names []string) string {
	for _, name := range names {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func (r *Reader) str(m *Manifest, key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	v = m.Resolve(v)
	if v.Kind != ValueString {
		return ""
	}
	return v.Str
}

func (r *Reader) list(m *Manifest, key string) []string {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	return m.Resolve(v).Strings()
}

func (r *Reader) keywords(m *Manifest) []string {
	v, ok := m.Get("keywords")
	if !ok {
		return nil
	}
	v = m.Resolve(v)
	if v.Kind == ValueString {
		return strings.FieldsFunc(v.Str, func(c rune) bool { return c == ',' || c == ' ' })
	}
	return v.Strings()
}

func (r *Reader) extras(m *Manifest) map[string][]string {
	v, ok := m.Get("extras_require")
	if !ok || v.Kind != ValueDict {
		return nil
	}
	extras := make(map[string][]string, len(v.Dict))
	for name, deps := range v.Dict {
		extras[name] = m.Resolve(deps).Strings()
	}
	return extras
}

// isComprehension reports a [x for x in ...] list
func isComprehension(v Value) bool {
	return v.Kind == ValueList && len(v.Items) == 1 && v.Items[0].Kind == ValueRaw && strings.Contains(v.Items[0].Raw, " for ")
}
