// pydesc.go
package pydesc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arc-language/pydesc/pkg/coords"
	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/descriptor"
	"github.com/arc-language/pydesc/pkg/digest"
	"github.com/arc-language/pydesc/pkg/index"
	"github.com/arc-language/pydesc/pkg/logging"
	"github.com/arc-language/pydesc/pkg/platform"
	"github.com/arc-language/pydesc/pkg/registry"
	"github.com/arc-language/pydesc/pkg/reqfile"
	"github.com/arc-language/pydesc/pkg/scan"
	"github.com/arc-language/pydesc/pkg/sdist"
	"github.com/arc-language/pydesc/pkg/validate"
)

// Re-export core types for convenience
type (
	Config      = core.Config
	Kind        = core.Kind
	Metadata    = core.Metadata
	Coordinates = core.Coordinates
	Requirement = reqfile.Requirement
	Digest      = digest.Digest
	ScanResult  = scan.Result
	// RegistryEntry is the system package record of a Python project
	RegistryEntry = registry.Entry
)

// Re-export descriptor kinds
const (
	KindSetupPy     = core.KindSetupPy
	KindPyProject   = core.KindPyProject
	KindVersionFile = core.KindVersionFile
	KindAuto        = core.KindAuto
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// ProjectCoordinates are the artifact coordinates plus the project name and
// version rendered with the configured name template and version scheme
type ProjectCoordinates struct {
	Coordinates    `yaml:",inline"`
	ProjectName    string `yaml:"project_name" json:"project_name"`
	ProjectVersion string `yaml:"project_version" json:"project_version"`
}

// SystemPackage maps a Python requirement to the system package providing its native parts
type SystemPackage struct {
	Requirement string   `yaml:"requirement" json:"requirement"`
	Package     string   `yaml:"package" json:"package"`
	Libs        []string `yaml:"libs,omitempty" json:"libs,omitempty"`
}

// Manager reads, validates and versions Python build descriptors
type Manager struct {
	config   *Config
	logger   zerolog.Logger
	registry *registry.Registry
}

// NewManager creates a Manager. A nil config uses DefaultConfig.
func NewManager(config *Config) *Manager {
	if config == nil {
		config = DefaultConfig()
	}

	if config.CachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			config.CachePath = filepath.Join(os.TempDir(), "pydesc")
		} else {
			config.CachePath = filepath.Join(home, ".cache", "pydesc")
		}
	}

	return &Manager{
		config:   config,
		logger:   logging.OrNop(config.Logger),
		registry: registry.New(config.CachePath),
	}
}

// Open returns the descriptor for path: a descriptor file, or a project directory when kind is KindAuto
func (m *Manager) Open(path string, kind Kind) (core.Descriptor, error) {
	d, err := descriptor.New(kind, path, &descriptor.Config{Logger: &m.logger})
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	return d, nil
}

// Describe reads the package metadata of a descriptor or project directory
func (m *Manager) Describe(ctx context.Context, path string, kind Kind) (*Metadata, error) {
	d, err := m.Open(path, kind)
	if err != nil {
		return nil, err
	}

	meta, err := d.Metadata(ctx)
	if err != nil {
		return nil, &Error{Op: "describe", Path: d.Path(), Err: err}
	}
	return meta, nil
}

// DescribeArchive reads the package metadata of a source distribution archive.
// Source is reported as the archive; the extracted tree is removed afterwards.
func (m *Manager) DescribeArchive(ctx context.Context, archive string) (*Metadata, error) {
	tempDir, err := os.MkdirTemp("", "pydesc-sdist-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := sdist.Extract(ctx, archive, tempDir); err != nil {
		return nil, &Error{Op: "extract", Path: archive, Err: err}
	}

	root, err := sdist.ProjectRoot(tempDir, descriptor.Supported)
	if err != nil {
		return nil, &Error{Op: "extract", Path: archive, Err: err}
	}
	m.logger.Debug().Str("archive", archive).Str("root", root).Msg("extracted sdist")

	meta, err := m.Describe(ctx, root, KindAuto)
	if err != nil {
		return nil, &Error{Op: "describe", Path: archive, Err: errors.Unwrap(err)}
	}

	meta.Source = archive
	meta.VersionSource = ""
	return meta, nil
}

// Coordinates returns the artifact coordinates with the project name and version
// rendered through the configured name template and version scheme
func (m *Manager) Coordinates(ctx context.Context, path string, kind Kind) (*ProjectCoordinates, error) {
	d, err := m.Open(path, kind)
	if err != nil {
		return nil, err
	}

	c, err := d.GetCoordinates(ctx)
	if err != nil {
		return nil, &Error{Op: "coordinates", Path: d.Path(), Err: err}
	}

	name, version := coords.Determine(m.config.NameTemplate, m.config.VersionScheme, c, m.logger)
	return &ProjectCoordinates{
		Coordinates:    c,
		ProjectName:    name,
		ProjectVersion: version,
	}, nil
}

// Validate reads the metadata and checks it; every failure is reported together
func (m *Manager) Validate(ctx context.Context, path string, kind Kind) (*Metadata, error) {
	meta, err := m.Describe(ctx, path, kind)
	if err != nil {
		return nil, err
	}

	if err := validate.Metadata(meta, validate.Options{Strict: m.config.Strict}); err != nil {
		return meta, &Error{Op: "validate", Path: meta.Source, Err: fmt.Errorf("%w: %w", ErrInvalidMetadata, err)}
	}
	return meta, nil
}

// SetVersion writes version back to wherever the descriptor reads it from
func (m *Manager) SetVersion(ctx context.Context, path string, kind Kind, version string) error {
	version = strings.TrimSpace(version)
	if !validate.Version(version) {
		return &Error{Op: "set-version", Path: path, Err: fmt.Errorf("%w: %q", ErrInvalidVersion, version)}
	}

	d, err := m.Open(path, kind)
	if err != nil {
		return err
	}

	if err := d.SetVersion(ctx, version); err != nil {
		return &Error{Op: "set-version", Path: d.Path(), Err: err}
	}
	m.logger.Debug().Str("path", d.Path()).Str("version", version).Msg("version updated")
	return nil
}

// Dependencies parses install_requires. Includes (-r file) are read relative to the descriptor.
func (m *Manager) Dependencies(ctx context.Context, path string, kind Kind) ([]Requirement, error) {
	d, err := m.Open(path, kind)
	if err != nil {
		return nil, err
	}

	meta, err := d.Metadata(ctx)
	if err != nil {
		return nil, &Error{Op: "dependencies", Path: d.Path(), Err: err}
	}

	set, err := reqfile.ParseRequirements(meta.InstallRequires)
	if err != nil {
		return nil, &Error{Op: "dependencies", Path: d.Path(), Err: err}
	}

	reqs := set.Requirements
	for _, include := range set.Includes {
		if !filepath.IsAbs(include) {
			include = filepath.Join(filepath.Dir(d.Path()), include)
		}
		nested, err := reqfile.ReadRequirements(include)
		if err != nil {
			return nil, &Error{Op: "dependencies", Path: d.Path(), Err: err}
		}
		reqs = append(reqs, nested...)
	}
	return reqs, nil
}

// SystemPackages maps the dependencies to system packages of backend, or of the
// detected package manager when backend is empty. Dependencies without registry
// entry for the backend are skipped.
func (m *Manager) SystemPackages(ctx context.Context, path string, kind Kind, backend string) ([]SystemPackage, error) {
	if backend == "" {
		backend = m.config.Backend
	}
	if backend == "" {
		plat, err := platform.Detect()
		if err != nil {
			return nil, &Error{Op: "system-packages", Err: err}
		}
		backend = plat.Preferred
	}
	backend, err := platform.ResolveBackend(nil, backend)
	if err != nil {
		return nil, &Error{Op: "system-packages", Err: err}
	}

	reqs, err := m.Dependencies(ctx, path, kind)
	if err != nil {
		return nil, err
	}

	var pkgs []SystemPackage
	for _, req := range reqs {
		entry, err := m.registry.Load(req.Name)
		if errors.Is(err, registry.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, &Error{Op: "system-packages", Path: path, Err: err}
		}

		pkg, ok := entry.Backends[backend]
		if !ok {
			m.logger.Debug().Str("requirement", req.Name).Str("backend", backend).Msg("no system package for backend")
			continue
		}
		m.logger.Debug().Str("requirement", req.Name).Str("package", pkg).Str("backend", backend).Msg("resolved system package")
		pkgs = append(pkgs, SystemPackage{Requirement: req.Name, Package: pkg, Libs: entry.Libs})
	}
	return pkgs, nil
}

// GetRegistryEntry retrieves the full registry entry for a Python project
func (m *Manager) GetRegistryEntry(name string) (*RegistryEntry, error) {
	return m.registry.Load(name)
}

// Scan describes every project below root
func (m *Manager) Scan(ctx context.Context, root string) ([]ScanResult, error) {
	results, err := scan.Scan(ctx, root, scan.Options{
		Exclude: m.config.Scan.Exclude,
		Workers: m.config.Scan.Workers,
		Logger:  logging.Component(m.logger, "scan"),
	})
	if err != nil {
		return nil, &Error{Op: "scan", Path: root, Err: err}
	}
	return results, nil
}

// Fingerprint hashes a file flat, or a directory as NAR serialization
func (m *Manager) Fingerprint(path string) (*Digest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &Error{Op: "fingerprint", Path: path, Err: err}
	}

	var d *Digest
	if info.IsDir() {
		d, err = digest.Tree(path)
	} else {
		d, err = digest.File(path)
	}
	if err != nil {
		return nil, &Error{Op: "fingerprint", Path: path, Err: err}
	}
	return d, nil
}

// Sync updates the cached system package registry; progress may be nil
func (m *Manager) Sync(ctx context.Context, progress io.Writer) error {
	err := index.Sync(ctx, m.config.CachePath, index.Options{
		URL:      m.config.RegistryURL,
		Branch:   m.config.RegistryBranch,
		Progress: progress,
		Logger:   logging.Component(m.logger, "index"),
	})
	if err != nil {
		return &Error{Op: "sync", Err: err}
	}
	return nil
}
