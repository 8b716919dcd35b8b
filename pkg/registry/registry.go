// pkg/registry/registry.go
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/arc-language/pydesc/pkg/reqfile"
)

// Dir is the registry directory inside the cache and the synced repository
const Dir = "registry"

var (
	// ErrNotSynced is returned before the registry was synced into the cache
	ErrNotSynced = errors.New("registry not found, run sync first")
	// ErrNotFound is returned for a Python project without registry entry
	ErrNotFound = errors.New("project not found in registry")
	// ErrNoBackend is returned when an entry lacks the requested package manager
	ErrNoBackend = errors.New("no entry for backend")
)

// Entry represents a single registry/<name>/index.toml file: the system
// packages a Python project needs to build or run
type Entry struct {
	Name     string            `toml:"name" yaml:"name" json:"name"`
	Libs     []string          `toml:"libs" yaml:"libs,omitempty" json:"libs,omitempty"`
	Backends map[string]string `toml:"backends" yaml:"backends" json:"backends"`
}

// Registry provides lookup into the cached registry folder
type Registry struct {
	dir string
}

// New creates a Registry pointed at the cached registry directory
func New(cacheDir string) *Registry {
	return &Registry{
		dir: filepath.Join(cacheDir, Dir),
	}
}

// Resolve takes a Python project name and a package manager,
// returns the system package for that manager.
// e.g. Resolve("psycopg2", "apt") -> "libpq-dev"
func (r *Registry) Resolve(name string, backend string) (string, error) {
	entry, err := r.Load(name)
	if err != nil {
		return "", err
	}

	pkgName, ok := entry.Backends[backend]
	if !ok {
		return "", fmt.Errorf("registry: %w '%s' in '%s'", ErrNoBackend, backend, name)
	}

	return pkgName, nil
}

// Load reads and parses registry/<normalized name>/index.toml
func (r *Registry) Load(name string) (*Entry, error) {
	if _, err := os.Stat(r.dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("registry: %w", ErrNotSynced)
	}

	normalized := reqfile.NormalizeName(name)
	path := filepath.Join(r.dir, normalized, "index.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		// Check if the directory exists, to give a better error message.
		if _, statErr := os.Stat(filepath.Dir(path)); statErr == nil {
			return nil, fmt.Errorf("registry: found project '%s' directory, but missing index.toml", normalized)
		}
		return nil, fmt.Errorf("registry: %w: '%s'", ErrNotFound, name)
	}

	var entry Entry
	if _, err := toml.Decode(string(data), &entry); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", normalized, err)
	}
	if entry.Name == "" {
		entry.Name = normalized
	}

	return &entry, nil
}

// Names lists the normalized project names held by the registry
func (r *Registry) Names() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("registry: %w", ErrNotSynced)
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
