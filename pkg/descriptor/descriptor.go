// pkg/descriptor/descriptor.go
package descriptor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/logging"
	"github.com/arc-language/pydesc/pkg/pyproject"
	"github.com/arc-language/pydesc/pkg/setuppy"
)

var (
	// ErrNoDescriptor is returned when a directory holds no supported descriptor
	ErrNoDescriptor = errors.New("no build descriptor available")
	// ErrUnsupportedKind is returned for an unknown descriptor kind
	ErrUnsupportedKind = errors.New("unsupported descriptor kind")
)

// Supported lists the descriptor file names in detection order
var Supported = []string{
	setuppy.DescriptorName,
	pyproject.DescriptorName,
	"version.txt",
	"VERSION",
}

// Config configures descriptor readers
type Config struct {
	Logger *zerolog.Logger
}

// New creates the descriptor of the given kind for path.
// KindAuto infers the kind from the file name, or detects it when path is a directory.
func New(kind core.Kind, path string, cfg *Config) (core.Descriptor, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	if kind == core.KindAuto || kind == "" {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return Detect(path, cfg)
		}
		kind = KindOf(path)
		if kind == "" {
			return nil, fmt.Errorf("%w: cannot infer kind of %s", ErrUnsupportedKind, path)
		}
	}

	switch kind {
	case core.KindSetupPy:
		return &setupPy{path: path, reader: setuppy.NewReader(&setuppy.Config{Logger: cfg.Logger})}, nil
	case core.KindPyProject:
		return &pyProject{path: path, reader: pyproject.NewReader(&pyproject.Config{Logger: cfg.Logger})}, nil
	case core.KindVersionFile:
		return &versionFile{path: path, logger: logging.Component(logging.OrNop(cfg.Logger), "versionfile")}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

// Detect returns the descriptor of the first supported file found in dir
func Detect(dir string, cfg *Config) (core.Descriptor, error) {
	for _, name := range Supported {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return New(KindOf(candidate), candidate, cfg)
		}
	}
	return nil, fmt.Errorf("%w, supported: %v", ErrNoDescriptor, Supported)
}

// KindOf maps a descriptor file name to its kind, or "" when unsupported
func KindOf(path string) core.Kind {
	switch filepath.Base(path) {
	case setuppy.DescriptorName:
		return core.KindSetupPy
	case pyproject.DescriptorName:
		return core.KindPyProject
	case "version.txt", "VERSION":
		return core.KindVersionFile
	}
	return ""
}

// ParseKind validates a kind given on the command line
func ParseKind(s string) (core.Kind, error) {
	switch k := core.Kind(s); k {
	case core.KindSetupPy, core.KindPyProject, core.KindVersionFile, core.KindAuto:
		return k, nil
	case "":
		return core.KindAuto, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, s)
}
