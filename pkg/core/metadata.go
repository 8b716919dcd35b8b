// pkg/core/metadata.go
package core

// Kind identifies the descriptor format a Metadata record was read from
type Kind string

const (
	// KindSetupPy is a setuptools setup.py manifest
	KindSetupPy Kind = "setuppy"
	// KindPyProject is a PEP 621 pyproject.toml
	KindPyProject Kind = "pyproject"
	// KindVersionFile is a bare version.txt / VERSION file
	KindVersionFile Kind = "versionfile"
	// KindAuto lets the caller detect the descriptor
	KindAuto Kind = "auto"
)

// PipPackaging is the packaging reported in Coordinates for Python artifacts
const PipPackaging = "pip"

// Metadata is the package record declared by a descriptor
type Metadata struct {
	Name            string              `yaml:"name" json:"name"`
	Version         string              `yaml:"version" json:"version"`
	Description     string              `yaml:"description,omitempty" json:"description,omitempty"`
	Author          string              `yaml:"author,omitempty" json:"author,omitempty"`
	AuthorEmail     string              `yaml:"author_email,omitempty" json:"author_email,omitempty"`
	URL             string              `yaml:"url,omitempty" json:"url,omitempty"`
	License         string              `yaml:"license,omitempty" json:"license,omitempty"`
	Packages        []string            `yaml:"packages,omitempty" json:"packages,omitempty"`
	Classifiers     []string            `yaml:"classifiers,omitempty" json:"classifiers,omitempty"`
	Keywords        []string            `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	PythonRequires  string              `yaml:"python_requires,omitempty" json:"python_requires,omitempty"`
	InstallRequires []string            `yaml:"install_requires,omitempty" json:"install_requires,omitempty"`
	ExtrasRequire   map[string][]string `yaml:"extras_require,omitempty" json:"extras_require,omitempty"`

	Kind          Kind   `yaml:"kind" json:"kind"`
	Source        string `yaml:"source" json:"source"`
	VersionSource string `yaml:"version_source,omitempty" json:"version_source,omitempty"`
}

// Coordinates addresses a built artifact
type Coordinates struct {
	GroupID    string `yaml:"group_id,omitempty" json:"group_id,omitempty"`
	ArtifactID string `yaml:"artifact_id" json:"artifact_id"`
	Version    string `yaml:"version" json:"version"`
	Packaging  string `yaml:"packaging" json:"packaging"`
}

// Coordinates derives the artifact coordinates from the metadata
func (m *Metadata) Coordinates() Coordinates {
	return Coordinates{
		ArtifactID: m.Name,
		Version:    m.Version,
		Packaging:  PipPackaging,
	}
}

// GetVersion returns the declared version
func (c Coordinates) GetVersion() string {
	return c.Version
}
