// pkg/pyproject/types.go
package pyproject

import "github.com/rs/zerolog"

// DescriptorName is the only file name accepted by this package
const DescriptorName = "pyproject.toml"

// Config configures reading of pyproject.toml descriptors
type Config struct {
	Logger *zerolog.Logger
}

// document is the subset of pyproject.toml that carries package metadata
type document struct {
	Project *project `toml:"project"`
	Tool    struct {
		Setuptools struct {
			Packages any     `toml:"packages"`
			Dynamic  dynamic `toml:"dynamic"`
		} `toml:"setuptools"`
		Poetry *poetry `toml:"poetry"`
	} `toml:"tool"`
}

// project is the PEP 621 [project] table
type project struct {
	Name                 string              `toml:"name"`
	Version              string              `toml:"version"`
	Description          string              `toml:"description"`
	RequiresPython       string              `toml:"requires-python"`
	License              any                 `toml:"license"`
	Authors              []person            `toml:"authors"`
	Maintainers          []person            `toml:"maintainers"`
	Keywords             []string            `toml:"keywords"`
	Classifiers          []string            `toml:"classifiers"`
	URLs                 map[string]string   `toml:"urls"`
	Dependencies         []string            `toml:"dependencies"`
	OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	Dynamic              []string            `toml:"dynamic"`
}

type person struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// dynamic is [tool.setuptools.dynamic]
type dynamic struct {
	Version      *fileAttr `toml:"version"`
	Dependencies *fileAttr `toml:"dependencies"`
}

// fileAttr is {file = "..."}, {file = [...]} or {attr = "..."}
type fileAttr struct {
	File any    `toml:"file"`
	Attr string `toml:"attr"`
}

// poetry is the [tool.poetry] table used by Poetry projects without [project]
type poetry struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description"`
	Authors     []string `toml:"authors"`
	Homepage    string   `toml:"homepage"`
	Repository  string   `toml:"repository"`
	License     string   `toml:"license"`
	Keywords    []string `toml:"keywords"`
	Classifiers []string `toml:"classifiers"`

	// name -> "^1.2" or {version = "...", extras = [...], optional = true, ...}
	Dependencies map[string]any      `toml:"dependencies"`
	Extras       map[string][]string `toml:"extras"`
}

// files returns the file names of a {file = ...} attribute
func (f *fileAttr) files() []string {
	if f == nil {
		return nil
	}
	switch v := f.File.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
