package pyproject

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pydesc/pkg/reqfile"
)

const (
	invalidToml = `[project]`
	sampleToml  = `[project]
name = "simple-python"
version = "1.2.3"
`
	largeSampleToml = `[project]
name = "sampleproject"
version = "4.0.0"
description = "A sample Python project"
license = { file = "LICENSE.txt" }

authors = [{ name = "A. Random Developer", email = "author@example.com" }]
requires-python = ">=3.9"
readme = "README.md"

maintainers = [{ name = "A. Great Maintainer", email = "maintainer@example.com" }]
keywords = ["sample", "setuptools", "development"]
classifiers = [
    "Development Status :: 3 - Alpha",
    "Programming Language :: Python :: 3 :: Only",
]
dependencies = ["peppercorn"]

[project.optional-dependencies]
dev = ["check-manifest"]
test = ["coverage"]

[project.urls]
Homepage = "https://github.com/pypa/sampleproject"
"Bug Reports" = "https://github.com/pypa/sampleproject/issues"

[build-system]
requires = ["setuptools"]
build-backend = "setuptools.build_meta"

[tool.setuptools]
packages = ["sample"]
`
	dynamicToml = `[project]
name = "dyn"
dynamic = ["version", "dependencies"]

[tool.setuptools.dynamic]
version = { file = "VERSION" }
dependencies = { file = ["requirements.txt"] }
`
	poetryToml = `[tool.poetry]
name = "poetic"
version = "0.3.0"
description = "Poetry project"
authors = ["Jane Doe <jane@example.com>"]
repository = "https://example.com/poetic"

[tool.poetry.dependencies]
python = "^3.10"
`
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return filepath.Join(dir, DescriptorName)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	reader := NewReader(nil)

	t.Run("sample", func(t *testing.T) {
		meta, err := reader.Load(ctx, writeProject(t, map[string]string{DescriptorName: sampleToml}))
		require.NoError(t, err)
		assert.Equal(t, "simple-python", meta.Name)
		assert.Equal(t, "1.2.3", meta.Version)
		assert.Equal(t, "pip", meta.Coordinates().Packaging)
	})

	t.Run("large sample", func(t *testing.T) {
		meta, err := reader.Load(ctx, writeProject(t, map[string]string{DescriptorName: largeSampleToml}))
		require.NoError(t, err)
		assert.Equal(t, "sampleproject", meta.Name)
		assert.Equal(t, "4.0.0", meta.Version)
		assert.Equal(t, "A. Random Developer", meta.Author)
		assert.Equal(t, "author@example.com", meta.AuthorEmail)
		assert.Equal(t, "LICENSE.txt", meta.License)
		assert.Equal(t, ">=3.9", meta.PythonRequires)
		assert.Equal(t, "https://github.com/pypa/sampleproject", meta.URL)
		assert.Equal(t, []string{"peppercorn"}, meta.InstallRequires)
		assert.Equal(t, map[string][]string{"dev": {"check-manifest"}, "test": {"coverage"}}, meta.ExtrasRequire)
		assert.Equal(t, []string{"sample"}, meta.Packages)
		assert.Len(t, meta.Classifiers, 2)
	})

	t.Run("dynamic", func(t *testing.T) {
		path := writeProject(t, map[string]string{
			DescriptorName:     dynamicToml,
			"VERSION":          "7.1.0\n",
			"requirements.txt": "six\nclick>=8\n",
		})
		meta, err := reader.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "7.1.0", meta.Version)
		assert.Equal(t, filepath.Join(filepath.Dir(path), "VERSION"), meta.VersionSource)
		assert.Equal(t, []string{"six", "click>=8"}, meta.InstallRequires)
	})

	t.Run("dynamic version file missing", func(t *testing.T) {
		_, err := reader.Load(ctx, writeProject(t, map[string]string{DescriptorName: dynamicToml}))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("poetry", func(t *testing.T) {
		meta, err := reader.Load(ctx, writeProject(t, map[string]string{DescriptorName: poetryToml}))
		require.NoError(t, err)
		assert.Equal(t, "poetic", meta.Name)
		assert.Equal(t, "0.3.0", meta.Version)
		assert.Equal(t, "Jane Doe", meta.Author)
		assert.Equal(t, "jane@example.com", meta.AuthorEmail)
		assert.Equal(t, "https://example.com/poetic", meta.URL)
	})

	t.Run("poetry dependencies", func(t *testing.T) {
		content := poetryToml + `requests = "^2.31"
click = { version = "~8.1.3", extras = ["cli"] }
tomli = { version = ">=1.1", markers = "python_version < '3.11'" }
attrs = "23.1.0"
anything = "*"
tool = { git = "https://example.com/tool.git", tag = "v1.0" }
local = { path = "../local" }
rich = { version = "^0.13.2", optional = true }

[tool.poetry.extras]
pretty = ["rich"]
`
		meta, err := reader.Load(ctx, writeProject(t, map[string]string{DescriptorName: content}))
		require.NoError(t, err)
		assert.Equal(t, ">=3.10,<4.0", meta.PythonRequires)
		assert.Equal(t, []string{
			"anything",
			"attrs==23.1.0",
			"click[cli]>=8.1.3,<8.2.0",
			"requests>=2.31,<3.0",
			"tomli>=1.1; python_version < '3.11'",
			"tool @ git+https://example.com/tool.git@v1.0",
		}, meta.InstallRequires)
		assert.Equal(t, map[string][]string{"pretty": {"rich>=0.13.2,<0.14.0"}}, meta.ExtrasRequire)

		for _, line := range meta.InstallRequires {
			_, err := reqfile.ParseRequirement(line)
			assert.NoError(t, err, line)
		}
	})

	t.Run("fail - invalid pyproject.toml", func(t *testing.T) {
		path := writeProject(t, map[string]string{DescriptorName: invalidToml})
		_, err := reader.Load(ctx, path)
		assert.ErrorIs(t, err, ErrNoVersion)
		assert.ErrorContains(t, err, "no version information found in file '"+path+"'")
	})

	t.Run("fail - empty pyproject.toml", func(t *testing.T) {
		_, err := reader.Load(ctx, writeProject(t, map[string]string{DescriptorName: ""}))
		assert.ErrorIs(t, err, ErrNoVersion)
	})

	t.Run("fail - not a pyproject.toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "setup.cfg")
		_, err := reader.Load(ctx, path)
		assert.ErrorContains(t, err, "file '"+path+"' is not a pyproject.toml")
	})

	t.Run("fail - missing pyproject.toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DescriptorName)
		_, err := reader.Load(ctx, path)
		assert.ErrorContains(t, err, "failed to read file '"+path+"'")
	})

	t.Run("fail - broken toml", func(t *testing.T) {
		_, err := reader.Load(ctx, writeProject(t, map[string]string{DescriptorName: "[project\nname="}))
		assert.ErrorContains(t, err, "failed to parse file")
	})
}

func TestPoetryConstraint(t *testing.T) {
	tests := map[string]string{
		"^1.2.3":      ">=1.2.3,<2.0.0",
		"^0.2.3":      ">=0.2.3,<0.3.0",
		"^0.0.3":      ">=0.0.3,<0.0.4",
		"^0":          ">=0,<1",
		"~1.2.3":      ">=1.2.3,<1.3.0",
		"~1":          ">=1,<2",
		"~=1.4":       "~=1.4",
		">= 1.0, < 2": ">=1.0,<2",
		"1.2.*":       "==1.2.*",
		"*":           "",
		"^1.0 || ^2":  "",
	}
	for constraint, want := range tests {
		t.Run(constraint, func(t *testing.T) {
			assert.Equal(t, want, poetryConstraint(constraint))
		})
	}
}

func TestSetVersion(t *testing.T) {
	ctx := context.Background()
	reader := NewReader(nil)

	t.Run("large pyproject.toml", func(t *testing.T) {
		path := writeProject(t, map[string]string{DescriptorName: largeSampleToml})

		require.NoError(t, reader.SetVersion(ctx, path, "5.0.0"))

		meta, err := reader.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "sampleproject", meta.Name)
		assert.Equal(t, "5.0.0", meta.Version)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `version = "5.0.0"`)
		assert.Contains(t, string(content), `requires = ["setuptools"]`)
	})

	t.Run("only the project table is touched", func(t *testing.T) {
		content := "[tool.other]\nversion = \"9\"\n\n[project]\nname = \"x\"\nversion = '1.0'\n"
		path := writeProject(t, map[string]string{DescriptorName: content})

		require.NoError(t, reader.SetVersion(ctx, path, "1.1"))

		updated, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[tool.other]\nversion = \"9\"\n\n[project]\nname = \"x\"\nversion = '1.1'\n", string(updated))
	})

	t.Run("dynamic version file", func(t *testing.T) {
		path := writeProject(t, map[string]string{DescriptorName: dynamicToml, "VERSION": "7.1.0\n", "requirements.txt": ""})

		require.NoError(t, reader.SetVersion(ctx, path, "7.2.0"))

		version, err := reader.GetVersion(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "7.2.0", version)
	})

	t.Run("poetry", func(t *testing.T) {
		path := writeProject(t, map[string]string{DescriptorName: poetryToml})
		require.NoError(t, reader.SetVersion(ctx, path, "0.4.0"))

		version, err := reader.GetVersion(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "0.4.0", version)
	})

	t.Run("no version key", func(t *testing.T) {
		path := writeProject(t, map[string]string{DescriptorName: invalidToml})
		err := reader.SetVersion(ctx, path, "1.0")
		assert.ErrorIs(t, err, ErrNoVersion)
	})
}
