package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pydesc/pkg/core"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		kind  core.Kind
		file  string
	}{
		{
			name:  "setup.py wins over pyproject.toml",
			files: map[string]string{"setup.py": `setup(version="1.0")`, "pyproject.toml": "[project]\nversion = \"2.0\"\n"},
			kind:  core.KindSetupPy,
			file:  "setup.py",
		},
		{
			name:  "pyproject.toml",
			files: map[string]string{"pyproject.toml": "[project]\nversion = \"2.0\"\n", "VERSION": "3.0"},
			kind:  core.KindPyProject,
			file:  "pyproject.toml",
		},
		{
			name:  "version.txt before VERSION",
			files: map[string]string{"version.txt": "1.0", "VERSION": "2.0"},
			kind:  core.KindVersionFile,
			file:  "version.txt",
		},
		{
			name:  "VERSION",
			files: map[string]string{"VERSION": "2.0"},
			kind:  core.KindVersionFile,
			file:  "VERSION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			d, err := Detect(dir, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, d.Kind())
			assert.Equal(t, filepath.Join(dir, tt.file), d.Path())
		})
	}

	t.Run("nothing found", func(t *testing.T) {
		_, err := Detect(t.TempDir(), nil)
		assert.ErrorIs(t, err, ErrNoDescriptor)
		assert.EqualError(t, err, "no build descriptor available, supported: [setup.py pyproject.toml version.txt VERSION]")
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("auto from directory", func(t *testing.T) {
		d, err := New(core.KindAuto, filepath.Join("..", "setuppy", "testdata", "simple"), nil)
		require.NoError(t, err)
		assert.Equal(t, core.KindSetupPy, d.Kind())

		coords, err := d.GetCoordinates(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.Coordinates{ArtifactID: "some-test", Version: "1.0.3", Packaging: "pip"}, coords)
	})

	t.Run("auto from file name", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"pyproject.toml": "[project]\nname = \"p\"\nversion = \"2.0\"\n"})
		d, err := New("", filepath.Join(dir, "pyproject.toml"), nil)
		require.NoError(t, err)
		assert.Equal(t, core.KindPyProject, d.Kind())

		version, err := d.GetVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2.0", version)
	})

	t.Run("unknown file", func(t *testing.T) {
		_, err := New(core.KindAuto, "setup.cfg", nil)
		assert.ErrorIs(t, err, ErrUnsupportedKind)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New("gradle", "build.gradle", nil)
		assert.ErrorIs(t, err, ErrUnsupportedKind)
	})

	t.Run("explicit kind ignores name", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"RELEASE": "0.1.0\n"})
		d, err := New(core.KindVersionFile, filepath.Join(dir, "RELEASE"), nil)
		require.NoError(t, err)
		version, err := d.GetVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, "0.1.0", version)
	})
}

func TestVersionFile(t *testing.T) {
	ctx := context.Background()
	dir := writeFiles(t, map[string]string{"version.txt": "1.2.3\n"})
	path := filepath.Join(dir, "version.txt")

	d, err := New(core.KindVersionFile, path, nil)
	require.NoError(t, err)

	meta, err := d.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", meta.Version)
	assert.Equal(t, path, meta.VersionSource)
	assert.Empty(t, meta.Name)

	require.NoError(t, d.SetVersion(ctx, "1.3.0"))
	coords, err := d.GetCoordinates(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Coordinates{Version: "1.3.0"}, coords)

	missing, err := New(core.KindVersionFile, filepath.Join(dir, "VERSION"), nil)
	require.NoError(t, err)
	_, err = missing.GetVersion(ctx)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, core.KindAuto, kind)

	kind, err = ParseKind("pyproject")
	require.NoError(t, err)
	assert.Equal(t, core.KindPyProject, kind)

	_, err = ParseKind("maven")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
