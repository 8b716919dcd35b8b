package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pydesc/pkg/registry"
)

func TestInstall(t *testing.T) {
	src := filepath.Join(t.TempDir(), registry.Dir)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "psycopg2"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "psycopg2", "index.toml"), []byte("[backends]\napt = \"libpq-dev\"\n"), 0644))

	cache := t.TempDir()
	stale := filepath.Join(cache, registry.Dir, "stale")
	require.NoError(t, os.MkdirAll(stale, 0755))

	require.NoError(t, Install(src, cache, zerolog.Nop()))

	pkg, err := registry.New(cache).Resolve("psycopg2", "apt")
	require.NoError(t, err)
	assert.Equal(t, "libpq-dev", pkg)
	assert.NoDirExists(t, stale)

	leftovers, err := filepath.Glob(filepath.Join(cache, ".registry-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestInstallWithoutRegistry(t *testing.T) {
	err := Install(filepath.Join(t.TempDir(), registry.Dir), t.TempDir(), zerolog.Nop())
	assert.ErrorContains(t, err, "repository has no registry/ folder")
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "index.toml"), []byte("x"), 0644))

	dst := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, copyDir(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "a", "b", "index.toml"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
