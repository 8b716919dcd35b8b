package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "some-test-1.0.3.tar.gz")
	content := []byte("not really an archive\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	d, err := File(path)
	require.NoError(t, err)

	sum := sha256.Sum256(content)
	assert.True(t, strings.HasSuffix(d.Base16, hex.EncodeToString(sum[:])), d.Base16)
	assert.Equal(t, ModeFlat, d.Mode)
	assert.NotEmpty(t, d.Base32)
	assert.True(t, strings.HasPrefix(d.SRI, "sha256-"), d.SRI)

	_, err = File(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTree(t *testing.T) {
	build := func(t *testing.T, version string) string {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "some_test"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "setup.py"), []byte(`setup(name="some-test")`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "version.txt"), []byte(version), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "some_test", "__init__.py"), nil, 0644))
		return dir
	}

	a, err := Tree(build(t, "1.0.0"))
	require.NoError(t, err)
	b, err := Tree(build(t, "1.0.0"))
	require.NoError(t, err)
	c, err := Tree(build(t, "1.0.1"))
	require.NoError(t, err)

	assert.Equal(t, ModeNar, a.Mode)
	assert.Equal(t, a.SRI, b.SRI, "same content in different directories")
	assert.NotEqual(t, a.SRI, c.SRI)

	_, err = Tree(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
