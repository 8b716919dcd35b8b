package reqfile

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadVersion(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"trailing newline", "1.2.3\n", "1.2.3"},
		{"no newline", "1.2.4", "1.2.4"},
		{"crlf", "1.2.5\r\n", "1.2.5"},
		{"only first line", "2.0.0\nignored\n", "2.0.0"},
		{"trailing spaces", "3.1  \n", "3.1"},
		{"empty", "", ""},
		{"lone carriage return", "1.0\r2.0", "1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "version.txt", tt.content)
			got, err := ReadVersion(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadVersion(filepath.Join(dir, "absent.txt"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()

	t.Run("keeps every line in order", func(t *testing.T) {
		path := writeFile(t, dir, "requirements.txt", "requests>=2.0  \n# pinned\n\nclick\n")
		lines, err := ReadLines(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"requests>=2.0", "# pinned", "", "click"}, lines)
	})

	t.Run("no final newline", func(t *testing.T) {
		path := writeFile(t, dir, "requirements.txt", "a\nb")
		lines, err := ReadLines(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, lines)
	})

	t.Run("mixed line endings", func(t *testing.T) {
		path := writeFile(t, dir, "requirements.txt", "a\r\nb\rc\n\rd\r")
		lines, err := ReadLines(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "", "d"}, lines)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "requirements.txt", "")
		lines, err := ReadLines(path)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadLines(filepath.Join(dir, "absent.txt"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestWriteVersion(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "VERSION", "1.2.3")

	require.NoError(t, WriteVersion(path, "2.0.0"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", string(content))

	version, err := ReadVersion(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", version)
}
