// Package reqfile reads the plain-text files a Python descriptor points at:
// version files (version.txt, VERSION) and pip requirements files.
package reqfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/google/renameio/v2"
)

// maxLine bounds a single line in a version or requirements file
const maxLine = 1024 * 1024

// ReadVersion returns the first line of path with trailing whitespace removed.
// "\n", "\r\n" and a lone "\r" all end a line. An empty file yields an empty version.
func ReadVersion(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading version file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading version file: %w", err)
	}

	if idx := strings.IndexAny(line, "\r\n"); idx >= 0 {
		line = line[:idx]
	}
	return rstrip(line), nil
}

// ReadLines returns every line of path with trailing whitespace removed.
// Blank lines and comments are kept; a final newline does not add an entry.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	scanner.Split(scanLines)

	lines := []string{}
	for scanner.Scan() {
		lines = append(lines, rstrip(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	return lines, nil
}

// WriteVersion atomically replaces the content of path with version
func WriteVersion(path, version string) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := renameio.WriteFile(path, []byte(version), perm); err != nil {
		return fmt.Errorf("writing version file: %w", err)
	}
	return nil
}

// scanLines is bufio.ScanLines with a lone '\r' also ending a line
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r' at the buffer end may be the first half of "\r\n"
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func rstrip(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
