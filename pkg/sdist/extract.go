// pkg/sdist/extract.go
package sdist

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	// ErrUnsupportedFormat is returned for archives of unknown type
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrUnsafePath is returned for entries that would land outside the destination
	ErrUnsafePath = errors.New("archive entry escapes destination")
	// ErrNoProjectRoot is returned when an extracted archive holds no single top-level directory
	ErrNoProjectRoot = errors.New("no single project root")
)

// DetectFormat returns the archive format from the file name
func DetectFormat(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.format, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// Extract unpacks archive into dest
func Extract(ctx context.Context, archive, dest string) error {
	format, err := DetectFormat(archive)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if format == FormatZip {
		return extractZip(ctx, archive, dest)
	}

	f, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch format {
	case FormatTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("gzip init: %w", err)
		}
		defer gz.Close()
		r = gz
	case FormatTarXz:
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating xz reader: %w", err)
		}
		r = xzReader
	case FormatTarZst:
		zstdReader, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("zstd init: %w", err)
		}
		defer zstdReader.Close()
		r = zstdReader
	case FormatTarBz2:
		r = bzip2.NewReader(f)
	}

	return extractTar(ctx, r, dest)
}

func extractTar(ctx context.Context, r io.Reader, dest string) error {
	tarReader := tar.NewReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar: %w", err)
		}

		target, err := safeJoin(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tarReader, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink, tar.TypeLink:
			// links are not needed to read a descriptor and may point anywhere
			continue
		}
	}
}

func extractZip(ctx context.Context, archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(dest, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if !file.Mode().IsRegular() {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("opening %s: %w", file.Name, err)
		}
		err = writeFile(target, rc, file.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, io.LimitReader(r, maxFileSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if n > maxFileSize {
		return fmt.Errorf("writing %s: entry exceeds %d bytes", target, maxFileSize)
	}
	return nil
}

// safeJoin resolves name below dest, rejecting absolute names and ".." escapes
func safeJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

// ProjectRoot returns the single top-level directory of an extracted sdist,
// or dir itself when it directly holds a descriptor
func ProjectRoot(dir string, descriptors []string) (string, error) {
	for _, name := range descriptors {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return dir, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var root string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if root != "" {
			return "", fmt.Errorf("%w in %s", ErrNoProjectRoot, dir)
		}
		root = filepath.Join(dir, entry.Name())
	}
	if root == "" {
		return "", fmt.Errorf("%w in %s", ErrNoProjectRoot, dir)
	}
	return root, nil
}
