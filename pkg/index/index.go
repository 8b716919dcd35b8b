package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"

	"github.com/arc-language/pydesc/pkg/registry"
)

// Options configures a registry sync
type Options struct {
	URL      string
	Branch   string
	Progress io.Writer // git progress output, nil for none
	Logger   zerolog.Logger
}

// Sync clones the registry repository and replaces the cached registry/ folder
func Sync(ctx context.Context, cacheDir string, opts Options) error {
	tempDir, err := os.MkdirTemp("", "pydesc-clone-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	opts.Logger.Info().Str("url", opts.URL).Str("branch", opts.Branch).Msg("updating registry")

	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:           opts.URL,
		ReferenceName: plumbing.NewBranchReferenceName(opts.Branch),
		SingleBranch:  true,
		Depth:         1,
		Progress:      opts.Progress,
	})
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}

	return Install(filepath.Join(tempDir, registry.Dir), cacheDir, opts.Logger)
}

// Install copies a registry/ tree into the cache, replacing the previous copy
func Install(src, cacheDir string, logger zerolog.Logger) error {
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return fmt.Errorf("repository has no %s/ folder", registry.Dir)
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	staging, err := os.MkdirTemp(cacheDir, ".registry-*")
	if err != nil {
		return fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := copyDir(src, staging); err != nil {
		return fmt.Errorf("copying registry: %w", err)
	}

	target := filepath.Join(cacheDir, registry.Dir)
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("removing old registry: %w", err)
	}
	if err := os.Rename(staging, target); err != nil {
		return fmt.Errorf("installing registry: %w", err)
	}

	logger.Info().Str("path", target).Msg("registry updated")
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}
