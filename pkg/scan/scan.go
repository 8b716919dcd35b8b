// Package scan finds Python projects below a directory and describes them concurrently.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/descriptor"
)

// Options configures a scan
type Options struct {
	Exclude []string // directory names to skip
	Workers int
	Logger  zerolog.Logger
}

// Result is the outcome for one project directory
type Result struct {
	Dir      string         `yaml:"dir" json:"dir"`
	Metadata *core.Metadata `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Error    string         `yaml:"error,omitempty" json:"error,omitempty"`
}

// Scan describes every directory below root that holds a descriptor. Results
// are sorted by directory. A project that fails to read is reported in its
// Result; only walk errors and cancellation fail the scan.
func Scan(ctx context.Context, root string, opts Options) ([]Result, error) {
	if opts.Workers <= 0 {
		opts.Workers = core.DefaultScanWorkers
	}
	if opts.Exclude == nil {
		opts.Exclude = core.DefaultScanExcludes
	}

	dirs, err := Projects(root, opts.Exclude)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug().Str("root", root).Int("projects", len(dirs)).Msg("scanning")

	results := make([]Result, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = describe(ctx, dir, opts.Logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Projects returns the sorted directories below root that hold a supported descriptor
func Projects(root string, exclude []string) ([]string, error) {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	supported := make(map[string]bool, len(descriptor.Supported))
	for _, name := range descriptor.Supported {
		supported[name] = true
	}

	found := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if supported[d.Name()] {
			found[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	dirs := make([]string, 0, len(found))
	for dir := range found {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func describe(ctx context.Context, dir string, logger zerolog.Logger) Result {
	result := Result{Dir: dir}

	d, err := descriptor.Detect(dir, &descriptor.Config{Logger: &logger})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	meta, err := d.Metadata(ctx)
	if err != nil {
		logger.Debug().Err(err).Str("dir", dir).Msg("describe failed")
		result.Error = err.Error()
		return result
	}

	result.Metadata = meta
	return result
}
