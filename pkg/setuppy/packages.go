// pkg/setuppy/packages.go
package setuppy

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// FindPackages lists the importable packages below root/where the way
// find_packages does: only directories holding __init__.py (any directory
// when namespace is set) whose parents are packages too.
func FindPackages(root, where string, include, exclude []string, namespace bool) ([]string, error) {
	if where == "" {
		where = "."
	}
	base := filepath.Join(root, where)
	if len(include) == 0 {
		include = []string{"*"}
	}
	exclude = append(append([]string(nil), exclude...), defaultPackageExcludes...)

	var packages []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || p == base {
			return nil
		}

		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		name := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")

		if strings.Contains(d.Name(), ".") || !looksLikePackage(p, namespace) {
			return filepath.SkipDir
		}

		if matchAny(name, include) && !matchAny(name, exclude) {
			packages = append(packages, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("finding packages in %s: %w", base, err)
	}

	sort.Strings(packages)
	return packages, nil
}

func looksLikePackage(dir string, namespace bool) bool {
	if namespace {
		return true
	}
	info, err := os.Stat(filepath.Join(dir, "__init__.py"))
	return err == nil && !info.IsDir()
}

func matchAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
