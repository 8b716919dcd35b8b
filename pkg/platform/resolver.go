// pkg/platform/resolver.go
package platform

import (
	"fmt"
	"slices"
)

// ResolveBackend picks the package manager family to resolve system packages for.
// An explicit backend wins over the detected one.
func ResolveBackend(p *Platform, backend string) (string, error) {
	if backend != "" {
		if !slices.Contains(Backends, backend) {
			return "", fmt.Errorf("unknown backend '%s', supported: %v", backend, Backends)
		}
		return backend, nil
	}

	if p == nil || p.Preferred == "" {
		return "", fmt.Errorf("no package manager detected, pass a backend explicitly")
	}
	return p.Preferred, nil
}
