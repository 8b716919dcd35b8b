// errors.go
package pydesc

import (
	"errors"
	"fmt"

	"github.com/arc-language/pydesc/pkg/descriptor"
	"github.com/arc-language/pydesc/pkg/registry"
	"github.com/arc-language/pydesc/pkg/setuppy"
	"github.com/arc-language/pydesc/pkg/validate"
)

var (
	// ErrNoDescriptor indicates a directory without setup.py, pyproject.toml or version file
	ErrNoDescriptor = descriptor.ErrNoDescriptor

	// ErrVersionNotFound indicates a setup.py without a usable version
	ErrVersionNotFound = setuppy.ErrVersionNotFound

	// ErrInvalidVersion indicates a version that is not PEP 440
	ErrInvalidVersion = validate.ErrInvalidVersion

	// ErrInvalidMetadata indicates metadata that failed validation
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrNotSynced indicates the system package registry has not been synced
	ErrNotSynced = registry.ErrNotSynced
)

// Error wraps an error with additional context
type Error struct {
	Op   string // Operation that failed
	Path string // Descriptor, archive or directory if applicable
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
