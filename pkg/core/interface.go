// pkg/core/interface.go
package core

import "context"

// Descriptor defines the common interface for all build descriptor formats
type Descriptor interface {
	// Kind returns the descriptor format
	Kind() Kind

	// Path returns the descriptor file path
	Path() string

	// Metadata reads the full package record
	Metadata(ctx context.Context) (*Metadata, error)

	// GetVersion reads only the version
	GetVersion(ctx context.Context) (string, error)

	// SetVersion writes a new version back to wherever the descriptor takes it from
	SetVersion(ctx context.Context, version string) error

	// GetCoordinates returns the artifact coordinates
	GetCoordinates(ctx context.Context) (Coordinates, error)
}
