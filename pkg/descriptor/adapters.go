// pkg/descriptor/adapters.go
package descriptor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/pyproject"
	"github.com/arc-language/pydesc/pkg/reqfile"
	"github.com/arc-language/pydesc/pkg/setuppy"
)

type setupPy struct {
	path   string
	reader *setuppy.Reader
}

func (d *setupPy) Kind() core.Kind { return core.KindSetupPy }
func (d *setupPy) Path() string    { return d.path }

func (d *setupPy) Metadata(ctx context.Context) (*core.Metadata, error) {
	return d.reader.Load(ctx, d.path)
}

func (d *setupPy) GetVersion(ctx context.Context) (string, error) {
	return d.reader.GetVersion(ctx, d.path)
}

func (d *setupPy) SetVersion(ctx context.Context, version string) error {
	return d.reader.SetVersion(ctx, d.path, version)
}

func (d *setupPy) GetCoordinates(ctx context.Context) (core.Coordinates, error) {
	return coordinates(ctx, d)
}

type pyProject struct {
	path   string
	reader *pyproject.Reader
}

func (d *pyProject) Kind() core.Kind { return core.KindPyProject }
func (d *pyProject) Path() string    { return d.path }

func (d *pyProject) Metadata(ctx context.Context) (*core.Metadata, error) {
	return d.reader.Load(ctx, d.path)
}

func (d *pyProject) GetVersion(ctx context.Context) (string, error) {
	return d.reader.GetVersion(ctx, d.path)
}

func (d *pyProject) SetVersion(ctx context.Context, version string) error {
	return d.reader.SetVersion(ctx, d.path, version)
}

func (d *pyProject) GetCoordinates(ctx context.Context) (core.Coordinates, error) {
	return coordinates(ctx, d)
}

// versionFile is a bare version.txt or VERSION without package metadata
type versionFile struct {
	path   string
	logger zerolog.Logger
}

func (d *versionFile) Kind() core.Kind { return core.KindVersionFile }
func (d *versionFile) Path() string    { return d.path }

func (d *versionFile) Metadata(ctx context.Context) (*core.Metadata, error) {
	version, err := d.GetVersion(ctx)
	if err != nil {
		return nil, err
	}
	return &core.Metadata{
		Version:       version,
		Kind:          core.KindVersionFile,
		Source:        d.path,
		VersionSource: d.path,
	}, nil
}

func (d *versionFile) GetVersion(ctx context.Context) (string, error) {
	version, err := reqfile.ReadVersion(d.path)
	if err != nil {
		return "", fmt.Errorf("failed to read file '%s': %w", d.path, err)
	}
	d.logger.Debug().Str("path", d.path).Str("version", version).Msg("read version file")
	return version, nil
}

func (d *versionFile) SetVersion(ctx context.Context, version string) error {
	return reqfile.WriteVersion(d.path, version)
}

func (d *versionFile) GetCoordinates(ctx context.Context) (core.Coordinates, error) {
	version, err := d.GetVersion(ctx)
	if err != nil {
		return core.Coordinates{}, err
	}
	return core.Coordinates{Version: version}, nil
}

func coordinates(ctx context.Context, d core.Descriptor) (core.Coordinates, error) {
	meta, err := d.Metadata(ctx)
	if err != nil {
		return core.Coordinates{}, err
	}
	return meta.Coordinates(), nil
}
