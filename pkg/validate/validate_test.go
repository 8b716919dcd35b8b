package validate

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pydesc/pkg/core"
)

func complete() *core.Metadata {
	return &core.Metadata{
		Name:            "some-test",
		Version:         "1.0.3",
		Description:     "test",
		Author:          "Piper",
		AuthorEmail:     "piper@example.com",
		URL:             "https://github.com/example/some-test",
		Packages:        []string{"some_test"},
		InstallRequires: []string{"requests>=2.20", "", "# pinned", "pyyaml"},
	}
}

func TestMetadata(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		assert.NoError(t, Metadata(complete(), Options{Strict: true}))
	})

	t.Run("name and version only", func(t *testing.T) {
		meta := &core.Metadata{Name: "x", Version: "1"}
		assert.NoError(t, Metadata(meta, Options{}))

		err := Metadata(meta, Options{Strict: true})
		require.Error(t, err)
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 5)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("missing name and version", func(t *testing.T) {
		err := Metadata(&core.Metadata{}, Options{})
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		require.Len(t, merr.Errors, 2)
		assert.EqualError(t, merr.Errors[0], "missing required field: name")
		assert.EqualError(t, merr.Errors[1], "missing required field: version")
	})

	t.Run("collects every failure", func(t *testing.T) {
		meta := complete()
		meta.Version = "one.two"
		meta.AuthorEmail = "not an address"
		meta.InstallRequires = []string{"requests >= 2", "[broken"}

		err := Metadata(meta, Options{})
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 3)
		assert.ErrorIs(t, err, ErrInvalidVersion)
		assert.ErrorIs(t, err, ErrInvalidEmail)
		assert.ErrorIs(t, err, ErrInvalidRequirement)
	})
}

func TestVersion(t *testing.T) {
	valid := []string{"1", "1.0.3", "2.2.3-20200101", "1.0a1", "1.0.post2", "1.0.dev3", "1!2.0", "v1.2", "1.0+local.7", "2.0rc1"}
	for _, v := range valid {
		assert.True(t, Version(v), v)
	}

	invalid := []string{"", "one.two", "1..0", "1.0-beta-x", "latest", " 1.0 ", "1.0\n"}
	for _, v := range invalid {
		assert.False(t, Version(v), v)
	}
}
