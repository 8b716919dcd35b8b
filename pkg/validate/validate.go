// Package validate checks package metadata for completeness and well-formed values.
package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"

	"github.com/hashicorp/go-multierror"

	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/reqfile"
)

var (
	// ErrMissingField is returned for a required field left empty
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidVersion is returned for a version that is not PEP 440
	ErrInvalidVersion = errors.New("invalid version")
	// ErrInvalidEmail is returned for an unparsable author_email
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidRequirement is returned for an install_requires entry that does not parse
	ErrInvalidRequirement = errors.New("invalid requirement")
)

// pep440Re is the canonical public version pattern from PEP 440 appendix B,
// without the surrounding whitespace the appendix tolerates
var pep440Re = regexp.MustCompile(`(?i)^v?(?:(?:[0-9]+!)?[0-9]+(?:\.[0-9]+)*` +
	`(?:[-_.]?(?:alpha|a|beta|b|preview|pre|c|rc)[-_.]?[0-9]*)?` +
	`(?:-[0-9]+|[-_.]?(?:post|rev|r)[-_.]?[0-9]*)?` +
	`(?:[-_.]?dev[-_.]?[0-9]*)?)` +
	`(?:\+[a-z0-9]+(?:[-_.][a-z0-9]+)*)?$`)

// Options controls which checks run
type Options struct {
	// Strict additionally requires description, author, author_email, url and packages
	Strict bool
}

// Metadata checks meta and returns every failure found, or nil
func Metadata(meta *core.Metadata, opts Options) error {
	var result *multierror.Error

	required := map[string]bool{
		"name":    meta.Name != "",
		"version": meta.Version != "",
	}
	order := []string{"name", "version"}
	if opts.Strict {
		required["description"] = meta.Description != ""
		required["author"] = meta.Author != ""
		required["author_email"] = meta.AuthorEmail != ""
		required["url"] = meta.URL != ""
		required["packages"] = len(meta.Packages) > 0
		order = append(order, "description", "author", "author_email", "url", "packages")
	}
	for _, field := range order {
		if !required[field] {
			result = multierror.Append(result, fmt.Errorf("%w: %s", ErrMissingField, field))
		}
	}

	if meta.Version != "" && !Version(meta.Version) {
		result = multierror.Append(result, fmt.Errorf("%w: %q is not PEP 440", ErrInvalidVersion, meta.Version))
	}

	if meta.AuthorEmail != "" {
		if _, err := mail.ParseAddress(meta.AuthorEmail); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: %q: %v", ErrInvalidEmail, meta.AuthorEmail, err))
		}
	}

	for i, line := range meta.InstallRequires {
		if _, err := reqfile.ParseRequirements([]string{line}); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: install_requires[%d]: %v", ErrInvalidRequirement, i, err))
		}
	}

	return result.ErrorOrNil()
}

// Version reports whether v is a valid PEP 440 version
func Version(v string) bool {
	return pep440Re.MatchString(v)
}
