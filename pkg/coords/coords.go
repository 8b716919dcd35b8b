// Package coords renders project names and versions from artifact
// coordinates using go templates with the sprig function set.
package coords

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/rs/zerolog"

	"github.com/arc-language/pydesc/pkg/core"
)

// Version schemes
const (
	SchemeFull       = "full"
	SchemeMajor      = "major"
	SchemeMajorMinor = "major-minor"
	SchemeSemantic   = "semantic"
)

// Version templates per scheme; pre-release and local parts are cut at the first "-"
const (
	TemplateFullVersion       = "{{.Version}}"
	TemplateMajorVersion      = `{{(split "." (split "-" .Version)._0)._0}}`
	TemplateMajorMinorVersion = `{{(split "." (split "-" .Version)._0)._0}}.{{(split "." (split "-" .Version)._0)._1}}`
	TemplateSemanticVersion   = `{{(split "-" .Version)._0}}`
)

// Schemes lists the known version schemes
var Schemes = []string{SchemeFull, SchemeMajor, SchemeMajorMinor, SchemeSemantic}

var schemeTemplates = map[string]string{
	SchemeFull:       TemplateFullVersion,
	SchemeMajor:      TemplateMajorVersion,
	SchemeMajorMinor: TemplateMajorMinorVersion,
	SchemeSemantic:   TemplateSemanticVersion,
}

// Determine renders the project name from nameTemplate and the project
// version from scheme. An unknown scheme renders the version itself as a
// template. Rendering failures are logged and yield an empty value.
func Determine(nameTemplate, scheme string, c core.Coordinates, logger zerolog.Logger) (string, string) {
	name, err := Execute(nameTemplate, c)
	if err != nil {
		logger.Warn().Err(err).Msg("unable to resolve project name")
	}

	versionTemplate, ok := schemeTemplates[scheme]
	if !ok {
		versionTemplate = c.GetVersion()
	}

	version, err := Execute(versionTemplate, c)
	if err != nil {
		logger.Warn().Err(err).Str("scheme", scheme).Msg("unable to resolve project version")
	}
	return name, version
}

// Execute renders text with the hermetic sprig functions against data
func Execute(text string, data any) (string, error) {
	tmpl, err := template.New("coords").Funcs(sprig.HermeticTxtFuncMap()).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", text, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %q: %w", text, err)
	}
	return buf.String(), nil
}

// ValidScheme reports whether scheme is one of Schemes
func ValidScheme(scheme string) bool {
	_, ok := schemeTemplates[scheme]
	return ok
}
