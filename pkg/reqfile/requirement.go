package reqfile

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	nameRe      = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)`)
	clauseRe    = regexp.MustCompile(`^(~=|===|==|!=|<=|>=|<|>)\s*[A-Za-z0-9.*+!_-]+$`)
	separatorRe = regexp.MustCompile(`[-_.]+`)
	commentRe   = regexp.MustCompile(`(^|\s+)#.*$`)
	// per-requirement options such as --hash=sha256:... or --config-settings
	lineOptionRe = regexp.MustCompile(`\s--?[A-Za-z][\w-]*(=|\s|$)`)
	schemeRe     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://|^file:`)
	eggRe        = regexp.MustCompile(`#egg=([A-Za-z0-9][A-Za-z0-9._-]*)`)
	archiveRe    = regexp.MustCompile(`\.(whl|zip|tar|tar\.gz|tgz|tar\.bz2|tar\.xz)$`)
)

// Requirement is a single dependency specifier (PEP 508 subset)
type Requirement struct {
	Name      string   `yaml:"name" json:"name"`
	Extras    []string `yaml:"extras,omitempty" json:"extras,omitempty"`
	Specifier string   `yaml:"specifier,omitempty" json:"specifier,omitempty"`
	Marker    string   `yaml:"marker,omitempty" json:"marker,omitempty"`
	URL       string   `yaml:"url,omitempty" json:"url,omitempty"`
	Raw       string   `yaml:"raw" json:"raw"`
}

// String renders the requirement in canonical order
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	if r.URL != "" {
		b.WriteString(" @ " + r.URL)
	} else {
		b.WriteString(r.Specifier)
	}
	if r.Marker != "" {
		b.WriteString("; " + r.Marker)
	}
	return b.String()
}

// Set is the parsed content of a requirements file
type Set struct {
	Requirements []Requirement
	Includes     []string // -r / --requirement targets
	Constraints  []string // -c / --constraint targets
	Locations    []string // unnamed paths, URLs and -e targets
}

// NormalizeName applies PEP 503 name normalization
func NormalizeName(name string) string {
	return strings.ToLower(separatorRe.ReplaceAllString(name, "-"))
}

// ParseRequirement parses one requirement specifier
func ParseRequirement(line string) (*Requirement, error) {
	raw := strings.TrimSpace(line)
	if raw == "" {
		return nil, fmt.Errorf("empty requirement")
	}

	req := &Requirement{Raw: raw}
	rest := raw

	name := nameRe.FindString(rest)
	if name == "" {
		return nil, fmt.Errorf("invalid requirement %q: missing project name", raw)
	}
	req.Name = name
	rest = strings.TrimSpace(rest[len(name):])

	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return nil, fmt.Errorf("invalid requirement %q: unterminated extras", raw)
		}
		for _, extra := range strings.Split(rest[1:end], ",") {
			if extra = strings.TrimSpace(extra); extra != "" {
				req.Extras = append(req.Extras, extra)
			}
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	if strings.HasPrefix(rest, "@") {
		url := strings.TrimSpace(rest[1:])
		// a marker after a URL needs whitespace before the semicolon
		if idx := strings.Index(url, " ;"); idx >= 0 {
			req.Marker = strings.TrimSpace(url[idx+2:])
			url = strings.TrimSpace(url[:idx])
		}
		if url == "" {
			return nil, fmt.Errorf("invalid requirement %q: empty URL", raw)
		}
		req.URL = url
		return req, nil
	}

	if idx := strings.Index(rest, ";"); idx >= 0 {
		req.Marker = strings.TrimSpace(rest[idx+1:])
		rest = strings.TrimSpace(rest[:idx])
		if req.Marker == "" {
			return nil, fmt.Errorf("invalid requirement %q: empty marker", raw)
		}
	}

	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
		rest = strings.TrimSpace(rest[1 : len(rest)-1])
	}

	if rest != "" {
		clauses := strings.Split(rest, ",")
		normalized := make([]string, 0, len(clauses))
		for _, clause := range clauses {
			clause = strings.TrimSpace(clause)
			if !clauseRe.MatchString(clause) {
				return nil, fmt.Errorf("invalid requirement %q: bad version clause %q", raw, clause)
			}
			normalized = append(normalized, strings.Join(strings.Fields(clause), ""))
		}
		req.Specifier = strings.Join(normalized, ",")
	}

	return req, nil
}

// ParseRequirements parses the lines of a requirements file.
// Comments, blank lines and pip options are skipped, including per-requirement
// options like --hash; backslash continuations are joined. Paths and URLs
// without an #egg= name are collected in Locations.
func ParseRequirements(lines []string) (*Set, error) {
	set := &Set{}

	for _, line := range joinContinuations(lines) {
		line = strings.TrimSpace(commentRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "-") {
			opt, arg := splitOption(line)
			switch opt {
			case "-r", "--requirement":
				set.Includes = append(set.Includes, arg)
			case "-c", "--constraint":
				set.Constraints = append(set.Constraints, arg)
			case "-e", "--editable":
				set.Locations = append(set.Locations, arg)
			}
			continue
		}

		if loc := lineOptionRe.FindStringIndex(line); loc != nil {
			line = strings.TrimSpace(line[:loc[0]])
		}

		if isLocation(line) {
			if m := eggRe.FindStringSubmatch(line); m != nil {
				set.Requirements = append(set.Requirements, Requirement{
					Name: m[1],
					URL:  strings.TrimSuffix(line, m[0]),
					Raw:  line,
				})
				continue
			}
			set.Locations = append(set.Locations, line)
			continue
		}

		req, err := ParseRequirement(line)
		if err != nil {
			return nil, err
		}
		set.Requirements = append(set.Requirements, *req)
	}

	return set, nil
}

// isLocation reports a bare path or URL standing in for a requirement
func isLocation(line string) bool {
	if schemeRe.MatchString(line) {
		return true
	}
	switch line[0] {
	case '.', '/', '~', '\\':
		return true
	}
	if len(line) > 2 && line[1] == ':' && (line[2] == '\\' || line[2] == '/') {
		return true
	}
	return !strings.ContainsAny(line, " @;") && archiveRe.MatchString(line)
}

// ReadRequirements reads path and every file it includes, relative to the including file
func ReadRequirements(path string) ([]Requirement, error) {
	return readRequirements(path, make(map[string]bool))
}

func readRequirements(path string, visited map[string]bool) ([]Requirement, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if visited[abs] {
		return nil, nil
	}
	visited[abs] = true

	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}

	set, err := ParseRequirements(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	reqs := set.Requirements
	for _, include := range set.Includes {
		if !filepath.IsAbs(include) {
			include = filepath.Join(filepath.Dir(path), include)
		}
		nested, err := readRequirements(include, visited)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, nested...)
	}

	return reqs, nil
}

func joinContinuations(lines []string) []string {
	var out []string
	var pending strings.Builder

	for _, line := range lines {
		if strings.HasSuffix(line, `\`) {
			pending.WriteString(strings.TrimSuffix(line, `\`))
			continue
		}
		if pending.Len() > 0 {
			pending.WriteString(line)
			line = pending.String()
			pending.Reset()
		}
		out = append(out, line)
	}
	if pending.Len() > 0 {
		out = append(out, pending.String())
	}

	return out
}

func splitOption(line string) (string, string) {
	if idx := strings.Index(line, "="); idx > 0 && !strings.ContainsAny(line[:idx], " \t") {
		return line[:idx], strings.TrimSpace(line[idx+1:])
	}
	fields := strings.Fields(line)
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
}
