// pkg/pyproject/poetry.go
package pyproject

import (
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"

	"github.com/arc-language/pydesc/pkg/core"
	"github.com/arc-language/pydesc/pkg/reqfile"
)

func fromPoetry(p *poetry) *core.Metadata {
	meta := &core.Metadata{
		Name:        p.Name,
		Version:     p.Version,
		Description: p.Description,
		License:     p.License,
		Keywords:    p.Keywords,
		Classifiers: p.Classifiers,
		URL:         p.Homepage,
	}
	if meta.URL == "" {
		meta.URL = p.Repository
	}
	if len(p.Authors) > 0 {
		if addr, err := mail.ParseAddress(p.Authors[0]); err == nil {
			meta.Author = addr.Name
			meta.AuthorEmail = addr.Address
		} else {
			meta.Author = p.Authors[0]
		}
	}

	optional := make(map[string]string)
	names := make([]string, 0, len(p.Dependencies))
	for name := range p.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := p.Dependencies[name]
		if strings.EqualFold(name, "python") {
			if s, ok := spec.(string); ok {
				meta.PythonRequires = poetryConstraint(s)
			}
			continue
		}
		req, isOptional := poetryRequirement(name, spec)
		if req == "" {
			continue
		}
		if isOptional {
			optional[reqfile.NormalizeName(name)] = req
			continue
		}
		meta.InstallRequires = append(meta.InstallRequires, req)
	}

	if len(p.Extras) > 0 {
		meta.ExtrasRequire = make(map[string][]string, len(p.Extras))
		for extra, deps := range p.Extras {
			reqs := []string{}
			for _, dep := range deps {
				if req, ok := optional[reqfile.NormalizeName(dep)]; ok {
					reqs = append(reqs, req)
				}
			}
			meta.ExtrasRequire[extra] = reqs
		}
	}

	return meta
}

// poetryRequirement renders one [tool.poetry.dependencies] entry as a PEP 508
// requirement. Path dependencies and multiple-constraint lists yield "".
func poetryRequirement(name string, spec any) (string, bool) {
	switch s := spec.(type) {
	case string:
		return name + poetryConstraint(s), false
	case map[string]any:
		var b strings.Builder
		b.WriteString(name)
		if extras, ok := s["extras"].([]any); ok && len(extras) > 0 {
			parts := make([]string, 0, len(extras))
			for _, e := range extras {
				parts = append(parts, fmt.Sprint(e))
			}
			b.WriteString("[" + strings.Join(parts, ",") + "]")
		}

		switch {
		case s["git"] != nil:
			b.WriteString(" @ git+" + fmt.Sprint(s["git"]))
			for _, ref := range []string{"rev", "tag", "branch"} {
				if v, ok := s[ref].(string); ok {
					b.WriteString("@" + v)
					break
				}
			}
		case s["url"] != nil:
			b.WriteString(" @ " + fmt.Sprint(s["url"]))
		case s["path"] != nil:
			return "", false
		default:
			if v, ok := s["version"].(string); ok {
				b.WriteString(poetryConstraint(v))
			}
		}

		if markers, ok := s["markers"].(string); ok && markers != "" {
			if strings.Contains(b.String(), " @ ") {
				b.WriteString(" ")
			}
			b.WriteString("; " + markers)
		}
		isOptional, _ := s["optional"].(bool)
		return b.String(), isOptional
	}
	return "", false
}

// poetryConstraint translates a Poetry version constraint to a PEP 440
// specifier: ^ and ~ become ranges, a bare version is pinned, * matches all.
// Alternatives joined with || cannot be expressed and match all.
func poetryConstraint(constraint string) string {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" || constraint == "*" || strings.Contains(constraint, "||") {
		return ""
	}

	var clauses []string
	for _, part := range strings.Split(constraint, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "" || part == "*":
		case strings.HasPrefix(part, "^"):
			clauses = append(clauses, versionRange(strings.TrimSpace(part[1:]), caretBump)...)
		case strings.HasPrefix(part, "~="):
			clauses = append(clauses, part)
		case strings.HasPrefix(part, "~"):
			clauses = append(clauses, versionRange(strings.TrimSpace(part[1:]), tildeBump)...)
		case strings.ContainsAny(part[:1], "<>=!"):
			clauses = append(clauses, strings.Join(strings.Fields(part), ""))
		default:
			clauses = append(clauses, "=="+part)
		}
	}
	return strings.Join(clauses, ",")
}

func caretBump(parts []int) int {
	for i, p := range parts {
		if p != 0 {
			return i
		}
	}
	return len(parts) - 1
}

func tildeBump(parts []int) int {
	if len(parts) >= 2 {
		return 1
	}
	return 0
}

// versionRange renders >=version,<upper where upper increments the release
// component chosen by bump and zeroes the ones after it
func versionRange(version string, bump func([]int) int) []string {
	fields := strings.Split(version, ".")
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return []string{">=" + version}
	}

	idx := bump(parts)
	upper := make([]string, len(parts))
	for i, p := range parts {
		switch {
		case i < idx:
			upper[i] = strconv.Itoa(p)
		case i == idx:
			upper[i] = strconv.Itoa(p + 1)
		default:
			upper[i] = "0"
		}
	}
	return []string{">=" + version, "<" + strings.Join(upper, ".")}
}
