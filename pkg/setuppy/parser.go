// pkg/setuppy/parser.go
package setuppy

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

var (
	defRe        = regexp.MustCompile(`(?m)^def\s+([A-Za-z_]\w*)\s*\(`)
	assignRe     = regexp.MustCompile(`(?m)^([A-Za-z_]\w*)\s*=[^=]`)
	topLevelRe   = regexp.MustCompile(`(?m)^[^\s#]`)
	identPathRe  = regexp.MustCompile(`^[A-Za-z_]\w*(?:\s*\.\s*[A-Za-z_]\w*)*`)
	keywordArgRe = regexp.MustCompile(`^([A-Za-z_]\w*)\s*=($|[^=])`)
	auxFileRe    = regexp.MustCompile(`['"]([\w./-]*(?:version|VERSION|requirements)[\w./-]*)['"]`)
)

// Parse extracts the keyword arguments of the setup() call in src,
// together with helper functions and module-level literal assignments.
func Parse(src []byte) (*Manifest, error) {
	open := findSetupCall(src)
	if open < 0 {
		return nil, fmt.Errorf("no setup() call found")
	}

	// an unterminated call extends to the end of the file
	closeIdx := matchClose(src, open)
	if closeIdx < 0 {
		closeIdx = len(src)
	}

	m := &Manifest{
		Args:        parseArgs(src, open+1, closeIdx),
		Helpers:     parseHelpers(src),
		Assignments: parseAssignments(src),
		CallStart:   open,
		CallEnd:     min(closeIdx+1, len(src)),
	}

	return m, nil
}

// findSetupCall returns the index of the opening parenthesis of setup(
func findSetupCall(src []byte) int {
	for i := 0; i < len(src); {
		if n := atomLen(src, i); n > 1 {
			i += n
			continue
		}
		if !isIdentStart(src[i]) || (i > 0 && (isIdentChar(src[i-1]) || src[i-1] == '.')) {
			i++
			continue
		}

		ident := identPathRe.Find(src[i:])
		end := i + len(ident)
		next := skipSpace(src, end)
		if next < len(src) && src[next] == '(' && lastSegment(string(ident)) == "setup" && !precededByDef(src, i) {
			return next
		}
		i = end
	}
	return -1
}

func lastSegment(ident string) string {
	if idx := strings.LastIndex(ident, "."); idx >= 0 {
		return strings.TrimSpace(ident[idx+1:])
	}
	return ident
}

func precededByDef(src []byte, i int) bool {
	lineStart := bytes.LastIndexByte(src[:i], '\n') + 1
	before := bytes.TrimSpace(src[lineStart:i])
	return string(before) == "def" || bytes.HasSuffix(before, []byte(" def"))
}

// parseArgs parses a comma separated argument list in src[start:end]
func parseArgs(src []byte, start, end int) []Argument {
	var args []Argument
	for _, seg := range splitTopLevel(src, start, end, ',') {
		s, e := trimSpan(src, seg[0], seg[1])
		if s >= e {
			continue
		}

		arg := Argument{}
		if loc := keywordArgRe.FindSubmatchIndex(src[s:e]); loc != nil {
			arg.Key = string(src[s+loc[2] : s+loc[3]])
			eq := s + loc[3]
			for src[eq] != '=' {
				eq++
			}
			s = eq + 1
		}
		arg.Value = parseValue(src, s, e)
		args = append(args, arg)
	}
	return args
}

// parseValue classifies the expression in src[start:end]
func parseValue(src []byte, start, end int) Value {
	s, e := trimSpan(src, start, end)
	v := Value{Kind: ValueRaw, Start: s, End: e}
	if s >= e {
		return v
	}
	v.Raw = string(src[s:e])

	if str, quote, ok := parseStrings(src, s, e); ok {
		v.Kind = ValueString
		v.Str = str
		v.Quote = quote
		return v
	}

	switch src[s] {
	case '(':
		if matchClose(src, s) == e-1 {
			segs := splitTopLevel(src, s+1, e-1, ',')
			if len(segs) == 1 {
				if is, ie := trimSpan(src, s+1, e-1); is >= ie {
					v.Kind = ValueList
					return v
				}
				// grouping parentheses
				inner := parseValue(src, s+1, e-1)
				if inner.Kind != ValueRaw {
					return inner
				}
				return v
			}
			v.Kind = ValueList
			v.Items = parseItems(src, segs)
			return v
		}
	case '[':
		if matchClose(src, s) == e-1 {
			v.Kind = ValueList
			v.Items = parseItems(src, splitTopLevel(src, s+1, e-1, ','))
			return v
		}
	case '{':
		if matchClose(src, s) == e-1 {
			if dict, ok := parseDict(src, s+1, e-1); ok {
				v.Kind = ValueDict
				v.Dict = dict
			}
			return v
		}
	}

	if ident := identPathRe.Find(src[s:e]); ident != nil {
		identEnd := s + len(ident)
		if identEnd == e {
			v.Kind = ValueName
			return v
		}
		open := skipSpace(src, identEnd)
		if open < e && src[open] == '(' && matchClose(src, open) == e-1 {
			v.Kind = ValueCall
			v.Func = strings.Join(strings.Fields(strings.ReplaceAll(string(ident), ".", " . ")), "")
			v.Args = parseArgs(src, open+1, e-1)
			return v
		}
	}

	return v
}

func parseItems(src []byte, segs [][2]int) []Value {
	items := make([]Value, 0, len(segs))
	for _, seg := range segs {
		s, e := trimSpan(src, seg[0], seg[1])
		if s >= e {
			continue
		}
		items = append(items, parseValue(src, s, e))
	}
	return items
}

func parseDict(src []byte, start, end int) (map[string]Value, bool) {
	dict := make(map[string]Value)
	for _, seg := range splitTopLevel(src, start, end, ',') {
		s, e := trimSpan(src, seg[0], seg[1])
		if s >= e {
			continue
		}
		parts := splitTopLevel(src, s, e, ':')
		if len(parts) != 2 {
			return nil, false
		}
		key := parseValue(src, parts[0][0], parts[0][1])
		if key.Kind != ValueString {
			return nil, false
		}
		dict[key.Str] = parseValue(src, parts[1][0], parts[1][1])
	}
	return dict, true
}

// parseStrings accepts one or more adjacent string literals spanning src[start:end]
func parseStrings(src []byte, start, end int) (string, string, bool) {
	var b strings.Builder
	quote := ""
	i := start
	for i < end {
		prefix, delim, ok := stringStart(src, i)
		if !ok {
			return "", "", false
		}
		n := atomLen(src, i)
		lit := string(src[i : i+n])
		if i+n > end || len(lit) < prefix+2*len(delim) || !strings.HasSuffix(lit, delim) {
			return "", "", false
		}
		if quote == "" {
			quote = string(src[i : i+prefix+len(delim)])
		}
		b.WriteString(decodeLiteral(lit, prefix, delim))
		i += n
		i = skipSpaceAndComments(src, i, end)
	}
	return b.String(), quote, quote != ""
}

// decodeLiteral turns a Python string literal into its value
func decodeLiteral(lit string, prefix int, delim string) string {
	pfx := strings.ToLower(lit[:prefix])
	body := lit[prefix+len(delim) : len(lit)-len(delim)]
	if strings.Contains(pfx, "r") {
		return body
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '\'', '"':
			b.WriteByte(body[i])
		case '\n':
			// line continuation
		default:
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

// encodeLiteral renders s as a literal using the opening delimiter quote
func encodeLiteral(s, quote string) string {
	delim := strings.TrimLeft(quote, "rRuUbBfF")
	if delim == "" {
		delim = "'"
	}
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, delim[:1], `\`+delim[:1])
	return delim + escaped + delim
}

// parseHelpers finds module-level functions and the file each one opens
func parseHelpers(src []byte) map[string]Helper {
	helpers := make(map[string]Helper)
	for _, loc := range defRe.FindAllSubmatchIndex(src, -1) {
		name := string(src[loc[2]:loc[3]])
		bodyStart := loc[1]
		bodyEnd := len(src)
		if nl := bytes.IndexByte(src[bodyStart:], '\n'); nl >= 0 {
			rest := src[bodyStart+nl+1:]
			if next := topLevelRe.FindIndex(rest); next != nil {
				bodyEnd = bodyStart + nl + 1 + next[0]
			}
		}
		helpers[name] = Helper{Name: name, File: openedFile(src, bodyStart, bodyEnd)}
	}
	return helpers
}

// openedFile returns the file name handed to open() within src[start:end]
func openedFile(src []byte, start, end int) string {
	body := src[start:end]
	idx := bytes.Index(body, []byte("open("))
	if idx < 0 {
		if m := auxFileRe.FindSubmatch(body); m != nil {
			return string(m[1])
		}
		return ""
	}

	open := start + idx + len("open")
	closeIdx := matchClose(src, open)
	if closeIdx < 0 || closeIdx > end {
		return ""
	}

	call := parseValue(src, open-len("open"), closeIdx+1)
	if call.Kind != ValueCall || len(call.Args) == 0 {
		return ""
	}

	first := call.Args[0].Value
	switch first.Kind {
	case ValueString:
		return first.Str
	case ValueCall:
		if strings.HasSuffix(first.Func, "join") {
			var parts []string
			for _, arg := range first.Args {
				if arg.Value.Kind == ValueString {
					parts = append(parts, arg.Value.Str)
				}
			}
			return strings.Join(parts, "/")
		}
	}
	return ""
}

// parseAssignments records module-level NAME = <literal> statements
func parseAssignments(src []byte) map[string]Value {
	assignments := make(map[string]Value)
	for _, loc := range assignRe.FindAllSubmatchIndex(src, -1) {
		name := string(src[loc[2]:loc[3]])
		start := loc[1] - 1
		end := logicalLineEnd(src, start)
		v := parseValue(src, start, end)
		if v.Kind == ValueString || v.Kind == ValueList || v.Kind == ValueCall {
			assignments[name] = v
		}
	}
	return assignments
}
