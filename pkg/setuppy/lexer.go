// pkg/setuppy/lexer.go
package setuppy

import (
	"bytes"
	"strings"
)

// stringStart reports whether a string literal starts at src[i]
func stringStart(src []byte, i int) (prefix int, delim string, ok bool) {
	if i > 0 && isIdentChar(src[i-1]) {
		return 0, "", false
	}
	j := i
	for j < len(src) && j-i < 2 && strings.IndexByte("rRuUbBfF", src[j]) >= 0 {
		j++
	}
	if j >= len(src) || (src[j] != '\'' && src[j] != '"') {
		return 0, "", false
	}
	q := src[j]
	if j+2 < len(src) && src[j+1] == q && src[j+2] == q {
		return j - i, strings.Repeat(string(q), 3), true
	}
	return j - i, string(q), true
}

// atomLen returns the length of the string literal or comment at src[i], or 1
func atomLen(src []byte, i int) int {
	if src[i] == '#' {
		if nl := bytes.IndexByte(src[i:], '\n'); nl >= 0 {
			return nl
		}
		return len(src) - i
	}

	prefix, delim, ok := stringStart(src, i)
	if !ok {
		return 1
	}

	term := []byte(delim)
	j := i + prefix + len(delim)
	for j < len(src) {
		switch {
		case src[j] == '\\':
			j += 2
			continue
		case bytes.HasPrefix(src[j:], term):
			return j + len(delim) - i
		case len(delim) == 1 && src[j] == '\n':
			// unterminated single-line literal
			return j - i
		}
		j++
	}
	return len(src) - i
}

// matchClose returns the index of the bracket closing the one at src[open]
func matchClose(src []byte, open int) int {
	depth := 0
	for i := open; i < len(src); {
		if n := atomLen(src, i); n > 1 || src[i] == '#' {
			i += n
			continue
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// splitTopLevel splits src[start:end] at sep outside brackets, strings and comments
func splitTopLevel(src []byte, start, end int, sep byte) [][2]int {
	var segs [][2]int
	depth := 0
	segStart := start
	for i := start; i < end; {
		if n := atomLen(src, i); n > 1 || src[i] == '#' {
			i += n
			continue
		}
		switch c := src[i]; {
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			segs = append(segs, [2]int{segStart, i})
			segStart = i + 1
		}
		i++
	}
	return append(segs, [2]int{segStart, end})
}

// trimSpan strips whitespace and comments from both ends of src[start:end]
func trimSpan(src []byte, start, end int) (int, int) {
	first, last := -1, start
	for i := start; i < end; {
		switch {
		case isSpace(src[i]):
			i++
		case src[i] == '#':
			i += atomLen(src, i)
		default:
			if first < 0 {
				first = i
			}
			i += atomLen(src, i)
			last = i
		}
	}
	if first < 0 {
		return end, end
	}
	if last > end {
		last = end
	}
	return first, last
}

// logicalLineEnd returns the end of the statement starting at src[start]
func logicalLineEnd(src []byte, start int) int {
	depth := 0
	for i := start; i < len(src); {
		if n := atomLen(src, i); n > 1 || src[i] == '#' {
			i += n
			continue
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '\n':
			if depth <= 0 && (i == 0 || src[i-1] != '\\') {
				return i
			}
		}
		i++
	}
	return len(src)
}

func skipSpace(src []byte, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

func skipSpaceAndComments(src []byte, i, end int) int {
	for i < end {
		switch {
		case isSpace(src[i]):
			i++
		case src[i] == '#':
			i += atomLen(src, i)
		default:
			return i
		}
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\\'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
