// pkg/setuppy/types.go
package setuppy

import (
	"github.com/rs/zerolog"
)

// ValueKind classifies a keyword argument expression of the setup() call
type ValueKind int

const (
	ValueRaw    ValueKind = iota // anything not understood
	ValueString                  // 'abc', "abc", """abc""", implicit concatenation
	ValueList                    // [...] or (...)
	ValueDict                    // {...} with string keys
	ValueCall                    // name(...) or pkg.name(...)
	ValueName                    // bare identifier, e.g. VERSION
)

// String returns a short label for the kind
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueList:
		return "list"
	case ValueDict:
		return "dict"
	case ValueCall:
		return "call"
	case ValueName:
		return "name"
	default:
		return "raw"
	}
}

// Value is one parsed expression together with its byte span in the source
type Value struct {
	Kind  ValueKind
	Str   string           // ValueString: decoded text
	Items []Value          // ValueList
	Dict  map[string]Value // ValueDict
	Func  string           // ValueCall: dotted callee name
	Args  []Argument       // ValueCall
	Raw   string           // source text of the expression
	Quote string           // ValueString: opening delimiter of the first literal, prefix included
	Start int
	End   int
}

// Strings returns the string items of a list value
func (v Value) Strings() []string {
	if v.Kind != ValueList {
		return nil
	}
	out := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		if item.Kind == ValueString {
			out = append(out, item.Str)
		}
	}
	return out
}

// Argument is a keyword (Key set) or positional argument
type Argument struct {
	Key   string
	Value Value
}

// Helper is a module-level function that reads an auxiliary file
type Helper struct {
	Name string
	File string // file passed to open(), relative to setup.py; empty if not found
}

// Manifest is the parsed view of a setup.py
type Manifest struct {
	Args        []Argument
	Helpers     map[string]Helper
	Assignments map[string]Value // module-level NAME = <literal>
	CallStart   int
	CallEnd     int
}

// Get returns the keyword argument key
func (m *Manifest) Get(key string) (Value, bool) {
	return getArg(m.Args, key, -1)
}

// Resolve follows a bare name to its module-level assignment
func (m *Manifest) Resolve(v Value) Value {
	if v.Kind != ValueName {
		return v
	}
	if assigned, ok := m.Assignments[v.Raw]; ok {
		return assigned
	}
	return v
}

// Config configures reading of setup.py descriptors
type Config struct {
	Logger *zerolog.Logger
}

func getArg(args []Argument, key string, position int) (Value, bool) {
	pos := 0
	for _, arg := range args {
		if arg.Key == key {
			return arg.Value, true
		}
		if arg.Key == "" {
			if pos == position {
				return arg.Value, true
			}
			pos++
		}
	}
	return Value{}, false
}
