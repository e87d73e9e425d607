package arguments

import (
	"strings"

	"argshell/pkg/argtypes"
)

// CustomTypes is an application's table of configured argument types.
type CustomTypes interface {
	CustomType(suffix string) (ArgumentType, bool)
}

// Origin tells where a resolved type came from.
type Origin int

const (
	// FromCustom means the application's custom table
	FromCustom Origin = iota
	// FromBuiltin means the built-in catalog
	FromBuiltin
	// FromDefault means no table knew the suffix
	FromDefault
)

func (o Origin) String() string {
	switch o {
	case FromCustom:
		return "custom"
	case FromBuiltin:
		return "builtin"
	default:
		return "default"
	}
}

// SuffixOf returns the dispatch suffix of a parameter name: its last
// underscore-separated segment, lower-cased. Trailing underscores are
// ignored, so "count__" dispatches on "count".
func SuffixOf(param string) string {
	trimmed := strings.TrimRight(param, "_")
	if i := strings.LastIndexByte(trimmed, '_'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return strings.ToLower(trimmed)
}

// Resolve maps a parameter name to its argument type. It never fails:
// unknown suffixes resolve to the catalog's default type.
func (c *Catalog) Resolve(param string, custom CustomTypes) ArgumentType {
	t, _ := c.ResolveOrigin(param, custom)
	return t
}

// ResolveOrigin is Resolve, also reporting which table answered.
func (c *Catalog) ResolveOrigin(param string, custom CustomTypes) (ArgumentType, Origin) {
	suffix := SuffixOf(param)
	if custom != nil {
		if t, ok := custom.CustomType(suffix); ok {
			return t, FromCustom
		}
	}
	if t, ok := c.Lookup(suffix); ok {
		return t, FromBuiltin
	}
	return c.Default(), FromDefault
}

// ResolveStrict is Resolve without the fallback: unknown suffixes are a
// ConfigurationError wrapping ErrUnknownType.
func (c *Catalog) ResolveStrict(param string, custom CustomTypes) (ArgumentType, error) {
	t, origin := c.ResolveOrigin(param, custom)
	if origin == FromDefault {
		return nil, &argtypes.ConfigurationError{Suffix: SuffixOf(param), Err: argtypes.ErrUnknownType}
	}
	return t, nil
}
