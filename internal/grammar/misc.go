package grammar

import (
	"math"
	"strings"

	"argshell/pkg/argtypes"
)

// SwizzleParser parses a set of distinct axes such as "xz".
type SwizzleParser struct{}

// Parse reads the axes. The result is a string holding the axes in x, y, z order.
func (SwizzleParser) Parse(r *argtypes.Reader) (any, error) {
	start := r.Cursor()
	seen := map[byte]bool{}
	for !r.AtArgumentEnd() {
		c := r.Read()
		if (c != 'x' && c != 'y' && c != 'z') || seen[c] {
			r.SetCursor(start)
			return nil, r.Fail(argtypes.ErrSyntax, "invalid swizzle, expected combination of 'x', 'y' and 'z'")
		}
		seen[c] = true
	}
	if len(seen) == 0 {
		return nil, r.Fail(argtypes.ErrSyntax, "invalid swizzle, expected combination of 'x', 'y' and 'z'")
	}
	var sb strings.Builder
	for _, axis := range []byte{'x', 'y', 'z'} {
		if seen[axis] {
			sb.WriteByte(axis)
		}
	}
	return sb.String(), nil
}

// Examples returns the sample inputs for the parser.
func (SwizzleParser) Examples() []string { return []string{"xyz", "x"} }

var timeUnits = map[string]float64{"": 1, "t": 1, "s": 20, "d": 24000}

// TimeParser parses a duration with an optional d, s or t unit.
type TimeParser struct{}

// Parse reads the duration. The result is an int64 tick count.
func (TimeParser) Parse(r *argtypes.Reader) (any, error) {
	start := r.Cursor()
	f, err := r.ReadFloat()
	if err != nil {
		return nil, err
	}
	unit := r.ReadUnquotedString()
	scale, ok := timeUnits[unit]
	if !ok {
		r.SetCursor(start)
		return nil, r.Fail(argtypes.ErrSyntax, "invalid unit '%s'", unit)
	}
	ticks := int64(math.Round(f * scale))
	if ticks < 0 {
		r.SetCursor(start)
		return nil, r.Fail(argtypes.ErrOutOfRange, "tick count must be non-negative")
	}
	return ticks, nil
}

// Examples returns the sample inputs for the parser.
func (TimeParser) Examples() []string { return []string{"0d", "0s", "0t", "0"} }

// Color is a named text color.
type Color struct {
	Name string
	RGB  int
}

// Colors lists the named text colors in their canonical order.
var Colors = []Color{
	{"black", 0x000000},
	{"dark_blue", 0x0000AA},
	{"dark_green", 0x00AA00},
	{"dark_aqua", 0x00AAAA},
	{"dark_red", 0xAA0000},
	{"dark_purple", 0xAA00AA},
	{"gold", 0xFFAA00},
	{"gray", 0xAAAAAA},
	{"dark_gray", 0x555555},
	{"blue", 0x5555FF},
	{"green", 0x55FF55},
	{"aqua", 0x55FFFF},
	{"red", 0xFF5555},
	{"light_purple", 0xFF55FF},
	{"yellow", 0xFFFF55},
	{"white", 0xFFFFFF},
}

// ColorParser parses a color name.
type ColorParser struct{}

// Parse reads the name. The result is a Color.
func (ColorParser) Parse(r *argtypes.Reader) (any, error) {
	start := r.Cursor()
	name := strings.ToLower(r.ReadUnquotedString())
	for _, c := range Colors {
		if c.Name == name {
			return c, nil
		}
	}
	r.SetCursor(start)
	return nil, r.Fail(argtypes.ErrSyntax, "unknown color '%s'", name)
}

// Examples returns the sample inputs for the parser.
func (ColorParser) Examples() []string { return []string{"red", "green"} }

// DimensionParser parses a dimension identifier.
type DimensionParser struct{}

// Parse reads the identifier. The result is a namespaced string.
func (DimensionParser) Parse(r *argtypes.Reader) (any, error) {
	id := readResourceID(r)
	if id == "" {
		return nil, r.Fail(argtypes.ErrSyntax, "expected dimension identifier")
	}
	if strings.Count(id, ":") > 1 {
		return nil, r.Fail(argtypes.ErrSyntax, "invalid identifier '%s'", id)
	}
	return normalizeID(id), nil
}

// Examples returns the sample inputs for the parser.
func (DimensionParser) Examples() []string {
	return []string{"world", "minecraft:overworld", "the_nether"}
}

// NormalizeDimension adds the default namespace to a bare dimension name.
func NormalizeDimension(id string) string { return normalizeID(id) }

// DimensionName strips the default namespace from a dimension identifier.
func DimensionName(id string) string {
	return strings.TrimPrefix(id, "minecraft:")
}

// BlockState is a parsed block identifier with optional properties and tag data.
type BlockState struct {
	ID         string
	Properties [][2]string
	NBT        string
}

func (b BlockState) String() string {
	var sb strings.Builder
	sb.WriteString(b.ID)
	if len(b.Properties) > 0 {
		sb.WriteByte('[')
		for i, p := range b.Properties {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(p[0] + "=" + p[1])
		}
		sb.WriteByte(']')
	}
	sb.WriteString(b.NBT)
	return sb.String()
}

// BlockStateParser parses a block state such as stone[facing=north]{data}.
type BlockStateParser struct{}

// Parse reads the block state. The result is a BlockState.
func (BlockStateParser) Parse(r *argtypes.Reader) (any, error) {
	id := readResourceID(r)
	if id == "" {
		return nil, r.Fail(argtypes.ErrSyntax, "expected block identifier")
	}
	state := BlockState{ID: normalizeID(id)}

	if r.CanRead() && r.Peek() == '[' {
		r.Skip()
		for {
			r.SkipWhitespace()
			if r.CanRead() && r.Peek() == ']' {
				r.Skip()
				break
			}
			key := r.ReadUnquotedString()
			if key == "" {
				return nil, r.Fail(argtypes.ErrSyntax, "expected block property")
			}
			r.SkipWhitespace()
			if err := r.Expect('='); err != nil {
				return nil, err
			}
			r.SkipWhitespace()
			value := r.ReadUnquotedString()
			if value == "" {
				return nil, r.Fail(argtypes.ErrSyntax, "expected value for property '%s'", key)
			}
			state.Properties = append(state.Properties, [2]string{key, value})
			r.SkipWhitespace()
			if r.CanRead() && r.Peek() == ',' {
				r.Skip()
				continue
			}
			if err := r.Expect(']'); err != nil {
				return nil, err
			}
			break
		}
	}

	if r.CanRead() && r.Peek() == '{' {
		nbt, err := readBraced(r)
		if err != nil {
			return nil, err
		}
		state.NBT = nbt
	}
	return state, nil
}

// Examples returns the sample inputs for the parser.
func (BlockStateParser) Examples() []string {
	return []string{"stone", "minecraft:stone", "stone[foo=bar]", "foo{bar=baz}"}
}

// readBraced consumes a balanced {...} block, respecting quoted strings.
func readBraced(r *argtypes.Reader) (string, error) {
	start := r.Cursor()
	depth := 0
	var quote byte
	for r.CanRead() {
		c := r.Read()
		switch {
		case quote != 0:
			if c == '\\' && r.CanRead() {
				r.Skip()
			} else if c == quote {
				quote = 0
			}
		case argtypes.IsQuote(c):
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return r.Consumed(start), nil
			}
		}
	}
	r.SetCursor(start)
	return "", r.Fail(argtypes.ErrSyntax, "unterminated compound tag")
}
