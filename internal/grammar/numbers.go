package grammar

import (
	"math"
	"strconv"

	"argshell/pkg/argtypes"
)

// FloatParser parses a decimal number within an inclusive range.
type FloatParser struct {
	Min, Max float64
}

// Float returns an unbounded FloatParser.
func Float() FloatParser {
	return FloatParser{Min: -math.MaxFloat64, Max: math.MaxFloat64}
}

// FloatRange returns a FloatParser bounded to [lo, hi].
func FloatRange(lo, hi float64) FloatParser {
	return FloatParser{Min: lo, Max: hi}
}

// Parse reads the number. The result is a float64.
func (p FloatParser) Parse(r *argtypes.Reader) (any, error) {
	start := r.Cursor()
	f, err := r.ReadFloat()
	if err != nil {
		return nil, err
	}
	if f < p.Min {
		r.SetCursor(start)
		return nil, r.Fail(argtypes.ErrOutOfRange, "float must not be less than %s, found %s", fmtFloat(p.Min), fmtFloat(f))
	}
	if f > p.Max {
		r.SetCursor(start)
		return nil, r.Fail(argtypes.ErrOutOfRange, "float must not be more than %s, found %s", fmtFloat(p.Max), fmtFloat(f))
	}
	return f, nil
}

// Examples returns the sample inputs for the parser.
func (FloatParser) Examples() []string {
	return []string{"0", "1.2", ".5", "-1", "-.5", "-1234.56"}
}

// IntParser parses an integer within an inclusive range.
type IntParser struct {
	Min, Max int64
}

// Int returns an unbounded IntParser.
func Int() IntParser {
	return IntParser{Min: math.MinInt64, Max: math.MaxInt64}
}

// IntRange returns an IntParser bounded to [lo, hi].
func IntRange(lo, hi int64) IntParser {
	return IntParser{Min: lo, Max: hi}
}

// Parse reads the number. The result is an int64.
func (p IntParser) Parse(r *argtypes.Reader) (any, error) {
	start := r.Cursor()
	n, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	if n < p.Min {
		r.SetCursor(start)
		return nil, r.Fail(argtypes.ErrOutOfRange, "integer must not be less than %d, found %d", p.Min, n)
	}
	if n > p.Max {
		r.SetCursor(start)
		return nil, r.Fail(argtypes.ErrOutOfRange, "integer must not be more than %d, found %d", p.Max, n)
	}
	return n, nil
}

// Examples returns the sample inputs for the parser.
func (IntParser) Examples() []string {
	return []string{"0", "123", "-123"}
}

// BoolParser parses true or false.
type BoolParser struct{}

// Bool returns a BoolParser.
func Bool() BoolParser { return BoolParser{} }

// Parse reads the literal. The result is a bool.
func (BoolParser) Parse(r *argtypes.Reader) (any, error) {
	return r.ReadBool()
}

// Examples returns the sample inputs for the parser.
func (BoolParser) Examples() []string { return []string{"true", "false"} }

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
