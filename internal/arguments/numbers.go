package arguments

import (
	"math"

	"argshell/internal/grammar"
	"argshell/pkg/argtypes"
)

// bounds reads the min and max options shared by the numeric variants.
// A max without a min is rejected.
func bounds(cfg *argtypes.ConfigMap) (lo, hi float64, hasLo, hasHi bool, err error) {
	if lo, hasLo, err = cfg.Number("min"); err != nil {
		return
	}
	if hi, hasHi, err = cfg.Number("max"); err != nil {
		return
	}
	if hasHi && !hasLo {
		err = argtypes.NewConfigurationError("max", argtypes.ErrUpperBoundOnly)
		return
	}
	if hasHi && hi < lo {
		err = argtypes.NewConfigurationError("max", argtypes.ErrBoundsInverted)
	}
	return
}

// FloatType is a decimal number with optional inclusive bounds.
type FloatType struct {
	baseType
	min, max *float64
}

// NewFloat returns the variant registered as "float".
func NewFloat() *FloatType {
	return &FloatType{baseType: newBase("float", grammar.Float().Examples(), true)}
}

// Min returns the lower bound, if any.
func (f *FloatType) Min() (float64, bool) { return deref(f.min) }

// Max returns the upper bound, if any.
func (f *FloatType) Max() (float64, bool) { return deref(f.max) }

// Parser returns a parser enforcing the configured bounds.
func (f *FloatType) Parser() argtypes.Parser {
	p := grammar.Float()
	if f.min != nil {
		p.Min = *f.min
	}
	if f.max != nil {
		p.Max = *f.max
	}
	return p
}

// Extract returns the parsed number.
func (f *FloatType) Extract(inv argtypes.Invocation, param string) (argtypes.Value, error) {
	v, err := result[float64](inv, param)
	if err != nil {
		return nil, err
	}
	return argtypes.FloatValue(v), nil
}

// Configure reads min and max on top of the shared options.
func (f *FloatType) Configure(cfg *argtypes.ConfigMap) error {
	if err := f.configure(cfg); err != nil {
		return err
	}
	lo, hi, hasLo, hasHi, err := bounds(cfg)
	if err != nil {
		return err
	}
	if hasLo {
		f.min = &lo
	}
	if hasHi {
		f.max = &hi
	}
	return nil
}

// Builder returns a factory for fresh float types.
func (f *FloatType) Builder() Factory {
	return func() ArgumentType { return NewFloat() }
}

// IntType is an integer with optional inclusive bounds.
type IntType struct {
	baseType
	min, max *int64
}

// NewInt returns the variant registered as "int".
func NewInt() *IntType {
	return &IntType{baseType: newBase("int", grammar.Int().Examples(), true)}
}

// Min returns the lower bound, if any.
func (n *IntType) Min() (int64, bool) { return deref(n.min) }

// Max returns the upper bound, if any.
func (n *IntType) Max() (int64, bool) { return deref(n.max) }

// Parser returns a parser enforcing the configured bounds.
func (n *IntType) Parser() argtypes.Parser {
	p := grammar.Int()
	if n.min != nil {
		p.Min = *n.min
	}
	if n.max != nil {
		p.Max = *n.max
	}
	return p
}

// Extract returns the parsed number.
func (n *IntType) Extract(inv argtypes.Invocation, param string) (argtypes.Value, error) {
	v, err := result[int64](inv, param)
	if err != nil {
		return nil, err
	}
	return argtypes.IntValue(v), nil
}

// Configure reads min and max on top of the shared options. Fractional
// bounds are truncated.
func (n *IntType) Configure(cfg *argtypes.ConfigMap) error {
	if err := n.configure(cfg); err != nil {
		return err
	}
	lo, hi, hasLo, hasHi, err := bounds(cfg)
	if err != nil {
		return err
	}
	if hasLo {
		v := toInt64(lo)
		n.min = &v
	}
	if hasHi {
		v := toInt64(hi)
		n.max = &v
	}
	return nil
}

// Builder returns a factory for fresh int types.
func (n *IntType) Builder() Factory {
	return func() ArgumentType { return NewInt() }
}

func toInt64(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
