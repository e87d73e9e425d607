package argtypes

import (
	"strconv"
	"strings"
)

// ValueKind identifies the shape of an extracted Value.
type ValueKind int

const (
	// KindNull is the absence of a value (e.g. an empty single-entity selection)
	KindNull ValueKind = iota
	// KindBool is a boolean
	KindBool
	// KindNumber is an integer or floating point number
	KindNumber
	// KindString is a string
	KindString
	// KindList is an ordered list of values
	KindList
	// KindVector is a positional coordinate tuple
	KindVector
	// KindEntity is a reference to a host entity
	KindEntity
)

// String returns the lower-case name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindVector:
		return "vector"
	case KindEntity:
		return "entity"
	default:
		return "unknown"
	}
}

// Value is a typed result extracted from a parsed invocation.
// The scripting layer is responsible for wrapping it in its own representation.
type Value interface {
	Kind() ValueKind
	String() string
}

// NullValue represents no value.
type NullValue struct{}

// Null is the shared NullValue instance.
var Null Value = NullValue{}

// Kind returns KindNull.
func (NullValue) Kind() ValueKind { return KindNull }

func (NullValue) String() string { return "null" }

// BoolValue is a boolean value.
type BoolValue bool

// Kind returns KindBool.
func (BoolValue) Kind() ValueKind { return KindBool }

func (b BoolValue) String() string { return strconv.FormatBool(bool(b)) }

// IntValue is an integral number.
type IntValue int64

// Kind returns KindNumber.
func (IntValue) Kind() ValueKind { return KindNumber }

func (i IntValue) String() string { return strconv.FormatInt(int64(i), 10) }

// FloatValue is a floating point number.
type FloatValue float64

// Kind returns KindNumber.
func (FloatValue) Kind() ValueKind { return KindNumber }

func (f FloatValue) String() string { return formatNumber(float64(f)) }

// StringValue is a string value.
type StringValue string

// Kind returns KindString.
func (StringValue) Kind() ValueKind { return KindString }

func (s StringValue) String() string { return string(s) }

// ListValue is an ordered list of values.
type ListValue []Value

// Kind returns KindList.
func (ListValue) Kind() ValueKind { return KindList }

func (l ListValue) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// VectorValue holds positional coordinates, in x, y, z order (x, z for columns).
type VectorValue []float64

// Kind returns KindVector.
func (VectorValue) Kind() ValueKind { return KindVector }

func (v VectorValue) String() string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = formatNumber(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// EntityValue references a host entity.
type EntityValue struct {
	Entity Entity
}

// Kind returns KindEntity.
func (EntityValue) Kind() ValueKind { return KindEntity }

func (e EntityValue) String() string {
	if e.Entity == nil {
		return "null"
	}
	return e.Entity.Name()
}

// formatNumber prints integral floats without a fractional part.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
