package arguments

import (
	"slices"

	"argshell/internal/grammar"
	"argshell/pkg/argtypes"
)

// ParserFactory builds the host parser of a host-native type.
type ParserFactory func() argtypes.Parser

// ValueExtractor converts the host's parsed result for param into a value.
type ValueExtractor func(inv argtypes.Invocation, param string) (argtypes.Value, error)

// VanillaType wraps a host-native parser and extractor. It has no options
// of its own beyond the shared suggest list.
type VanillaType struct {
	baseType
	parserFactory    ParserFactory
	extractor        ValueExtractor
	providesExamples bool
}

// NewVanilla returns a host-native type. When providesExamples is set the
// parser's examples are offered as suggestions.
func NewVanilla(suffix string, parser ParserFactory, extractor ValueExtractor, providesExamples bool) *VanillaType {
	return &VanillaType{
		baseType:         newBase(suffix, parser().Examples(), providesExamples),
		parserFactory:    parser,
		extractor:        extractor,
		providesExamples: providesExamples,
	}
}

func (v *VanillaType) Parser() argtypes.Parser { return v.parserFactory() }

func (v *VanillaType) Extract(inv argtypes.Invocation, param string) (argtypes.Value, error) {
	value, err := v.extractor(inv, param)
	if err != nil {
		return nil, withParam(err, param)
	}
	return value, nil
}

func (v *VanillaType) Configure(cfg *argtypes.ConfigMap) error {
	return v.configure(cfg)
}

func (v *VanillaType) Builder() Factory {
	suffix, parser, extractor, examples := v.suffix, v.parserFactory, v.extractor, v.providesExamples
	return func() ArgumentType { return NewVanilla(suffix, parser, extractor, examples) }
}

// vanilla builds a host-native type around a grammar parser whose raw
// result has type T.
func vanilla[T any](suffix string, parser argtypes.Parser, providesExamples bool,
	convert func(raw T, src argtypes.Source, param string) (argtypes.Value, error)) *VanillaType {
	return NewVanilla(suffix,
		func() argtypes.Parser { return parser },
		func(inv argtypes.Invocation, param string) (argtypes.Value, error) {
			raw, err := result[T](inv, param)
			if err != nil {
				return nil, err
			}
			return convert(raw, inv.Source(), param)
		},
		providesExamples)
}

func newBool() *VanillaType {
	return vanilla("bool", grammar.Bool(), false,
		func(b bool, _ argtypes.Source, _ string) (argtypes.Value, error) {
			return argtypes.BoolValue(b), nil
		})
}

func newYaw() *VanillaType {
	return vanilla("yaw", grammar.AngleParser{}, true,
		func(a grammar.Angle, src argtypes.Source, _ string) (argtypes.Value, error) {
			return argtypes.FloatValue(a.Degrees(src)), nil
		})
}

func newBlock() *VanillaType {
	return vanilla("block", grammar.BlockStateParser{}, false,
		func(b grammar.BlockState, _ argtypes.Source, _ string) (argtypes.Value, error) {
			return argtypes.StringValue(b.String()), nil
		})
}

func newColor() *VanillaType {
	return vanilla("color", grammar.ColorParser{}, false,
		func(c grammar.Color, _ argtypes.Source, _ string) (argtypes.Value, error) {
			return argtypes.ListValue{
				argtypes.StringValue(c.Name),
				argtypes.IntValue(int64(c.RGB)*256 + 255),
			}, nil
		})
}

func newColumnPos() *VanillaType {
	return vanilla("columnpos", grammar.ColumnPos(), false,
		func(c grammar.Coordinates, src argtypes.Source, _ string) (argtypes.Value, error) {
			x, z := c.Column(src)
			return argtypes.VectorValue{float64(x), float64(z)}, nil
		})
}

func newDimension() *VanillaType {
	return vanilla("dimension", grammar.DimensionParser{}, false,
		func(id string, src argtypes.Source, param string) (argtypes.Value, error) {
			known := slices.ContainsFunc(src.Dimensions(), func(d string) bool {
				return grammar.NormalizeDimension(d) == id
			})
			if !known {
				return nil, &argtypes.ParseFailure{Param: param, Input: id, Cursor: -1, Err: argtypes.ErrUnknownDimension}
			}
			return argtypes.StringValue(grammar.DimensionName(id)), nil
		})
}

func newRotation() *VanillaType {
	return vanilla("rotation", grammar.Rotation(), true,
		func(c grammar.Coordinates, src argtypes.Source, _ string) (argtypes.Value, error) {
			yaw, pitch := c.Rotation(src)
			return argtypes.ListValue{argtypes.FloatValue(yaw), argtypes.FloatValue(pitch)}, nil
		})
}

func newSwizzle() *VanillaType {
	return vanilla("swizzle", grammar.SwizzleParser{}, true,
		func(axes string, _ argtypes.Source, _ string) (argtypes.Value, error) {
			return argtypes.StringValue(axes), nil
		})
}

func newTime() *VanillaType {
	return vanilla("time", grammar.TimeParser{}, false,
		func(ticks int64, _ argtypes.Source, _ string) (argtypes.Value, error) {
			return argtypes.IntValue(ticks), nil
		})
}
