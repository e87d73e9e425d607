package arguments

import (
	"iter"
	"slices"
	"strings"

	"argshell/internal/grammar"
	"argshell/pkg/argtypes"
)

// StringType is the string family: string (quotable phrase), term (single
// word) and text (rest of the line). Values are lower-cased unless the type
// is case sensitive, and may be restricted to a list of options.
type StringType struct {
	baseType
	kind          grammar.StringKind
	caseSensitive bool
	validOptions  []string
}

// NewString returns the quotable-phrase variant registered as "string".
func NewString() *StringType { return newStringType("string", grammar.QuotablePhrase) }

// NewTerm returns the single-word variant registered as "term".
func NewTerm() *StringType { return newStringType("term", grammar.SingleWord) }

// NewText returns the greedy variant registered as "text".
func NewText() *StringType { return newStringType("text", grammar.GreedyPhrase) }

func newStringType(suffix string, kind grammar.StringKind) *StringType {
	return &StringType{
		baseType: newBase(suffix, kind.Examples(), true),
		kind:     kind,
	}
}

// CaseSensitive reports whether values keep their case.
func (s *StringType) CaseSensitive() bool { return s.caseSensitive }

// Options returns the values the type accepts; empty means any value.
func (s *StringType) Options() []string { return slices.Clone(s.validOptions) }

// Parser returns the string parser for the variant.
func (s *StringType) Parser() argtypes.Parser {
	return grammar.StringParser{Kind: s.kind}
}

// Extract returns the parsed string, lower-cased unless case sensitive.
func (s *StringType) Extract(inv argtypes.Invocation, param string) (argtypes.Value, error) {
	value, err := result[string](inv, param)
	if err != nil {
		return nil, err
	}
	if !s.caseSensitive {
		value = strings.ToLower(value)
	}
	if len(s.validOptions) > 0 && !slices.Contains(s.validOptions, value) {
		return nil, &argtypes.ParseFailure{
			Param:  param,
			Input:  value,
			Cursor: -1,
			Err:    argtypes.ErrNotInOptions,
		}
	}
	return argtypes.StringValue(value), nil
}

// Suggest offers the valid options when the type has any.
func (s *StringType) Suggest(remaining string) iter.Seq[string] {
	if len(s.validOptions) > 0 {
		return Filter(remaining, s.validOptions)
	}
	return s.baseType.Suggest(remaining)
}

// Configure reads case_sensitive and options on top of the shared options.
func (s *StringType) Configure(cfg *argtypes.ConfigMap) error {
	if err := s.configure(cfg); err != nil {
		return err
	}
	caseSensitive, err := cfg.Bool("case_sensitive", false)
	if err != nil {
		return err
	}
	s.caseSensitive = caseSensitive

	options, ok, err := cfg.StringList("options")
	if err != nil {
		return err
	}
	if ok {
		if !caseSensitive {
			for i, o := range options {
				options[i] = strings.ToLower(o)
			}
		}
		s.validOptions = dedupe(options)
	}
	return nil
}

// Builder returns a factory for the same string variant.
func (s *StringType) Builder() Factory {
	kind := s.kind
	return func() ArgumentType { return newStringType(builtinStringSuffix(kind), kind) }
}

func builtinStringSuffix(kind grammar.StringKind) string {
	switch kind {
	case grammar.SingleWord:
		return "term"
	case grammar.GreedyPhrase:
		return "text"
	default:
		return "string"
	}
}
