// Package grammar provides the host-native argument parsers used by argshell's
// built-in argument types: strings, numbers, coordinates, entity selectors and
// the smaller game-specific formats (angles, colors, time, swizzles, blocks).
// Each parser consumes exactly one argument from an argtypes.Reader.
package grammar

import (
	"argshell/pkg/argtypes"
)

// StringKind selects how much of the command line a string parser consumes.
type StringKind int

const (
	// SingleWord reads one unquoted token
	SingleWord StringKind = iota
	// QuotablePhrase reads a quoted phrase or a single token
	QuotablePhrase
	// GreedyPhrase reads the rest of the command line
	GreedyPhrase
)

// Examples returns the sample inputs for the kind.
func (k StringKind) Examples() []string {
	switch k {
	case SingleWord:
		return []string{"word", "words_with_underscores"}
	case GreedyPhrase:
		return []string{"word", "words with spaces", `"and symbols"`}
	default:
		return []string{`"quoted phrase"`, "word", `""`}
	}
}

// StringParser parses a string argument.
type StringParser struct {
	Kind StringKind
}

// Word returns a parser for a single unquoted token.
func Word() StringParser { return StringParser{Kind: SingleWord} }

// String returns a parser for a quoted phrase or single token.
func String() StringParser { return StringParser{Kind: QuotablePhrase} }

// Greedy returns a parser that consumes the rest of the input.
func Greedy() StringParser { return StringParser{Kind: GreedyPhrase} }

// Parse reads the string. The result is a string.
func (p StringParser) Parse(r *argtypes.Reader) (any, error) {
	switch p.Kind {
	case GreedyPhrase:
		text := r.Remaining()
		r.SetCursor(len(r.Input()))
		return text, nil
	case SingleWord:
		return r.ReadUnquotedString(), nil
	default:
		return r.ReadString()
	}
}

// Examples returns the sample inputs for the parser.
func (p StringParser) Examples() []string { return p.Kind.Examples() }
