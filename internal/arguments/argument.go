// Package arguments implements argshell's argument type system: the
// ArgumentType contract, the built-in variants, the catalog they live in,
// the suffix resolver, the configuration builder and the suggestion engine.
//
// Built-in types are sealed templates. A custom type is produced by cloning a
// template through its Builder, configuring the clone once and sealing it
// under a new suffix. Sealed types are never mutated again, so they can be
// shared across goroutines without locking.
package arguments

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/brunoga/deep"

	"argshell/pkg/argtypes"
)

// ArgumentType is a named parameter type: it supplies the host grammar with a
// parser, pulls the typed value out of a parsed invocation and offers
// completion candidates while the user types.
type ArgumentType interface {
	// Suffix is the type's canonical name and dispatch key.
	Suffix() string
	// Examples returns the candidate values of the type.
	Examples() []string
	// NeedsMatching reports whether suggestions are drawn from a concrete
	// candidate set rather than a placeholder hint.
	NeedsMatching() bool
	// Parser returns the parser for the current configuration.
	Parser() argtypes.Parser
	// Extract returns the typed value the host parsed for param.
	Extract(inv argtypes.Invocation, param string) (argtypes.Value, error)
	// Suggest returns the candidates matching the remaining input.
	Suggest(remaining string) iter.Seq[string]
	// Configure applies a configuration map. Sealed types reject it.
	Configure(cfg *argtypes.ConfigMap) error
	// Builder returns a factory producing fresh, unconfigured copies of the variant.
	Builder() Factory
	// Sealed reports whether the type can no longer be configured.
	Sealed() bool

	core() *baseType
}

// Factory produces a fresh, unconfigured argument type.
type Factory func() ArgumentType

// baseType holds the state every variant shares.
type baseType struct {
	suffix        string
	examples      []string
	needsMatching bool
	sealed        bool
}

func newBase(suffix string, examples []string, needsMatching bool) baseType {
	return baseType{
		suffix:        suffix,
		examples:      deep.MustCopy(examples),
		needsMatching: needsMatching,
	}
}

func (b *baseType) Suffix() string { return b.suffix }

func (b *baseType) Examples() []string { return slices.Clone(b.examples) }

func (b *baseType) NeedsMatching() bool { return b.needsMatching }

func (b *baseType) Sealed() bool { return b.sealed }

func (b *baseType) core() *baseType { return b }

// options returns the suggestion candidates: the examples when the type
// needs matching, otherwise a hint naming the type.
func (b *baseType) options() []string {
	if b.needsMatching {
		return b.examples
	}
	return []string{"... " + b.suffix}
}

// Suggest filters the type's candidates against the remaining input.
func (b *baseType) Suggest(remaining string) iter.Seq[string] {
	return Filter(remaining, b.options())
}

// configure applies the options every variant understands. It fails when the
// type is sealed.
func (b *baseType) configure(cfg *argtypes.ConfigMap) error {
	if b.sealed {
		return &argtypes.ConfigurationError{Suffix: b.suffix, Err: argtypes.ErrSealed}
	}
	suggestions, ok, err := cfg.StringList("suggest")
	if err != nil {
		return err
	}
	if ok {
		b.examples = dedupe(suggestions)
		if len(b.examples) > 0 {
			b.needsMatching = true
		}
	}
	return nil
}

// dedupe removes repeated items, keeping the first occurrence.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// result fetches the raw value the host parsed for param and asserts its type.
func result[T any](inv argtypes.Invocation, param string) (T, error) {
	var zero T
	raw, ok := inv.Result(param)
	if !ok {
		return zero, &argtypes.ParseFailure{Param: param, Cursor: -1, Err: argtypes.ErrNoArgument}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, &argtypes.ParseFailure{
			Param:  param,
			Cursor: -1,
			Err:    argtypes.ErrNoArgument,
			Detail: fmt.Sprintf("unexpected %T", raw),
		}
	}
	return v, nil
}

// withParam fills in the parameter name of a ParseFailure.
func withParam(err error, param string) error {
	var pf *argtypes.ParseFailure
	if errors.As(err, &pf) && pf.Param == "" {
		pf.Param = param
	}
	return err
}
