package argtypes

import (
	"errors"
	"fmt"
)

// Causes of ConfigurationError.
var (
	ErrMissingBaseType = errors.New("missing base type")
	ErrUnknownBaseType = errors.New("unknown base type")
	ErrUnknownType     = errors.New("unknown argument type")
	ErrUpperBoundOnly  = errors.New("types cannot be only upper-bounded")
	ErrBoundsInverted  = errors.New("min is greater than max")
	ErrNotAList        = errors.New("value must be a list")
	ErrNotANumber      = errors.New("value must be a number")
	ErrNotABool        = errors.New("value must be a boolean")
	ErrNotAString      = errors.New("value must be a string")
	ErrSealed          = errors.New("argument type is sealed")
	ErrInvalidSuffix   = errors.New("suffix must be a single word without underscores")
)

// Causes of ParseFailure.
var (
	ErrSyntax           = errors.New("invalid syntax")
	ErrOutOfRange       = errors.New("value out of range")
	ErrNotInOptions     = errors.New("incorrect value")
	ErrNotLoaded        = errors.New("position is not loaded")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrTooManyEntities  = errors.New("only one entity is allowed")
	ErrPlayersOnly      = errors.New("only players may be affected")
	ErrNoArgument       = errors.New("no value for argument")
)

// ConfigurationError reports a malformed or contradictory configuration map.
// It is raised while a custom type is being built, never during parsing.
type ConfigurationError struct {
	Suffix string // custom or base type being configured, if known
	Key    string // offending option, if any
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Err.Error()
	if e.Key != "" {
		msg = fmt.Sprintf("option %q: %s", e.Key, msg)
	}
	if e.Suffix != "" {
		msg = fmt.Sprintf("type %q: %s", e.Suffix, msg)
	}
	return "configuration error: " + msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError creates a ConfigurationError for key with the given cause.
func NewConfigurationError(key string, err error) *ConfigurationError {
	return &ConfigurationError{Key: key, Err: err}
}

// ParseFailure reports user input rejected by a type, either while parsing
// a token or while extracting the typed value from an invocation.
type ParseFailure struct {
	Param  string // parameter name, filled in at extraction time
	Input  string // offending token
	Cursor int    // position in the command line, -1 if unknown
	Err    error
	Detail string
}

func (e *ParseFailure) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Param != "" {
		msg = fmt.Sprintf("%s for %s", msg, e.Param)
	}
	if e.Input != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Input)
	}
	if e.Cursor >= 0 {
		msg = fmt.Sprintf("%s at position %d", msg, e.Cursor)
	}
	return msg
}

func (e *ParseFailure) Unwrap() error { return e.Err }

// Failf creates a ParseFailure with a formatted detail message.
func Failf(cause error, format string, args ...any) *ParseFailure {
	return &ParseFailure{Err: cause, Cursor: -1, Detail: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsParseFailure reports whether err is or wraps a ParseFailure.
func IsParseFailure(err error) bool {
	var pf *ParseFailure
	return errors.As(err, &pf)
}
