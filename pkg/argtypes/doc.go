// Package argtypes defines the contracts shared between argshell's argument
// type registry and the command host that uses it.
//
// # Package Organization
//
// ## Values (value.go)
//
// The closed set of shapes an extracted argument can take:
//
//   - NullValue, BoolValue, IntValue, FloatValue, StringValue
//   - ListValue: ordered values (entity lists, colors, rotations)
//   - VectorValue: positional coordinates
//   - EntityValue: a reference to a host entity
//
// ## Configuration (config.go, config_yaml.go)
//
// ConfigMap is the ordered option map used to derive a custom argument type
// from a built-in one. It can be built in code, decoded from JSON or converted
// from a YAML mapping node.
//
// ## Errors (errors.go)
//
//   - ConfigurationError: a malformed or contradictory configuration map
//   - ParseFailure: user input rejected by a parser or during extraction
//
// ## Host contracts (host.go, reader.go)
//
// Parser, Reader, Invocation, Source and Entity describe the pieces of the
// command host that argument types depend on without implementing them.
//
// # Usage
//
//	cfg := argtypes.NewConfigMap().
//		Set("type", "int").
//		Set("min", 0).
//		Set("max", 10)
//
//	ok, err := cfg.Bool("case_sensitive", false)
package argtypes
