package arguments

import (
	"errors"

	"argshell/pkg/argtypes"
)

// Build creates a custom argument type named suffix from cfg. The "type"
// option names the built-in template to clone; the clone is configured with
// cfg, renamed to suffix and sealed. The template is left untouched.
func (c *Catalog) Build(suffix string, cfg *argtypes.ConfigMap) (ArgumentType, error) {
	if cfg == nil {
		cfg = argtypes.NewConfigMap()
	}
	base, ok, err := cfg.String("type")
	if err != nil {
		return nil, named(err, suffix)
	}
	if !ok {
		return nil, &argtypes.ConfigurationError{Suffix: suffix, Key: "type", Err: argtypes.ErrMissingBaseType}
	}
	template, ok := c.Lookup(base)
	if !ok {
		return nil, &argtypes.ConfigurationError{Suffix: suffix, Key: "type", Err: argtypes.ErrUnknownBaseType}
	}

	variant := template.Builder()()
	if err := variant.Configure(cfg); err != nil {
		return nil, named(err, suffix)
	}
	core := variant.core()
	core.suffix = suffix
	core.sealed = true
	return variant, nil
}

// named fills in the custom type's name on a ConfigurationError.
func named(err error, suffix string) error {
	var ce *argtypes.ConfigurationError
	if errors.As(err, &ce) && ce.Suffix == "" {
		ce.Suffix = suffix
	}
	return err
}
