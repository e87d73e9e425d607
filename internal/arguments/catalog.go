package arguments

import "slices"

// Catalog is an ordered set of sealed argument type templates. The first
// type is the default returned for unknown suffixes.
type Catalog struct {
	types    []ArgumentType
	bySuffix map[string]ArgumentType
}

// NewCatalog seals the given types and indexes them by suffix. A later type
// with the same suffix replaces an earlier one.
func NewCatalog(types ...ArgumentType) *Catalog {
	c := &Catalog{bySuffix: make(map[string]ArgumentType, len(types))}
	for _, t := range types {
		t.core().sealed = true
		if i := slices.IndexFunc(c.types, func(o ArgumentType) bool { return o.Suffix() == t.Suffix() }); i >= 0 {
			c.types[i] = t
		} else {
			c.types = append(c.types, t)
		}
		c.bySuffix[t.Suffix()] = t
	}
	return c
}

// BuiltinTypes returns fresh instances of every built-in type, default first.
func BuiltinTypes() []ArgumentType {
	return []ArgumentType{
		NewString(),
		newBool(),
		NewFloat(),
		NewInt(),
		NewTerm(),
		NewText(),
		newYaw(),
		NewBlockPos(),
		newBlock(),
		newColor(),
		newColumnPos(),
		newDimension(),
		NewEntity(),
		newRotation(),
		newSwizzle(),
		newTime(),
		NewLocation(),
	}
}

var builtins = NewCatalog(BuiltinTypes()...)

// Builtins returns the process-wide catalog of built-in types.
func Builtins() *Catalog { return builtins }

// Lookup returns the template registered under suffix.
func (c *Catalog) Lookup(suffix string) (ArgumentType, bool) {
	t, ok := c.bySuffix[suffix]
	return t, ok
}

// Default returns the fallback type.
func (c *Catalog) Default() ArgumentType {
	if len(c.types) == 0 {
		return nil
	}
	return c.types[0]
}

// All returns the templates in catalog order.
func (c *Catalog) All() []ArgumentType { return slices.Clone(c.types) }

// Suffixes returns the registered suffixes in catalog order.
func (c *Catalog) Suffixes() []string {
	out := make([]string, len(c.types))
	for i, t := range c.types {
		out[i] = t.Suffix()
	}
	return out
}
