package arguments

import (
	"argshell/internal/grammar"
	"argshell/pkg/argtypes"
)

// EntityType is an entity selector. With players only player selectors are
// accepted; with single the selector must target at most one entity and the
// value is that entity, or null when nothing matched.
type EntityType struct {
	baseType
	playersOnly bool
	single      bool
}

// NewEntity returns the variant registered as "entity".
func NewEntity() *EntityType {
	return &EntityType{baseType: newBase("entity", grammar.Entities().Examples(), false)}
}

// PlayersOnly reports whether only players can be selected.
func (e *EntityType) PlayersOnly() bool { return e.playersOnly }

// Single reports whether at most one entity can be selected.
func (e *EntityType) Single() bool { return e.single }

func (e *EntityType) Parser() argtypes.Parser {
	return grammar.EntityParser{Single: e.single, PlayersOnly: e.playersOnly}
}

// Extract selects the entities. An empty selection is never an error.
func (e *EntityType) Extract(inv argtypes.Invocation, param string) (argtypes.Value, error) {
	sel, err := result[grammar.Selector](inv, param)
	if err != nil {
		return nil, err
	}
	found := sel.Select(inv.Source())
	if e.single {
		if len(found) == 0 {
			return argtypes.Null, nil
		}
		return argtypes.EntityValue{Entity: found[0]}, nil
	}
	list := make(argtypes.ListValue, 0, len(found))
	for _, ent := range found {
		list = append(list, argtypes.EntityValue{Entity: ent})
	}
	return list, nil
}

func (e *EntityType) Configure(cfg *argtypes.ConfigMap) error {
	if err := e.configure(cfg); err != nil {
		return err
	}
	players, err := cfg.Bool("players", false)
	if err != nil {
		return err
	}
	single, err := cfg.Bool("single", false)
	if err != nil {
		return err
	}
	e.playersOnly, e.single = players, single
	return nil
}

func (e *EntityType) Builder() Factory {
	return func() ArgumentType { return NewEntity() }
}
