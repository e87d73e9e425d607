package grammar

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"argshell/pkg/argtypes"
)

// Selector is a parsed entity selector: a player name, a UUID literal or an
// @-selector with optional filters.
type Selector struct {
	Kind        byte // 'p', 'a', 'r', 'e', 's', or 0 for names and UUIDs
	PlayerName  string
	ID          uuid.UUID
	HasID       bool
	TypeFilter  string
	TypeNegated bool
	NameFilter  string
	Limit       int // 0 means unlimited
}

// AllowsMany reports whether the selector can match more than one entity.
func (s Selector) AllowsMany() bool {
	return s.Limit != 1
}

// SenderOnly reports whether the selector is @s.
func (s Selector) SenderOnly() bool { return s.Kind == 's' }

// IncludesNonPlayers reports whether the selector can match non-player entities.
func (s Selector) IncludesNonPlayers() bool {
	switch s.Kind {
	case 'p', 'a', 'r':
		return false
	case 0:
		return s.HasID
	}
	return !(s.TypeFilter == "minecraft:player" && !s.TypeNegated)
}

// Select returns the entities matched by the selector.
func (s Selector) Select(src argtypes.Source) []argtypes.Entity {
	if s.Kind == 's' {
		self := src.Entity()
		if self == nil || !s.matches(self) {
			return nil
		}
		return []argtypes.Entity{self}
	}

	var found []argtypes.Entity
	for _, e := range src.Entities() {
		if s.matches(e) {
			found = append(found, e)
		}
	}

	switch s.Kind {
	case 'p':
		origin := src.Position()
		sort.SliceStable(found, func(i, j int) bool {
			return found[i].Position().DistanceSq(origin) < found[j].Position().DistanceSq(origin)
		})
	case 'r':
		rand.Shuffle(len(found), func(i, j int) { found[i], found[j] = found[j], found[i] })
	}

	if s.Limit > 0 && len(found) > s.Limit {
		found = found[:s.Limit]
	}
	return found
}

func (s Selector) matches(e argtypes.Entity) bool {
	switch {
	case s.HasID:
		return e.ID() == s.ID
	case s.Kind == 0:
		return e.IsPlayer() && e.Name() == s.PlayerName
	case (s.Kind == 'p' || s.Kind == 'a' || s.Kind == 'r') && !e.IsPlayer():
		return false
	}
	if s.TypeFilter != "" && (normalizeID(e.Type()) == s.TypeFilter) == s.TypeNegated {
		return false
	}
	if s.NameFilter != "" && e.Name() != s.NameFilter {
		return false
	}
	return true
}

// EntityParser parses an entity selector.
type EntityParser struct {
	Single      bool
	PlayersOnly bool
}

// Entities returns a parser for any number of entities.
func Entities() EntityParser { return EntityParser{} }

// Parse reads the selector. The result is a Selector.
func (p EntityParser) Parse(r *argtypes.Reader) (any, error) {
	start := r.Cursor()
	sel, err := parseSelector(r)
	if err != nil {
		return nil, err
	}
	if p.Single && sel.AllowsMany() {
		r.SetCursor(start)
		return nil, r.Fail(argtypes.ErrTooManyEntities, "the provided selector allows more than one")
	}
	if p.PlayersOnly && sel.IncludesNonPlayers() && !sel.SenderOnly() {
		r.SetCursor(start)
		return nil, r.Fail(argtypes.ErrPlayersOnly, "the provided selector includes entities")
	}
	return sel, nil
}

// Examples returns the sample inputs for the parser.
func (p EntityParser) Examples() []string {
	if p.PlayersOnly {
		return []string{"Player", "0123", "dd12be42-52a9-4a91-a8a1-11c01849e498", "@e"}
	}
	return []string{"Player", "0123", "@e", "@e[type=foo]", "dd12be42-52a9-4a91-a8a1-11c01849e498"}
}

func parseSelector(r *argtypes.Reader) (Selector, error) {
	if !r.CanRead() {
		return Selector{}, r.Fail(argtypes.ErrSyntax, "expected entity selector")
	}
	if r.Peek() != '@' {
		token := r.ReadUnquotedString()
		if token == "" {
			return Selector{}, r.Fail(argtypes.ErrSyntax, "invalid name or UUID")
		}
		if id, err := uuid.Parse(token); err == nil {
			return Selector{ID: id, HasID: true, Limit: 1}, nil
		}
		if len(token) > 16 {
			return Selector{}, r.Fail(argtypes.ErrSyntax, "invalid name or UUID")
		}
		return Selector{PlayerName: token, Limit: 1}, nil
	}

	r.Skip()
	if !r.CanRead() {
		return Selector{}, r.Fail(argtypes.ErrSyntax, "missing selector type")
	}
	sel := Selector{Kind: r.Read()}
	switch sel.Kind {
	case 'p', 'r', 's':
		sel.Limit = 1
	case 'a', 'e':
	default:
		r.SetCursor(r.Cursor() - 1)
		return Selector{}, r.Fail(argtypes.ErrSyntax, "unknown selector type '@%c'", sel.Kind)
	}

	if r.CanRead() && r.Peek() == '[' {
		r.Skip()
		if err := parseSelectorOptions(r, &sel); err != nil {
			return Selector{}, err
		}
	}
	return sel, nil
}

func parseSelectorOptions(r *argtypes.Reader, sel *Selector) error {
	r.SkipWhitespace()
	for r.CanRead() && r.Peek() != ']' {
		r.SkipWhitespace()
		optStart := r.Cursor()
		key := r.ReadUnquotedString()
		r.SkipWhitespace()
		if err := r.Expect('='); err != nil {
			return err
		}
		r.SkipWhitespace()

		switch key {
		case "type":
			negated := false
			if r.CanRead() && r.Peek() == '!' {
				r.Skip()
				negated = true
			}
			sel.TypeFilter = normalizeID(readResourceID(r))
			sel.TypeNegated = negated
		case "name":
			name, err := r.ReadString()
			if err != nil {
				return err
			}
			sel.NameFilter = name
		case "limit":
			valueStart := r.Cursor()
			raw := r.ReadUnquotedString()
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				r.SetCursor(valueStart)
				return r.Fail(argtypes.ErrSyntax, "limit must be at least 1")
			}
			if sel.Kind == 'p' || sel.Kind == 'r' || sel.Kind == 's' {
				r.SetCursor(optStart)
				return r.Fail(argtypes.ErrSyntax, "option 'limit' isn't applicable here")
			}
			sel.Limit = n
		default:
			r.SetCursor(optStart)
			return r.Fail(argtypes.ErrSyntax, "unknown option '%s'", key)
		}

		r.SkipWhitespace()
		if r.CanRead() && r.Peek() == ',' {
			r.Skip()
			continue
		}
		if !r.CanRead() || r.Peek() != ']' {
			return r.Fail(argtypes.ErrSyntax, "expected end of options")
		}
	}
	return r.Expect(']')
}

// readResourceID consumes a namespaced identifier such as minecraft:stone.
func readResourceID(r *argtypes.Reader) string {
	start := r.Cursor()
	for r.CanRead() && isResourceChar(r.Peek()) {
		r.Skip()
	}
	return r.Consumed(start)
}

func isResourceChar(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' ||
		c == '_' || c == ':' || c == '/' || c == '.' || c == '-'
}

// normalizeID adds the default namespace to bare identifiers.
func normalizeID(id string) string {
	if id == "" || strings.Contains(id, ":") {
		return id
	}
	return "minecraft:" + id
}
