package context

import (
	"sync"

	"github.com/tidwall/btree"

	"argshell/internal/arguments"
)

// CustomTypeSubcontext defines the interface for an application's table of
// configured argument types. It is the application-local half of a
// resolution scope.
type CustomTypeSubcontext interface {
	arguments.CustomTypes

	// RegisterType publishes t under its suffix, replacing any previous type.
	RegisterType(t arguments.ArgumentType)
	UnregisterType(suffix string) bool
	Types() []arguments.ArgumentType
	TypeCount() int
}

// customTypeSubcontext implements CustomTypeSubcontext on an ordered map.
type customTypeSubcontext struct {
	types *btree.Map[string, arguments.ArgumentType]
	mu    sync.RWMutex
}

// NewCustomTypeSubcontext creates an empty custom-type table.
func NewCustomTypeSubcontext() CustomTypeSubcontext {
	return &customTypeSubcontext{
		types: btree.NewMap[string, arguments.ArgumentType](0),
	}
}

func (c *customTypeSubcontext) CustomType(suffix string) (arguments.ArgumentType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.types.Get(suffix)
}

func (c *customTypeSubcontext) RegisterType(t arguments.ArgumentType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types.Set(t.Suffix(), t)
}

func (c *customTypeSubcontext) UnregisterType(suffix string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.types.Delete(suffix)
	return ok
}

// Types returns the registered types ordered by suffix.
func (c *customTypeSubcontext) Types() []arguments.ArgumentType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]arguments.ArgumentType, 0, c.types.Len())
	c.types.Scan(func(_ string, t arguments.ArgumentType) bool {
		out = append(out, t)
		return true
	})
	return out
}

func (c *customTypeSubcontext) TypeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.types.Len()
}
