package context

import (
	"slices"
	"sync"

	"github.com/tidwall/btree"
)

// CommandSubcontext defines the interface for an application's declared
// commands: each command name maps to its ordered parameter names.
type CommandSubcontext interface {
	DeclareCommand(name string, params []string)
	RemoveCommand(name string) bool
	CommandParams(name string) ([]string, bool)
	CommandNames() []string
}

type commandSubcontext struct {
	commands *btree.Map[string, []string]
	mu       sync.RWMutex
}

// NewCommandSubcontext creates an empty command table.
func NewCommandSubcontext() CommandSubcontext {
	return &commandSubcontext{
		commands: btree.NewMap[string, []string](0),
	}
}

func (c *commandSubcontext) DeclareCommand(name string, params []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands.Set(name, slices.Clone(params))
}

func (c *commandSubcontext) RemoveCommand(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.commands.Delete(name)
	return ok
}

func (c *commandSubcontext) CommandParams(name string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	params, ok := c.commands.Get(name)
	return slices.Clone(params), ok
}

// CommandNames returns the declared command names in sorted order.
func (c *commandSubcontext) CommandNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, c.commands.Len())
	c.commands.Scan(func(name string, _ []string) bool {
		names = append(names, name)
		return true
	})
	return names
}
