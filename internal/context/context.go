// Package context holds argshell's session state: the applications with
// their custom argument types and declared commands, the host world commands
// run against, and session metadata.
package context

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"argshell/internal/host"
)

// DefaultApp is the application used when none is selected.
const DefaultApp = "default"

// Application is a named scope of custom argument types and commands.
type Application struct {
	CustomTypeSubcontext
	CommandSubcontext
	name string
}

// NewApplication creates an empty application.
func NewApplication(name string) *Application {
	return &Application{
		CustomTypeSubcontext: NewCustomTypeSubcontext(),
		CommandSubcontext:    NewCommandSubcontext(),
		name:                 name,
	}
}

// Name returns the application name.
func (a *Application) Name() string { return a.name }

// ArgContext is the session state shared by services.
type ArgContext struct {
	mu         sync.RWMutex
	apps       map[string]*Application
	currentApp string
	world      *host.World
	sessionID  string
	testMode   bool
}

// New creates a context with the default application and a world whose
// spawn chunks are loaded.
func New() *ArgContext {
	ctx := &ArgContext{
		apps:       make(map[string]*Application),
		currentApp: DefaultApp,
		world:      host.NewWorld(8),
	}
	ctx.sessionID = ctx.generateSessionID()
	return ctx
}

func (c *ArgContext) generateSessionID() string {
	if c.testMode {
		return "test-session"
	}
	return uuid.New().String()
}

// App returns the named application, creating it on first use. An empty
// name selects the current application.
func (c *ArgContext) App(name string) *Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == "" {
		name = c.currentApp
	}
	app, ok := c.apps[name]
	if !ok {
		app = NewApplication(name)
		c.apps[name] = app
	}
	return app
}

// HasApp reports whether the application exists.
func (c *ArgContext) HasApp(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.apps[name]
	return ok
}

// AppNames returns the existing application names in sorted order.
func (c *ArgContext) AppNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.apps))
	for name := range c.apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DropApp removes an application and everything registered in it.
func (c *ArgContext) DropApp(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.apps, name)
}

// CurrentApp returns the selected application name.
func (c *ArgContext) CurrentApp() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentApp
}

// SetCurrentApp selects the application used when none is named.
func (c *ArgContext) SetCurrentApp(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentApp = name
}

// World returns the host world commands run against.
func (c *ArgContext) World() *host.World {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.world
}

// SetWorld replaces the host world.
func (c *ArgContext) SetWorld(w *host.World) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.world = w
}

// SessionID returns the session identifier.
func (c *ArgContext) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// SetTestMode enables deterministic identifiers.
func (c *ArgContext) SetTestMode(testMode bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.testMode = testMode
	c.sessionID = c.generateSessionID()
}

// IsTestMode reports whether test mode is enabled.
func (c *ArgContext) IsTestMode() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.testMode
}
