package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	argcontext "argshell/internal/context"
	"argshell/internal/logger"
	"argshell/internal/store"
	"argshell/internal/version"
	"argshell/pkg/argtypes"
)

// ErrIncompatibleVersion is returned when a definition file requires a
// different argshell version.
var ErrIncompatibleVersion = errors.New("definition file requires another argshell version")

// CommandDeclaration is a command name with its ordered parameter names.
type CommandDeclaration struct {
	Name   string
	Params []string
}

// DefinitionFile is a parsed definition file:
//
//	requires: ">= 0.3"
//	types:
//	  shade: {type: term, options: [Red, Blue]}
//	commands:
//	  paint: [where_pos, wall_shade]
//
// Types and commands keep the order they were written in.
type DefinitionFile struct {
	Requires string
	Types    []store.Definition
	Commands []CommandDeclaration
}

type rawDefinitionFile struct {
	Requires string    `yaml:"requires"`
	Types    yaml.Node `yaml:"types"`
	Commands yaml.Node `yaml:"commands"`
}

// DefinitionService loads custom type definitions from files or a store,
// applies them to applications and persists what was applied.
type DefinitionService struct {
	initialized bool
	ctx         *argcontext.ArgContext
	types       *ArgumentTypeService
	store       store.Store

	mu      sync.Mutex
	applied map[string]map[string]store.Definition
}

// NewDefinitionService creates a DefinitionService backed by st. A nil
// store selects an in-memory one.
func NewDefinitionService(st store.Store) *DefinitionService {
	if st == nil {
		st = store.NewMemoryStore()
	}
	return &DefinitionService{store: st, applied: make(map[string]map[string]store.Definition)}
}

// Name returns the service name "definitions" for registration.
func (d *DefinitionService) Name() string {
	return "definitions"
}

// Initialize looks up the argument type service it registers types through.
func (d *DefinitionService) Initialize() error {
	types, err := GetGlobalArgumentTypeService()
	if err != nil {
		return err
	}
	d.types = types
	d.ctx = argcontext.GetGlobalContext()
	d.initialized = true
	return nil
}

// SetStore replaces the definition store. Definitions already applied are
// not copied.
func (d *DefinitionService) SetStore(st store.Store) {
	d.store = st
}

// Store returns the definition store.
func (d *DefinitionService) Store() store.Store {
	return d.store
}

// LoadFile reads and parses a definition file.
func (d *DefinitionService) LoadFile(path string) (*DefinitionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	file, err := d.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Definition file loaded", "path", path, "types", len(file.Types), "commands", len(file.Commands))
	return file, nil
}

// Parse decodes a definition file.
func (d *DefinitionService) Parse(data []byte) (*DefinitionFile, error) {
	var raw rawDefinitionFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid definition file: %w", err)
	}

	file := &DefinitionFile{Requires: raw.Requires}
	if err := mappingPairs(&raw.Types, "types", func(key string, value *yaml.Node) error {
		cfg, err := argtypes.ConfigMapFromYAML(value)
		if err != nil {
			return fmt.Errorf("type %q: %w", key, err)
		}
		file.Types = append(file.Types, store.Definition{Suffix: key, Config: cfg})
		return nil
	}); err != nil {
		return nil, err
	}
	if err := mappingPairs(&raw.Commands, "commands", func(key string, value *yaml.Node) error {
		var params []string
		if err := value.Decode(&params); err != nil {
			return fmt.Errorf("command %q: parameters must be a list of names", key)
		}
		file.Commands = append(file.Commands, CommandDeclaration{Name: key, Params: params})
		return nil
	}); err != nil {
		return nil, err
	}
	return file, nil
}

func mappingPairs(node *yaml.Node, section string, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", node.Line, section)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// Apply registers the file's types and declares its commands in app. Every
// type that builds is registered even when others fail; the failures are
// returned together.
func (d *DefinitionService) Apply(app string, file *DefinitionFile) error {
	if !d.initialized {
		return fmt.Errorf("definition service not initialized")
	}
	ok, err := version.Satisfies(file.Requires)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s (running %s)", ErrIncompatibleVersion, file.Requires, version.GetVersion())
	}

	application := d.ctx.App(app)
	var result *multierror.Error
	registered, err := d.types.RegisterCustomTypes(application.Name(), file.Types)
	if err != nil {
		result = multierror.Append(result, err)
	}
	d.record(application.Name(), registered)

	for _, cmd := range file.Commands {
		application.DeclareCommand(cmd.Name, cmd.Params)
	}
	logger.ServiceOperation(d.Name(), "apply", "app", application.Name(), "types", len(file.Types), "commands", len(file.Commands))
	return result.ErrorOrNil()
}

// record remembers the definitions of app that were registered.
func (d *DefinitionService) record(app string, defs []store.Definition) {
	d.mu.Lock()
	defer d.mu.Unlock()
	table, ok := d.applied[app]
	if !ok {
		table = make(map[string]store.Definition)
		d.applied[app] = table
	}
	for _, def := range defs {
		table[def.Suffix] = def
	}
}

// forget drops a recorded definition.
func (d *DefinitionService) forget(app, suffix string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.applied[app], suffix)
}

// Applied returns the definitions registered in app through this service.
func (d *DefinitionService) Applied(app string) []store.Definition {
	d.mu.Lock()
	defer d.mu.Unlock()
	table := d.applied[d.ctx.App(app).Name()]
	defs := make([]store.Definition, 0, len(table))
	for _, def := range table {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Suffix < defs[j].Suffix })
	return defs
}

// Persist saves the definitions applied to app in the store.
func (d *DefinitionService) Persist(ctx context.Context, app string) error {
	if !d.initialized {
		return fmt.Errorf("definition service not initialized")
	}
	name := d.ctx.App(app).Name()
	defs := d.Applied(name)
	if err := d.store.Save(ctx, name, defs); err != nil {
		return fmt.Errorf("failed to persist definitions: %w", err)
	}
	logger.ServiceOperation(d.Name(), "persist", "app", name, "types", len(defs))
	return nil
}

// Restore registers the definitions stored for app.
func (d *DefinitionService) Restore(ctx context.Context, app string) error {
	if !d.initialized {
		return fmt.Errorf("definition service not initialized")
	}
	name := d.ctx.App(app).Name()
	defs, err := d.store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to restore definitions: %w", err)
	}
	registered, err := d.types.RegisterCustomTypes(name, defs)
	d.record(name, registered)
	logger.ServiceOperation(d.Name(), "restore", "app", name, "types", len(defs))
	return err
}

// Remove unregisters a custom type from app and deletes it from the store.
func (d *DefinitionService) Remove(ctx context.Context, app, suffix string) error {
	if !d.initialized {
		return fmt.Errorf("definition service not initialized")
	}
	name := d.ctx.App(app).Name()
	suffix = strings.ToLower(suffix)
	if _, err := d.types.UnregisterCustomType(name, suffix); err != nil {
		return err
	}
	d.forget(name, suffix)
	if err := d.store.Delete(ctx, name, suffix); err != nil {
		return fmt.Errorf("failed to delete definition: %w", err)
	}
	return nil
}

// GetGlobalDefinitionService returns the definition service from the global registry.
func GetGlobalDefinitionService() (*DefinitionService, error) {
	return getService[*DefinitionService]("definitions")
}

func init() {
	if err := GlobalRegistry.RegisterService(NewDefinitionService(nil)); err != nil {
		panic(err)
	}
}
