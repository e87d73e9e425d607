package services

import (
	"errors"
	"fmt"
	"strings"

	argcontext "argshell/internal/context"
	"argshell/internal/host"
	"argshell/internal/logger"
	"argshell/internal/metrics"
	"argshell/pkg/argtypes"
)

// ErrUnknownCommand is returned when a command line names no declared command.
var ErrUnknownCommand = errors.New("unknown command")

// NamedValue is one extracted argument of an executed command.
type NamedValue struct {
	Param string
	Value argtypes.Value
}

// CommandService declares commands whose parameters are typed by their
// names and executes command lines against the host world.
type CommandService struct {
	initialized bool
	ctx         *argcontext.ArgContext
	types       *ArgumentTypeService
}

// NewCommandService creates a new CommandService instance.
func NewCommandService() *CommandService {
	return &CommandService{}
}

// Name returns the service name "commands" for registration.
func (c *CommandService) Name() string {
	return "commands"
}

// Initialize looks up the argument type service used to type parameters.
func (c *CommandService) Initialize() error {
	types, err := GetGlobalArgumentTypeService()
	if err != nil {
		return err
	}
	c.types = types
	c.ctx = argcontext.GetGlobalContext()
	c.initialized = true
	return nil
}

// Declare adds or replaces a command of app.
func (c *CommandService) Declare(app, name string, params []string) error {
	if !c.initialized {
		return fmt.Errorf("command service not initialized")
	}
	if name == "" || strings.ContainsAny(name, " \t") {
		return fmt.Errorf("invalid command name %q", name)
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p == "" || strings.ContainsAny(p, " \t") {
			return fmt.Errorf("command %s: invalid parameter name %q", name, p)
		}
		if seen[p] {
			return fmt.Errorf("command %s: duplicate parameter %q", name, p)
		}
		seen[p] = true
	}
	c.ctx.App(app).DeclareCommand(name, params)
	return nil
}

// Commands returns the command names declared in app.
func (c *CommandService) Commands(app string) ([]string, error) {
	if !c.initialized {
		return nil, fmt.Errorf("command service not initialized")
	}
	return c.ctx.App(app).CommandNames(), nil
}

// Command assembles the grammar of a declared command from the current
// argument types of its parameters.
func (c *CommandService) Command(app, name string) (host.Command, error) {
	if !c.initialized {
		return host.Command{}, fmt.Errorf("command service not initialized")
	}
	params, ok := c.ctx.App(app).CommandParams(name)
	if !ok {
		return host.Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	cmd := host.Command{Name: name, Nodes: make([]host.Node, 0, len(params))}
	for _, param := range params {
		node, err := c.types.ArgumentNode(app, param)
		if err != nil {
			return host.Command{}, err
		}
		cmd.Nodes = append(cmd.Nodes, node)
	}
	return cmd, nil
}

// Execute runs line in app as the world console.
func (c *CommandService) Execute(app, line string) ([]NamedValue, error) {
	if !c.initialized {
		return nil, fmt.Errorf("command service not initialized")
	}
	return c.ExecuteAs(app, c.ctx.World().Console(), line)
}

// ExecuteAs parses line, "name arg arg...", for src and extracts every
// parameter in declaration order.
func (c *CommandService) ExecuteAs(app string, src argtypes.Source, line string) ([]NamedValue, error) {
	name, args, _ := strings.Cut(line, " ")
	cmd, err := c.Command(app, name)
	if err != nil {
		return nil, err
	}

	inv, err := cmd.Parse(src, args)
	if err != nil {
		c.recordFailure(app, err)
		return nil, err
	}

	values := make([]NamedValue, 0, len(cmd.Nodes))
	for _, node := range cmd.Nodes {
		v, err := c.types.Extract(app, inv, node.Name)
		if err != nil {
			return nil, err
		}
		values = append(values, NamedValue{Param: node.Name, Value: v})
	}
	logger.Debug("Command executed", "app", app, "command", name, "args", len(values))
	return values, nil
}

func (c *CommandService) recordFailure(app string, err error) {
	var pf *argtypes.ParseFailure
	if !errors.As(err, &pf) || pf.Param == "" {
		return
	}
	if t, rerr := c.types.Resolve(app, pf.Param); rerr == nil {
		metrics.RecordParseFailure(t.Suffix())
		logger.Debug("Parse failed", "app", app, "param", pf.Param, "suffix", t.Suffix(), "error", err)
	}
}

// GetGlobalCommandService returns the command service from the global registry.
func GetGlobalCommandService() (*CommandService, error) {
	return getService[*CommandService]("commands")
}

func init() {
	if err := GlobalRegistry.RegisterService(NewCommandService()); err != nil {
		panic(err)
	}
}
