package shell

import (
	gocontext "context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"argshell/internal/arguments"
	"argshell/internal/context"
	"argshell/internal/logger"
	"argshell/internal/services"
)

type builtin struct {
	usage string
	help  string
	run   func(h *Handler, args []string) error
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		`\help`:    {`\help`, "list shell commands and declared commands", (*Handler).cmdHelp},
		`\app`:     {`\app [name]`, "show or switch the current application", (*Handler).cmdApp},
		`\types`:   {`\types [markdown]`, "list the argument types of the current application", (*Handler).cmdTypes},
		`\load`:    {`\load <file>`, "apply a definition file to the current application", (*Handler).cmdLoad},
		`\declare`: {`\declare <name> [param...]`, "declare a command with typed parameters", (*Handler).cmdDeclare},
		`\resolve`: {`\resolve <param>`, "show the argument type a parameter name resolves to", (*Handler).cmdResolve},
		`\suggest`: {`\suggest <param> [prefix]`, "list the suggestions of a parameter", (*Handler).cmdSuggest},
		`\save`:    {`\save`, "persist the current application's custom types", (*Handler).cmdSave},
		`\restore`: {`\restore`, "register the custom types stored for the current application", (*Handler).cmdRestore},
		`\exit`:    {`\exit`, "leave the shell", nil},
	}
}

// CommandNames returns the shell's own command names.
func CommandNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler processes shell input lines against the global services.
type Handler struct {
	out         io.Writer
	log         *log.Logger
	ctx         *context.ArgContext
	types       *services.ArgumentTypeService
	definitions *services.DefinitionService
	commands    *services.CommandService
	markdown    *services.MarkdownService
}

// NewHandler looks up the services the shell needs. Output goes to out.
func NewHandler(out io.Writer) (*Handler, error) {
	types, err := services.GetGlobalArgumentTypeService()
	if err != nil {
		return nil, err
	}
	definitions, err := services.GetGlobalDefinitionService()
	if err != nil {
		return nil, err
	}
	commands, err := services.GetGlobalCommandService()
	if err != nil {
		return nil, err
	}
	markdown, err := services.GetGlobalMarkdownService()
	if err != nil {
		return nil, err
	}
	return &Handler{
		out:         out,
		log:         logger.NewStyledLogger("shell"),
		ctx:         context.GetGlobalContext(),
		types:       types,
		definitions: definitions,
		commands:    commands,
		markdown:    markdown,
	}, nil
}

// ProcessInput handles one input line. It reports false when the shell
// should exit.
func (h *Handler) ProcessInput(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return true
	}

	fields := strings.Fields(line)
	if b, ok := builtins[fields[0]]; ok {
		if b.run == nil {
			return false
		}
		if err := b.run(h, fields[1:]); err != nil {
			h.log.Error("Command failed", "command", fields[0], "error", err)
			fmt.Fprintf(h.out, "Error: %s\n", err)
		}
		return true
	}

	values, err := h.commands.Execute("", line)
	if err != nil {
		h.log.Debug("Command failed", "command", fields[0], "error", err)
		fmt.Fprintf(h.out, "Error: %s\n", err)
		if cmd, cerr := h.commands.Command("", fields[0]); cerr == nil {
			fmt.Fprintf(h.out, "Usage: %s\n", cmd.Usage())
		} else {
			fmt.Fprintln(h.out, `Type \help for available commands`)
		}
		return true
	}
	for _, v := range values {
		fmt.Fprintf(h.out, "%s = %s\n", v.Param, v.Value)
	}
	return true
}

func (h *Handler) cmdHelp(_ []string) error {
	fmt.Fprintln(h.out, "Shell commands:")
	for _, name := range CommandNames() {
		b := builtins[name]
		fmt.Fprintf(h.out, "  %-28s %s\n", b.usage, b.help)
	}
	names, err := h.commands.Commands("")
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	fmt.Fprintf(h.out, "Commands of %s:\n", h.ctx.CurrentApp())
	for _, name := range names {
		cmd, err := h.commands.Command("", name)
		if err != nil {
			return err
		}
		fmt.Fprintf(h.out, "  %s\n", cmd.Usage())
	}
	return nil
}

func (h *Handler) cmdApp(args []string) error {
	if len(args) > 0 {
		h.ctx.SetCurrentApp(args[0])
	}
	fmt.Fprintf(h.out, "Current application: %s\n", h.ctx.CurrentApp())
	return nil
}

// Rows lists the custom types of app followed by the built-in catalog.
func Rows(types *services.ArgumentTypeService, app string) ([]TypeRow, error) {
	custom, err := types.CustomTypes(app)
	if err != nil {
		return nil, err
	}
	rows := make([]TypeRow, 0, len(custom)+len(types.Catalog().All()))
	for _, t := range custom {
		rows = append(rows, DescribeType(t, arguments.FromCustom))
	}
	for _, t := range types.Catalog().All() {
		rows = append(rows, DescribeType(t, arguments.FromBuiltin))
	}
	return rows, nil
}

func (h *Handler) cmdTypes(args []string) error {
	rows, err := Rows(h.types, "")
	if err != nil {
		return err
	}
	if len(args) > 0 && args[0] == "markdown" {
		rendered, err := h.markdown.Render(TypesMarkdown(h.ctx.CurrentApp(), rows))
		if err != nil {
			return err
		}
		fmt.Fprint(h.out, rendered)
		return nil
	}
	fmt.Fprintln(h.out, TypesTable(rows))
	return nil
}

func (h *Handler) cmdLoad(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf(`usage: \load <file>`)
	}
	file, err := h.definitions.LoadFile(args[0])
	if err != nil {
		return err
	}
	err = h.definitions.Apply("", file)
	fmt.Fprintf(h.out, "Loaded %d types and %d commands into %s\n", len(h.definitions.Applied("")), len(file.Commands), h.ctx.CurrentApp())
	return err
}

func (h *Handler) cmdDeclare(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf(`usage: \declare <name> [param...]`)
	}
	if err := h.commands.Declare("", args[0], args[1:]); err != nil {
		return err
	}
	cmd, err := h.commands.Command("", args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "Declared %s\n", cmd.Usage())
	return nil
}

func (h *Handler) cmdResolve(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf(`usage: \resolve <param>`)
	}
	t, origin, err := h.types.ResolveOrigin("", args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "%s -> %s (%s)\n", args[0], t.Suffix(), origin)
	return nil
}

func (h *Handler) cmdSuggest(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf(`usage: \suggest <param> [prefix]`)
	}
	prefix := ""
	if len(args) == 2 {
		prefix = args[1]
	}
	suggestions, err := h.types.Suggest("", args[0], prefix)
	if err != nil {
		return err
	}
	for _, s := range suggestions {
		fmt.Fprintln(h.out, s)
	}
	return nil
}

func (h *Handler) cmdSave(_ []string) error {
	if err := h.definitions.Persist(gocontext.Background(), ""); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "Saved %d types of %s\n", len(h.definitions.Applied("")), h.ctx.CurrentApp())
	return nil
}

func (h *Handler) cmdRestore(_ []string) error {
	err := h.definitions.Restore(gocontext.Background(), "")
	fmt.Fprintf(h.out, "Restored %d types into %s\n", len(h.definitions.Applied("")), h.ctx.CurrentApp())
	return err
}
