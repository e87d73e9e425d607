package services

import (
	"slices"
	"sort"
	"strings"

	argcontext "argshell/internal/context"
)

// AutoCompleteService provides tab completion for command names and for the
// argument under the cursor. It implements the readline.AutoCompleter
// interface.
type AutoCompleteService struct {
	initialized   bool
	ctx           *argcontext.ArgContext
	shellCommands []string
}

// NewAutoCompleteService creates a new AutoCompleteService instance.
func NewAutoCompleteService() *AutoCompleteService {
	return &AutoCompleteService{
		initialized: false,
	}
}

// Name returns the service name "autocomplete" for registration.
func (a *AutoCompleteService) Name() string {
	return "autocomplete"
}

// Initialize sets up the AutoCompleteService for operation.
func (a *AutoCompleteService) Initialize() error {
	a.ctx = argcontext.GetGlobalContext()
	a.initialized = true
	return nil
}

// SetShellCommands sets the shell's own commands, completed alongside the
// commands declared in the current application.
func (a *AutoCompleteService) SetShellCommands(names []string) {
	a.shellCommands = slices.Clone(names)
}

// Do implements the readline.AutoCompleter interface.
// It analyzes the current input line and cursor position to provide relevant completions.
func (a *AutoCompleteService) Do(line []rune, pos int) (newLine [][]rune, offset int) {
	if !a.initialized {
		return nil, 0
	}
	if pos > len(line) {
		pos = len(line)
	}
	lineStr := string(line[:pos])

	// The word being completed runs from the last space to the cursor.
	currentWord := lineStr[a.findWordStart(lineStr):]

	var suggestions [][]rune
	for _, completion := range a.Candidates(lineStr) {
		// Only candidates extending the typed word can be inserted.
		if len(completion) >= len(currentWord) && strings.EqualFold(completion[:len(currentWord)], currentWord) {
			suggestions = append(suggestions, []rune(completion[len(currentWord):]))
		}
	}

	return suggestions, len([]rune(currentWord))
}

// findWordStart finds the start position of the word being completed.
func (a *AutoCompleteService) findWordStart(line string) int {
	return strings.LastIndexByte(line, ' ') + 1
}

// Candidates returns every completion for the text before the cursor: command
// names for the first word, otherwise the suggestions of the argument being
// typed. Argument suggestions may match on an underscore-separated segment
// rather than the typed prefix.
func (a *AutoCompleteService) Candidates(line string) []string {
	if !a.initialized {
		return nil
	}
	name, args, found := strings.Cut(line, " ")
	if !found {
		return a.getCommandCompletions(name)
	}
	return a.getArgumentCompletions(name, args)
}

// getCommandCompletions returns completions for command names.
func (a *AutoCompleteService) getCommandCompletions(prefix string) []string {
	names := slices.Clone(a.shellCommands)
	names = append(names, a.ctx.App("").CommandNames()...)

	var completions []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			completions = append(completions, name)
		}
	}

	// Sort completions alphabetically
	sort.Strings(completions)
	return slices.Compact(completions)
}

// getArgumentCompletions returns the suggestions of the argument under the cursor.
func (a *AutoCompleteService) getArgumentCompletions(name, args string) []string {
	commands, err := GetGlobalCommandService()
	if err != nil {
		return nil
	}
	cmd, err := commands.Command("", name)
	if err != nil {
		return nil
	}
	node, remaining, ok := cmd.Completion(args)
	if !ok || node.Suggest == nil {
		return nil
	}
	return slices.Collect(node.Suggest(remaining))
}

func init() {
	// Register the AutoCompleteService with the global registry
	if err := GlobalRegistry.RegisterService(NewAutoCompleteService()); err != nil {
		panic(err)
	}
}

// GetGlobalAutoCompleteService returns the autocomplete service from the global registry.
func GetGlobalAutoCompleteService() (*AutoCompleteService, error) {
	return getService[*AutoCompleteService]("autocomplete")
}
