package host

import (
	"errors"
	"iter"
	"strings"

	"argshell/pkg/argtypes"
)

// Invocation stores the raw results of a parsed command line.
type Invocation struct {
	source  argtypes.Source
	results map[string]any
}

// NewInvocation creates an empty invocation for src.
func NewInvocation(src argtypes.Source) *Invocation {
	return &Invocation{source: src, results: make(map[string]any)}
}

// Set stores the raw result for param.
func (i *Invocation) Set(param string, raw any) { i.results[param] = raw }

func (i *Invocation) Result(param string) (any, bool) {
	raw, ok := i.results[param]
	return raw, ok
}

func (i *Invocation) Source() argtypes.Source { return i.source }

// SuggestFunc returns completion candidates for the remaining input of an argument.
type SuggestFunc func(remaining string) iter.Seq[string]

// Node is one required argument of a command.
type Node struct {
	Name    string
	Parser  argtypes.Parser
	Suggest SuggestFunc // nil when the argument offers no completions
}

// Command is a literal name followed by required arguments separated by
// single spaces.
type Command struct {
	Name  string
	Nodes []Node
}

// Usage renders the command as "name <arg> <arg>".
func (c Command) Usage() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	for _, n := range c.Nodes {
		sb.WriteString(" <" + n.Name + ">")
	}
	return sb.String()
}

// Parse parses the arguments following the command name. Failures carry
// the argument name and the offending token.
func (c Command) Parse(src argtypes.Source, args string) (*Invocation, error) {
	r := argtypes.NewReader(args)
	inv := NewInvocation(src)
	for i, n := range c.Nodes {
		if i > 0 {
			if err := r.Expect(' '); err != nil {
				return nil, annotate(err, r, n.Name)
			}
		}
		if !r.CanRead() {
			return nil, annotate(r.Fail(argtypes.ErrNoArgument, "expected <%s>", n.Name), r, n.Name)
		}
		raw, err := n.Parser.Parse(r)
		if err != nil {
			return nil, annotate(err, r, n.Name)
		}
		inv.Set(n.Name, raw)
	}
	if r.CanRead() {
		return nil, annotate(r.Fail(argtypes.ErrSyntax, "incorrect argument for command"), r, "")
	}
	return inv, nil
}

// Completion locates the argument under the end of args. It returns the
// node being typed and the text typed for it so far; ok is false when the
// line is complete or a preceding argument is invalid.
func (c Command) Completion(args string) (node Node, remaining string, ok bool) {
	r := argtypes.NewReader(args)
	for i, n := range c.Nodes {
		if i > 0 {
			if !r.CanRead() || r.Peek() != ' ' {
				return Node{}, "", false
			}
			r.Skip()
		}
		start := r.Cursor()
		if _, err := n.Parser.Parse(r); err != nil || !r.CanRead() {
			return n, args[start:], true
		}
	}
	return Node{}, "", false
}

func annotate(err error, r *argtypes.Reader, param string) error {
	var pf *argtypes.ParseFailure
	if errors.As(err, &pf) {
		if pf.Param == "" {
			pf.Param = param
		}
		if pf.Input == "" && pf.Cursor >= 0 && pf.Cursor <= len(r.Input()) {
			pf.Input = tokenAt(r.Input(), pf.Cursor)
		}
	}
	return err
}

// tokenAt returns the space-delimited token starting at pos.
func tokenAt(s string, pos int) string {
	rest := s[pos:]
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		return rest[:i]
	}
	return rest
}
