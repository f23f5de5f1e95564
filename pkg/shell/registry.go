package shell

import (
	"slices"
	"strings"

	"webdesk/pkg/apps"
	"webdesk/pkg/metrics"
	"webdesk/pkg/vfs"
)

// Context is what a command may act on. Any field may be nil.
type Context struct {
	FS      *vfs.Session
	Windows apps.Opener
	Browser apps.Browser
}

// RunFunc executes a command with its positional arguments.
type RunFunc func(args []string, ctx *Context) *Output

// Command is one entry of the command table.
type Command struct {
	Name        string
	Description string
	Usage       string
	// Hidden commands run but are left out of help.
	Hidden bool
	// PathCompletion enables tab completion of path arguments.
	PathCompletion bool
	Run            RunFunc
}

// Registry maps lowercase command names to commands.
type Registry struct {
	commands map[string]*Command
	order    []string
}

// NewRegistry returns a registry holding cmds.
func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{commands: make(map[string]*Command, len(cmds))}
	for _, c := range cmds {
		r.Register(c)
	}
	return r
}

// Register adds or replaces a command. A command without a name or a Run
// function is a programming error and panics.
func (r *Registry) Register(c Command) {
	c.Name = strings.ToLower(c.Name)
	if c.Name == "" {
		panic("shell: command registered without a name")
	}
	if c.Run == nil {
		panic("shell: command " + c.Name + " registered without Run")
	}
	if _, exists := r.commands[c.Name]; !exists {
		r.order = append(r.order, c.Name)
	}
	r.commands[c.Name] = &c
}

// Lookup returns the command with the given name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.commands[strings.ToLower(name)]
	return c, ok
}

// Names returns every command name, sorted.
func (r *Registry) Names() []string {
	names := slices.Clone(r.order)
	slices.Sort(names)
	return names
}

// Help lists visible commands in registration order.
func (r *Registry) Help() []HelpEntry {
	var out []HelpEntry
	for _, name := range r.order {
		c := r.commands[name]
		if c.Hidden {
			continue
		}
		out = append(out, HelpEntry{Name: c.Name, Description: c.Description, Usage: c.Usage})
	}
	return out
}

// Execute parses input and runs the named command. Empty input yields nil.
// Failures are reported in the returned Output.
func (r *Registry) Execute(input string, ctx *Context) *Output {
	name, args := ParseCommandLine(input)
	if name == "" {
		return nil
	}
	if ctx == nil {
		ctx = &Context{}
	}

	c, ok := r.commands[name]
	if !ok {
		metrics.RecordCommand("unknown", "not_found")
		return Errorf("Command not found: %s\nType help to see available commands.", name)
	}

	out := c.Run(args, ctx)
	outcome := "ok"
	if out != nil && out.Kind == KindError {
		outcome = "error"
	}
	metrics.RecordCommand(name, outcome)
	return out
}
