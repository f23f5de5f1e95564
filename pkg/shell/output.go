package shell

import (
	"fmt"
	"strings"

	"webdesk/pkg/vfs"
)

// Kind says how an Output is rendered.
type Kind int

const (
	// KindText is ordinary output.
	KindText Kind = iota
	// KindInfo is muted, informational output.
	KindInfo
	// KindError reports a failure.
	KindError
	// KindContent is raw file content, shown preformatted.
	KindContent
	// KindListing is a directory listing; see Output.Entries.
	KindListing
	// KindHelp is the command list; see Output.Commands.
	KindHelp
	// KindClear asks the caller to discard its log.
	KindClear
)

var kindNames = [...]string{"text", "info", "error", "content", "listing", "help", "clear"}

// String returns a string representation of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("shell: unknown output kind %q", b)
}

// Entry is one line of a directory listing.
type Entry struct {
	Name     string       `json:"name"`
	Folder   bool         `json:"folder"`
	FileType vfs.FileType `json:"fileType,omitempty"`
}

// HelpEntry describes one command in help output.
type HelpEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage,omitempty"`
}

// Output is the renderable result of a command. A nil *Output means the
// command printed nothing.
type Output struct {
	Kind     Kind        `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Entries  []Entry     `json:"entries,omitempty"`
	Commands []HelpEntry `json:"commands,omitempty"`
}

// Text returns plain output.
func Text(s string) *Output { return &Output{Kind: KindText, Text: s} }

// Info returns muted output.
func Info(s string) *Output { return &Output{Kind: KindInfo, Text: s} }

// Content returns raw file content.
func Content(s string) *Output { return &Output{Kind: KindContent, Text: s} }

// Errorf returns an error output.
func Errorf(format string, args ...any) *Output {
	return &Output{Kind: KindError, Text: fmt.Sprintf(format, args...)}
}

// Listing builds a listing of nodes in the order given.
func Listing(nodes []vfs.Node) *Output {
	out := &Output{Kind: KindListing, Entries: make([]Entry, 0, len(nodes))}
	for _, n := range nodes {
		e := Entry{Name: n.Name()}
		switch n := n.(type) {
		case *vfs.Folder:
			e.Folder = true
		case *vfs.File:
			e.FileType = n.FileType()
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}

// String renders the output as plain text.
func (o *Output) String() string {
	if o == nil {
		return ""
	}

	switch o.Kind {
	case KindListing:
		names := make([]string, 0, len(o.Entries))
		for _, e := range o.Entries {
			if e.Folder {
				names = append(names, e.Name+"/")
			} else {
				names = append(names, e.Name)
			}
		}
		return strings.Join(names, "  ")
	case KindHelp:
		width := 0
		for _, c := range o.Commands {
			width = max(width, len(c.Name))
		}
		var b strings.Builder
		b.WriteString("Available commands:")
		for _, c := range o.Commands {
			fmt.Fprintf(&b, "\n  %-*s  %s", width, c.Name, c.Description)
		}
		return b.String()
	default:
		return o.Text
	}
}
