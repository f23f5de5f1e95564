package shell

import (
	"strings"
	"unicode"

	"webdesk/pkg/metrics"
	"webdesk/pkg/vfs"
)

// Completion is the result of pressing tab. Options lists every candidate
// when the input was ambiguous.
type Completion struct {
	Completed string   `json:"completed"`
	Options   []string `json:"options,omitempty"`
}

// Complete proposes a completion for input. Without a space it completes
// command names; after a space it completes the last argument as a path for
// commands that allow it.
func (r *Registry) Complete(input string, fs *vfs.Session) Completion {
	res := r.complete(input, fs)
	switch {
	case len(res.Options) > 0:
		metrics.RecordCompletion("ambiguous")
	case res.Completed != input:
		metrics.RecordCompletion("unique")
	default:
		metrics.RecordCompletion("none")
	}
	return res
}

func (r *Registry) complete(input string, fs *vfs.Session) Completion {
	unchanged := Completion{Completed: input}

	trimmed := strings.TrimLeftFunc(input, unicode.IsSpace)
	if trimmed == "" {
		return unchanged
	}

	command, _ := ParseCommandLine(trimmed)
	lastSpace := strings.LastIndex(trimmed, " ")
	if lastSpace < 0 {
		var matches []string
		for _, name := range r.Names() {
			if strings.HasPrefix(name, strings.ToLower(command)) {
				matches = append(matches, name)
			}
		}
		return collapse(unchanged, "", matches, " ")
	}

	c, ok := r.commands[command]
	if !ok || !c.PathCompletion || fs == nil {
		return unchanged
	}

	prefix, partial := trimmed[:lastSpace+1], trimmed[lastSpace+1:]
	return collapse(unchanged, prefix, fs.Completions(partial), "")
}

// collapse turns candidates into a completion: a unique match is taken
// whole (plus suffix), several collapse to their common prefix.
func collapse(unchanged Completion, prefix string, matches []string, suffix string) Completion {
	switch len(matches) {
	case 0:
		return unchanged
	case 1:
		return Completion{Completed: prefix + matches[0] + suffix}
	default:
		return Completion{Completed: prefix + CommonPrefix(matches), Options: matches}
	}
}

// CommonPrefix returns the longest prefix, compared case-insensitively, that
// every option starts with. Its case is taken from the first option.
func CommonPrefix(options []string) string {
	if len(options) == 0 {
		return ""
	}

	prefix := []rune(options[0])
	for _, o := range options[1:] {
		lower := strings.ToLower(o)
		for !strings.HasPrefix(lower, strings.ToLower(string(prefix))) {
			prefix = prefix[:len(prefix)-1]
			if len(prefix) == 0 {
				return ""
			}
		}
	}
	return string(prefix)
}
