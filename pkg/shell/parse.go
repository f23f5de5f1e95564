package shell

import (
	"strings"
	"unicode"
)

// ParseCommandLine splits input into a lowercased command and its arguments.
// Single and double quotes group words; the quote characters are dropped and
// an unterminated quote runs to the end of the input.
func ParseCommandLine(input string) (command string, args []string) {
	var (
		parts   []string
		current strings.Builder
		quote   rune
	)

	for _, r := range strings.TrimSpace(input) {
		switch {
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && unicode.IsSpace(r):
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	if len(parts) == 0 {
		return "", nil
	}
	return strings.ToLower(parts[0]), parts[1:]
}
