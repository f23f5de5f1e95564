package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		in      string
		command string
		args    []string
	}{
		{"", "", nil},
		{"   ", "", nil},
		{"ls", "ls", []string{}},
		{"LS Documents", "ls", []string{"Documents"}},
		{"  cd   ~/Projects  ", "cd", []string{"~/Projects"}},
		{`cat "My File.txt"`, "cat", []string{"My File.txt"}},
		{`cat 'a b' c`, "cat", []string{"a b", "c"}},
		{`echo "it's"`, "echo", []string{"it's"}},
		{`open "unterminated quote`, "open", []string{"unterminated quote"}},
		{`open pre"fix mid"dle`, "open", []string{"prefix middle"}},
		{"ls\tDocuments", "ls", []string{"Documents"}},
		{`""`, "", nil},
	}

	for _, tt := range tests {
		command, args := ParseCommandLine(tt.in)
		assert.Equal(t, tt.command, command, tt.in)
		if tt.command != "" {
			assert.Equal(t, tt.args, args, tt.in)
		}
	}
}
