// Package terminal implements a terminal window's session: the log of
// executed commands, input history, tab completion and the boot phases that
// gate when the prompt accepts input.
package terminal

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"webdesk/pkg/apps"
	"webdesk/pkg/logging"
	"webdesk/pkg/shell"
	"webdesk/pkg/vfs"
)

// Entry is one executed command line. Path is the working directory at the
// moment the command started.
type Entry struct {
	ID      string        `json:"id"`
	Command string        `json:"command"`
	Output  *shell.Output `json:"output,omitempty"`
	Path    string        `json:"path"`
}

// Config holds what a session needs.
type Config struct {
	Registry *shell.Registry
	FS       *vfs.Session
	Windows  apps.Opener
	Browser  apps.Browser
	// SkipBoot starts the session in PhaseReady.
	SkipBoot bool
	Logger   *zap.Logger
}

// Session is the state behind one terminal window. It is not safe for
// concurrent use; the owning desktop serializes access.
type Session struct {
	registry *shell.Registry
	fs       *vfs.Session
	windows  apps.Opener
	browser  apps.Browser
	logger   *zap.Logger

	phase   Phase
	entries []Entry
	history *History
	input   string
	options []string
}

// New creates a session.
func New(cfg Config) *Session {
	if cfg.Registry == nil {
		cfg.Registry = shell.Default()
	}
	s := &Session{
		registry: cfg.Registry,
		fs:       cfg.FS,
		windows:  cfg.Windows,
		browser:  cfg.Browser,
		logger:   logging.OrNop(cfg.Logger).Named("terminal"),
		history:  NewHistory(),
	}
	if cfg.SkipBoot {
		s.phase = PhaseReady
	}
	return s
}

// FS returns the session's filesystem cursor.
func (s *Session) FS() *vfs.Session { return s.fs }

// Phase returns the boot phase.
func (s *Session) Phase() Phase { return s.phase }

// Advance moves to the next boot phase. It is driven by the front-end's
// timers and is a no-op once ready.
func (s *Session) Advance() Phase {
	if s.phase < PhaseReady {
		s.phase++
	}
	return s.phase
}

// Cwd returns the current directory, or "/" without a filesystem.
func (s *Session) Cwd() string {
	if s.fs == nil {
		return vfs.Root
	}
	return s.fs.Cwd()
}

// Prompt renders the prompt for the current directory.
func (s *Session) Prompt() string {
	return PromptFor(s.Cwd())
}

// PromptFor renders the prompt shown for a command run in dir.
func PromptFor(dir string) string {
	return "visitor@webdesk:" + vfs.Display(dir) + "$"
}

// Input returns the line being edited.
func (s *Session) Input() string { return s.input }

// SetInput replaces the line being edited. It does not move the history cursor.
func (s *Session) SetInput(v string) {
	s.input = v
	s.options = nil
}

// Options returns the candidates of the last ambiguous completion.
func (s *Session) Options() []string { return s.options }

// History returns the command history.
func (s *Session) History() *History { return s.history }

// Entries returns a copy of the log.
func (s *Session) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear discards the log.
func (s *Session) Clear() {
	s.entries = nil
}

// Submit runs a command line and returns the entry it appended, or nil when
// the line was a clear. Non-empty lines are added to the history.
func (s *Session) Submit(input string) *Entry {
	trimmed := strings.TrimSpace(input)
	if trimmed != "" {
		s.history.Push(trimmed)
	}
	s.options = nil

	if strings.EqualFold(trimmed, "clear") {
		s.Clear()
		return nil
	}

	path := s.Cwd()
	out := s.registry.Execute(input, &shell.Context{
		FS:      s.fs,
		Windows: s.windows,
		Browser: s.browser,
	})
	if out != nil && out.Kind == shell.KindClear {
		s.Clear()
		return nil
	}

	s.logger.Debug("command", zap.String("input", trimmed), zap.String("path", path))
	e := Entry{
		ID:      uuid.NewString(),
		Command: input,
		Output:  out,
		Path:    path,
	}
	s.entries = append(s.entries, e)
	return &e
}

// Complete applies tab completion to the current input.
func (s *Session) Complete() shell.Completion {
	res := s.registry.Complete(s.input, s.fs)
	s.input = res.Completed
	s.options = res.Options
	return res
}

// HistoryUp recalls the previous command into the input.
func (s *Session) HistoryUp() {
	if line, ok := s.history.Up(); ok {
		s.SetInput(line)
	}
}

// HistoryDown recalls the next command, clearing the input past the newest.
func (s *Session) HistoryDown() {
	if line, ok := s.history.Down(); ok {
		s.SetInput(line)
	}
}

// HandleKey feeds one key press to the session. While booting any key jumps
// to the welcome screen, and on the welcome screen any key makes the prompt
// ready; those keys are consumed. It reports whether the key was used.
func (s *Session) HandleKey(k Key) bool {
	switch s.phase {
	case PhaseBooting, PhaseWelcome:
		s.phase++
		return true
	}

	switch k.Type {
	case KeyRune:
		s.SetInput(s.input + k.Runes)
	case KeyBackspace:
		if r := []rune(s.input); len(r) > 0 {
			s.SetInput(string(r[:len(r)-1]))
		}
	case KeyEnter:
		line := s.input
		s.SetInput("")
		s.Submit(line)
	case KeyUp:
		s.HistoryUp()
	case KeyDown:
		s.HistoryDown()
	case KeyTab:
		s.Complete()
	case KeyCtrlC:
		s.SetInput("")
		s.Clear()
	default:
		return false
	}
	return true
}

// View is a renderable snapshot of the session.
type View struct {
	Phase   Phase    `json:"phase"`
	Prompt  string   `json:"prompt"`
	Cwd     string   `json:"cwd"`
	Input   string   `json:"input"`
	Options []string `json:"options,omitempty"`
	Entries []Entry  `json:"entries"`
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	return View{
		Phase:   s.phase,
		Prompt:  s.Prompt(),
		Cwd:     s.Cwd(),
		Input:   s.input,
		Options: s.options,
		Entries: s.Entries(),
	}
}
