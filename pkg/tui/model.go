// Package tui drives a desktop from a local terminal. Its one terminal
// window takes the keyboard; text documents opened from it are shown full
// screen until Esc closes them, and external links are printed.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"webdesk/pkg/apps"
	"webdesk/pkg/desktop"
	"webdesk/pkg/terminal"
	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

const tickInterval = 100 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// document is a text viewer window shown over the terminal.
type document struct {
	windowID string
	title    string
	body     string
}

// Model is the bubbletea model of the terminal UI.
type Model struct {
	desk   *desktop.Desktop
	term   string
	styles Styles

	viewport viewport.Model
	width    int
	height   int

	bootStart time.Time
	elapsed   time.Duration
	doc       *document
	notices   []string
	links     []string
	quitting  bool
}

// New opens a terminal window on d and returns a model driving it.
func New(d *desktop.Desktop, now time.Time) (Model, error) {
	id, err := d.OpenApp(apps.Terminal, wm.OpenOptions{})
	if err != nil {
		return Model{}, fmt.Errorf("open terminal: %w", err)
	}
	m := Model{
		desk:      d,
		term:      id,
		styles:    DefaultStyles(),
		viewport:  viewport.New(80, 22),
		width:     80,
		height:    24,
		bootStart: now,
	}
	m.refresh()
	return m, nil
}

// Run starts the program on the alternate screen and blocks until it quits.
func Run(d *desktop.Desktop) error {
	m, err := New(d, time.Now())
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// WindowID returns the id of the terminal window.
func (m Model) WindowID() string { return m.term }

// Links returns the external links opened so far.
func (m Model) Links() []string { return m.links }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		if m.doc != nil {
			m.doc.body = m.renderDocument(m.doc.windowID)
		}
		m.refresh()
		return m, nil

	case tickMsg:
		if !m.advanceBoot(time.Time(msg)) {
			return m, nil
		}
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// advanceBoot moves the terminal past the boot screen once its sequence has
// played. It reports whether the boot is still running.
func (m *Model) advanceBoot(now time.Time) bool {
	if m.phase() != terminal.PhaseBooting {
		return false
	}
	m.elapsed = now.Sub(m.bootStart)
	if m.elapsed >= terminal.BootDuration+terminal.FadeDelay {
		m.desk.WithTerminal(m.term, func(s *terminal.Session) { s.Advance() })
	}
	return true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlD {
		m.quitting = true
		return m, tea.Quit
	}

	if m.doc != nil {
		switch msg.Type {
		case tea.KeyEsc:
			m.desk.Dispatch(wm.CloseWindow{ID: m.doc.windowID})
			m.doc = nil
			m.refresh()
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	k, ok := keyFor(msg)
	if !ok {
		return m, nil
	}
	if _, _, err := m.desk.HandleKey(k); err != nil {
		// Something else took focus; give it back.
		m.desk.Dispatch(wm.FocusWindow{ID: m.term})
		m.desk.HandleKey(k)
	}
	m.collect()
	m.refresh()
	return m, nil
}

// collect picks up what the last command did outside the terminal: links
// to print and windows it opened.
func (m *Model) collect() {
	m.links = append(m.links, m.desk.Effects()...)

	state := m.desk.State()
	focused, ok := state.Window(state.Focused)
	if !ok || focused.ID == m.term {
		return
	}
	if focused.AppID == apps.TextEdit {
		if data, ok := apps.TextEditDataFrom(focused.Data); ok {
			m.doc = &document{windowID: focused.ID, title: data.FileName}
			m.doc.body = m.renderDocument(focused.ID)
			m.viewport.GotoTop()
			return
		}
	}
	m.notices = append(m.notices, fmt.Sprintf("Opened %s (%s)", focused.Title, focused.ID))
	m.desk.Dispatch(wm.FocusWindow{ID: m.term})
}

func (m Model) renderDocument(windowID string) string {
	w, ok := m.desk.State().Window(windowID)
	if !ok {
		return ""
	}
	data, _ := apps.TextEditDataFrom(w.Data)
	if data.FileType != vfs.FileTypeMarkdown {
		return data.Content
	}
	return renderMarkdown(data.Content, m.width)
}

func renderMarkdown(content string, width int) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = content
		}
	}()
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// keyFor translates a bubbletea key into a terminal key.
func keyFor(msg tea.KeyMsg) (terminal.Key, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return terminal.Key{Type: terminal.KeyRune, Runes: string(msg.Runes)}, true
	case tea.KeySpace:
		return terminal.Key{Type: terminal.KeyRune, Runes: " "}, true
	case tea.KeyBackspace:
		return terminal.Key{Type: terminal.KeyBackspace}, true
	case tea.KeyEnter:
		return terminal.Key{Type: terminal.KeyEnter}, true
	case tea.KeyUp:
		return terminal.Key{Type: terminal.KeyUp}, true
	case tea.KeyDown:
		return terminal.Key{Type: terminal.KeyDown}, true
	case tea.KeyTab:
		return terminal.Key{Type: terminal.KeyTab}, true
	case tea.KeyCtrlC:
		return terminal.Key{Type: terminal.KeyCtrlC}, true
	case tea.KeyEsc:
		return terminal.Key{Type: terminal.KeyEscape}, true
	}
	return terminal.Key{}, false
}

func (m Model) phase() terminal.Phase {
	var p terminal.Phase
	m.desk.WithTerminal(m.term, func(s *terminal.Session) { p = s.Phase() })
	return p
}

func (m *Model) refresh() {
	if m.doc != nil {
		m.viewport.SetContent(m.doc.body)
		return
	}
	var view terminal.View
	m.desk.WithTerminal(m.term, func(s *terminal.Session) { view = s.View() })
	m.viewport.SetContent(m.renderTerminal(view))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	if m.doc != nil {
		b.WriteString(m.styles.Header.Render(m.doc.title))
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render("esc close • ↑/↓ scroll • ctrl+d quit"))
		return b.String()
	}
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("tab complete • ctrl+c clear • ctrl+d quit"))
	return b.String()
}
