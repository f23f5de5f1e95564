package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webdesk/pkg/apps"
	"webdesk/pkg/desktop"
	"webdesk/pkg/terminal"
	"webdesk/pkg/vfs/vfstest"
)

var start = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newModel(t *testing.T, skipBoot bool) Model {
	t.Helper()
	d := desktop.New(desktop.Config{Tree: vfstest.Tree(), SkipBoot: skipBoot})
	m, err := New(d, start)
	require.NoError(t, err)
	return m
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typed(s string) []tea.Msg {
	return []tea.Msg{
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)},
		tea.KeyMsg{Type: tea.KeyEnter},
	}
}

func TestBootSequence(t *testing.T) {
	m := newModel(t, false)
	assert.Equal(t, terminal.PhaseBooting, m.phase())

	m = send(t, m, tickMsg(start.Add(time.Second)))
	assert.Contains(t, m.View(), "Connection established")
	assert.NotContains(t, m.View(), "Terminal ready")

	m = send(t, m, tickMsg(start.Add(6*time.Second)))
	assert.Equal(t, terminal.PhaseWelcome, m.phase())
	assert.Contains(t, m.View(), "Press any key")

	_, cmd := m.Update(tickMsg(start.Add(7 * time.Second)))
	assert.Nil(t, cmd, "ticking stops after the boot")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, terminal.PhaseReady, m.phase())
}

func TestCommandOutput(t *testing.T) {
	m := newModel(t, true)
	m = send(t, m, typed("ls")...)
	assert.Contains(t, m.View(), "Documents/")
	assert.Contains(t, m.View(), "photo.png")

	m = send(t, m, typed("cat nope")...)
	assert.Contains(t, m.View(), "No such file or directory")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotContains(t, m.View(), "photo.png")
}

func TestTabOptionsShown(t *testing.T) {
	m := newModel(t, true)
	m = send(t, m,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cd De")},
		tea.KeyMsg{Type: tea.KeyTab},
	)
	assert.Contains(t, m.View(), "cd Desktop/")
}

func TestDocumentViewer(t *testing.T) {
	m := newModel(t, true)
	m = send(t, m, typed("open Documents/README.md")...)
	require.NotNil(t, m.doc)
	assert.Equal(t, "README.md", m.doc.title)
	assert.Contains(t, m.View(), "README.md")
	assert.Contains(t, m.View(), "esc close")
	assert.Len(t, m.desk.State().WindowsForApp(apps.TextEdit), 1)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, m.doc, "typing does not reach the terminal while reading")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.doc)
	assert.Empty(t, m.desk.State().WindowsForApp(apps.TextEdit))
	assert.Equal(t, m.WindowID(), m.desk.State().Focused)

	m = send(t, m, typed("pwd")...)
	assert.Contains(t, m.View(), "/home/visitor")
}

func TestOtherWindowsHandBackFocus(t *testing.T) {
	m := newModel(t, true)
	m = send(t, m, typed("open Documents/Resume.pdf")...)
	assert.Nil(t, m.doc)
	assert.Contains(t, m.View(), "Opened Resume.pdf")
	assert.Equal(t, m.WindowID(), m.desk.State().Focused)

	m = send(t, m, typed("open GitHub")...)
	assert.Equal(t, []string{"https://github.com/visitor"}, m.Links())
	assert.Contains(t, m.View(), "https://github.com/visitor")
}

func TestQuit(t *testing.T) {
	m := newModel(t, true)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want terminal.Key
		ok   bool
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, terminal.Key{Type: terminal.KeyRune, Runes: "ab"}, true},
		{tea.KeyMsg{Type: tea.KeySpace}, terminal.Key{Type: terminal.KeyRune, Runes: " "}, true},
		{tea.KeyMsg{Type: tea.KeyBackspace}, terminal.Key{Type: terminal.KeyBackspace}, true},
		{tea.KeyMsg{Type: tea.KeyTab}, terminal.Key{Type: terminal.KeyTab}, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, terminal.Key{Type: terminal.KeyCtrlC}, true},
		{tea.KeyMsg{Type: tea.KeyF1}, terminal.Key{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			got, ok := keyFor(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
