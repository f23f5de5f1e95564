package tui

import (
	"strings"

	"webdesk/pkg/shell"
	"webdesk/pkg/terminal"
)

func (m Model) renderTerminal(view terminal.View) string {
	var b strings.Builder
	switch view.Phase {
	case terminal.PhaseBooting:
		for _, step := range terminal.BootSequence {
			if step.Delay > m.elapsed {
				break
			}
			mark := m.styles.Info.Render("[..]")
			if step.Done {
				mark = m.styles.Done.Render("[ok]")
			}
			b.WriteString(mark + " " + step.Text + "\n")
		}
		return b.String()
	case terminal.PhaseWelcome:
		for _, line := range terminal.WelcomeLines {
			b.WriteString(m.styles.Banner.Render(line) + "\n")
		}
		b.WriteString("\n" + m.styles.Info.Render("Press any key to continue."))
		return b.String()
	}

	for _, e := range view.Entries {
		b.WriteString(m.styles.Prompt.Render(terminal.PromptFor(e.Path)))
		b.WriteString(" " + m.styles.Command.Render(e.Command) + "\n")
		if out := m.renderOutput(e.Output); out != "" {
			b.WriteString(out + "\n")
		}
	}
	for _, n := range m.notices {
		b.WriteString(m.styles.Info.Render(n) + "\n")
	}
	for _, l := range m.links {
		b.WriteString(m.styles.Link.Render(l) + "\n")
	}
	b.WriteString(m.styles.Prompt.Render(view.Prompt) + " " + view.Input + "█")
	if len(view.Options) > 0 {
		b.WriteString("\n" + m.styles.Info.Render(strings.Join(view.Options, "  ")))
	}
	return b.String()
}

func (m Model) renderOutput(out *shell.Output) string {
	if out == nil {
		return ""
	}
	switch out.Kind {
	case shell.KindInfo:
		return m.styles.Info.Render(out.Text)
	case shell.KindError:
		return m.styles.Error.Render(out.Text)
	case shell.KindContent:
		return m.styles.Content.Render(out.Text)
	case shell.KindListing:
		names := make([]string, 0, len(out.Entries))
		for _, e := range out.Entries {
			if e.Folder {
				names = append(names, m.styles.Folder.Render(e.Name+"/"))
			} else {
				names = append(names, m.styles.File.Render(e.Name))
			}
		}
		return strings.Join(names, "  ")
	case shell.KindHelp:
		var b strings.Builder
		for i, c := range out.Commands {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.styles.Help.Render(c.Name) + c.Description)
		}
		return b.String()
	}
	return out.Text
}
