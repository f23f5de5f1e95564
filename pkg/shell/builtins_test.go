package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webdesk/pkg/apps"
	"webdesk/pkg/vfs"
	"webdesk/pkg/vfs/vfstest"
	"webdesk/pkg/wm"
)

type recordingOpener struct {
	apps []string
	opts []wm.OpenOptions
}

func (o *recordingOpener) OpenApp(appID string, opts wm.OpenOptions) (string, error) {
	o.apps = append(o.apps, appID)
	o.opts = append(o.opts, opts)
	return "window-1", nil
}

type recordingBrowser struct{ urls []string }

func (b *recordingBrowser) OpenURL(url string) { b.urls = append(b.urls, url) }

func newContext() (*Context, *recordingOpener, *recordingBrowser) {
	opener := &recordingOpener{}
	browser := &recordingBrowser{}
	return &Context{FS: vfs.NewSession(vfstest.Tree()), Windows: opener, Browser: browser}, opener, browser
}

func entryNames(out *Output) []string {
	var names []string
	for _, e := range out.Entries {
		names = append(names, e.Name)
	}
	return names
}

func TestExecuteEmptyAndUnknown(t *testing.T) {
	r := Default()
	ctx, _, _ := newContext()

	assert.Nil(t, r.Execute("", ctx))
	assert.Nil(t, r.Execute("   ", ctx))

	out := r.Execute("Frobnicate now", ctx)
	require.NotNil(t, out)
	assert.Equal(t, KindError, out.Kind)
	assert.Equal(t, "Command not found: frobnicate\nType help to see available commands.", out.Text)
}

func TestHelpListsVisibleCommands(t *testing.T) {
	r := Default()
	r.Register(Command{Name: "secret", Description: "hidden", Hidden: true, Run: func([]string, *Context) *Output { return nil }})

	out := r.Execute("help", nil)
	require.NotNil(t, out)
	assert.Equal(t, KindHelp, out.Kind)

	var names []string
	for _, c := range out.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"help", "pwd", "ls", "cd", "cat", "open", "clear"}, names)
	assert.Contains(t, out.String(), "Clear the terminal")
}

func TestRegisterWithoutRunPanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() { r.Register(Command{Name: "broken"}) })
	assert.Panics(t, func() { r.Register(Command{Run: runPwd}) })
}

func TestPwdAndCd(t *testing.T) {
	r := Default()
	ctx, _, _ := newContext()

	assert.Equal(t, "/home/visitor", r.Execute("pwd", ctx).Text)

	assert.Nil(t, r.Execute("cd Documents", ctx))
	assert.Equal(t, "/home/visitor/Documents", r.Execute("pwd", ctx).Text)

	assert.Nil(t, r.Execute("cd ..", ctx))
	assert.Equal(t, "/home/visitor", ctx.FS.Cwd())

	assert.Nil(t, r.Execute("cd /", ctx))
	assert.Nil(t, r.Execute("cd", ctx))
	assert.Equal(t, "/home/visitor", ctx.FS.Cwd())

	out := r.Execute("cd ../nowhere", ctx)
	require.NotNil(t, out)
	assert.Equal(t, KindError, out.Kind)
	assert.Equal(t, "cd: /home/nowhere: No such file or directory", out.Text)
	assert.Equal(t, "/home/visitor", ctx.FS.Cwd())

	out = r.Execute("cd GitHub", ctx)
	assert.Equal(t, "cd: /home/visitor/GitHub: No such file or directory", out.Text)
}

func TestLs(t *testing.T) {
	r := Default()
	ctx, _, _ := newContext()

	out := r.Execute("ls", ctx)
	require.NotNil(t, out)
	assert.Equal(t, KindListing, out.Kind)
	assert.Equal(t, []string{"Desktop", "Documents", "Projects", "GitHub", "photo.png"}, entryNames(out))
	assert.True(t, out.Entries[0].Folder)
	assert.Equal(t, vfs.FileTypeLink, out.Entries[3].FileType)
	assert.Equal(t, "Desktop/  Documents/  Projects/  GitHub  photo.png", out.String())

	out = r.Execute("ls /nonexistent", ctx)
	assert.Equal(t, KindError, out.Kind)
	assert.Equal(t, "ls: /nonexistent: No such file or directory", out.Text)

	out = r.Execute("ls Documents/../Projects", ctx)
	assert.Equal(t, []string{"webdesk"}, entryNames(out))
}

func TestCat(t *testing.T) {
	r := Default()
	ctx, _, _ := newContext()

	tests := []struct {
		in   string
		kind Kind
		text string
	}{
		{"cat", KindError, "cat: missing operand"},
		{"cat nope.txt", KindError, "cat: nope.txt: No such file or directory"},
		{"cat Documents", KindError, "cat: Documents: Is a directory"},
		{"cat Documents/Resume.pdf", KindInfo, "Documents/Resume.pdf is a PDF file. Use open Documents/Resume.pdf to view it."},
		{"cat /Applications/Terminal.app", KindInfo, "/Applications/Terminal.app is an application. Use open /Applications/Terminal.app to launch it."},
		{"cat Documents/empty.txt", KindInfo, "(empty file)"},
		{"cat Desktop/notes.txt", KindContent, "remember the milk"},
	}

	for _, tt := range tests {
		out := r.Execute(tt.in, ctx)
		require.NotNil(t, out, tt.in)
		assert.Equal(t, tt.kind, out.Kind, tt.in)
		assert.Equal(t, tt.text, out.Text, tt.in)
	}
}

func TestOpen(t *testing.T) {
	r := Default()
	ctx, opener, browser := newContext()

	assert.Equal(t, "open: missing operand", r.Execute("open", ctx).Text)
	assert.Equal(t, "open: ghost: No such file or directory", r.Execute("open ghost", ctx).Text)

	assert.Nil(t, r.Execute("open Documents", ctx))
	assert.Equal(t, "/home/visitor/Documents", ctx.FS.Cwd())

	out := r.Execute("open README.md", ctx)
	assert.Equal(t, "Opening README.md...", out.Text)
	require.Equal(t, []string{apps.TextEdit}, opener.apps)
	assert.Equal(t, "README.md", opener.opts[0].Title)
	assert.Equal(t, "# Hello\n\nWelcome to the desktop.", opener.opts[0].Data["content"])

	out = r.Execute("open ~/GitHub", ctx)
	assert.Equal(t, "Opening GitHub in new tab...", out.Text)
	assert.Equal(t, []string{"https://github.com/visitor"}, browser.urls)

	out = r.Execute("open /Applications/Wordle.app", ctx)
	assert.Equal(t, "Opening Wordle.app...", out.Text)
	assert.Equal(t, apps.Wordle, opener.apps[len(opener.apps)-1])

	out = r.Execute("open ~/photo.png", ctx)
	assert.Equal(t, KindInfo, out.Kind)
	assert.Equal(t, "Cannot open photo.png", out.Text)
}

func TestResumeScenario(t *testing.T) {
	r := Default()
	ctx, opener, _ := newContext()

	assert.Contains(t, entryNames(r.Execute("ls", ctx)), "Documents")
	assert.Nil(t, r.Execute("cd Documents", ctx))
	assert.Contains(t, entryNames(r.Execute("ls", ctx)), "Resume.pdf")
	assert.Equal(t, KindInfo, r.Execute("cat Resume.pdf", ctx).Kind)

	r.Execute("open Resume.pdf", ctx)
	require.Equal(t, []string{apps.Preview}, opener.apps)
	assert.Equal(t, "/files/Resume.pdf", opener.opts[0].Data["url"])
}

func TestCommandsWithoutFilesystem(t *testing.T) {
	r := Default()
	ctx := &Context{}

	for _, in := range []string{"pwd", "ls", "cd x", "cat x", "open x"} {
		out := r.Execute(in, ctx)
		require.NotNil(t, out, in)
		assert.Equal(t, KindError, out.Kind, in)
		assert.Equal(t, "File system not available", out.Text, in)
	}
}

func TestClearSignalsCaller(t *testing.T) {
	out := Default().Execute("CLEAR", nil)
	require.NotNil(t, out)
	assert.Equal(t, KindClear, out.Kind)
}

func TestPendingTreeDegradesToNotFound(t *testing.T) {
	r := Default()
	ctx := &Context{FS: vfs.NewSession(vfs.NewPendingTree())}

	assert.Equal(t, "ls: /home/visitor: No such file or directory", r.Execute("ls", ctx).Text)
	assert.Equal(t, "cat: a: No such file or directory", r.Execute("cat a", ctx).Text)
}
