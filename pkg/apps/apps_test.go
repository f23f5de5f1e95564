package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

type browserFunc func(string)

func (f browserFunc) OpenURL(url string) { f(url) }

func TestDefinitions(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{Terminal, Finder, TextEdit, Preview, Wordle} {
		_, ok := reg.Lookup(id)
		assert.True(t, ok, id)
	}

	term, _ := reg.Lookup(Terminal)
	assert.True(t, term.Singleton)
	edit, _ := reg.Lookup(TextEdit)
	assert.False(t, edit.Singleton)
}

func TestOpenFile(t *testing.T) {
	m := wm.NewManager(wm.Config{Registry: NewRegistry()})

	var opened []string
	browser := browserFunc(func(url string) { opened = append(opened, url) })

	t.Run("markdown opens textedit", func(t *testing.T) {
		res, ok := OpenFile(vfs.NewFile("README.md", vfs.FileTypeMarkdown, "# Hi", ""), m, browser)
		require.True(t, ok)
		assert.Equal(t, "Opening README.md...", res.Message)

		w, _ := m.State().Window(res.WindowID)
		assert.Equal(t, TextEdit, w.AppID)
		assert.Equal(t, "README.md", w.Title)
		data, ok := TextEditDataFrom(w.Data)
		require.True(t, ok)
		assert.Equal(t, TextEditData{FileName: "README.md", FileType: vfs.FileTypeMarkdown, Content: "# Hi"}, data)
	})

	t.Run("pdf opens preview", func(t *testing.T) {
		res, ok := OpenFile(vfs.NewFile("Resume.pdf", vfs.FileTypePDF, "", "/files/Resume.pdf"), m, browser)
		require.True(t, ok)

		w, _ := m.State().Window(res.WindowID)
		assert.Equal(t, Preview, w.AppID)
		data, ok := PreviewDataFrom(w.Data)
		require.True(t, ok)
		assert.Equal(t, "/files/Resume.pdf", data.URL)
	})

	t.Run("executable launches its app", func(t *testing.T) {
		res, ok := OpenFile(vfs.NewFile("Finder.app", vfs.FileTypeExecutable, "finder", ""), m, browser)
		require.True(t, ok)
		assert.Equal(t, "Opening Finder.app...", res.Message)
		w, _ := m.State().Window(res.WindowID)
		assert.Equal(t, Finder, w.AppID)
	})

	t.Run("link opens browser", func(t *testing.T) {
		res, ok := OpenFile(vfs.NewFile("GitHub", vfs.FileTypeLink, "", "https://github.com"), m, browser)
		require.True(t, ok)
		assert.Equal(t, "Opening GitHub in new tab...", res.Message)
		assert.Equal(t, []string{"https://github.com"}, opened)
	})

	t.Run("cannot open", func(t *testing.T) {
		cases := []*vfs.File{
			vfs.NewFile("photo.png", vfs.FileTypeImage, "", "/p.png"),
			vfs.NewFile("broken.pdf", vfs.FileTypePDF, "", ""),
			vfs.NewFile("nothing.app", vfs.FileTypeExecutable, "", ""),
			vfs.NewFile("ghost.app", vfs.FileTypeExecutable, "ghost", ""),
		}
		for _, f := range cases {
			_, ok := OpenFile(f, m, browser)
			assert.False(t, ok, f.Name())
		}

		_, ok := OpenFile(vfs.NewFile("a.md", vfs.FileTypeMarkdown, "", ""), nil, browser)
		assert.False(t, ok)
		_, ok = OpenFile(vfs.NewFile("l", vfs.FileTypeLink, "", "https://x"), m, nil)
		assert.False(t, ok)
	})
}
