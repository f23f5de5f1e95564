package finder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webdesk/pkg/apps"
	"webdesk/pkg/vfs"
	"webdesk/pkg/vfs/vfstest"
	"webdesk/pkg/wm"
)

type urls []string

func (u *urls) OpenURL(url string) { *u = append(*u, url) }

func newFinder(t *testing.T) (*Finder, *wm.Manager, *urls) {
	t.Helper()
	m := wm.NewManager(wm.Config{Registry: apps.NewRegistry()})
	b := &urls{}
	return New(Config{Tree: vfstest.Tree(), Windows: m, Browser: b}), m, b
}

func names(nodes []vfs.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func TestNavigationHistory(t *testing.T) {
	f, _, _ := newFinder(t)
	assert.Equal(t, vfs.HomePath, f.Cwd())
	assert.False(t, f.CanGoBack())
	assert.False(t, f.CanGoForward())

	require.True(t, f.NavigateTo("Documents"))
	require.True(t, f.NavigateTo("/Applications"))
	assert.True(t, f.CanGoBack())

	assert.True(t, f.Back())
	assert.Equal(t, "/home/visitor/Documents", f.Cwd())
	assert.True(t, f.CanGoForward())

	assert.True(t, f.Forward())
	assert.Equal(t, "/Applications", f.Cwd())
	assert.False(t, f.Forward())

	f.Back()
	f.Back()
	assert.Equal(t, vfs.HomePath, f.Cwd())
	assert.False(t, f.Back())

	require.True(t, f.NavigateTo("Projects"))
	history, index := f.History()
	assert.Equal(t, []string{vfs.HomePath, "/home/visitor/Projects"}, history)
	assert.Equal(t, 1, index)
	assert.False(t, f.CanGoForward(), "navigating drops forward history")
}

func TestNavigateToFailure(t *testing.T) {
	f, _, _ := newFinder(t)
	f.Select("Documents")

	assert.False(t, f.NavigateTo("photo.png"))
	assert.False(t, f.NavigateTo("missing"))
	assert.Equal(t, vfs.HomePath, f.Cwd())
	assert.Equal(t, "Documents", f.Selected(), "failed navigation keeps the selection")

	history, _ := f.History()
	assert.Len(t, history, 1)
}

func TestItemsAndSelection(t *testing.T) {
	f, _, _ := newFinder(t)

	assert.Equal(t,
		[]string{"Desktop", "Documents", "Projects", "GitHub", "photo.png"},
		names(f.Items()))

	assert.True(t, f.Select("photo.png"))
	assert.Equal(t, "photo.png", f.Selected())
	assert.False(t, f.Select("nope"))
	assert.Equal(t, "", f.Selected())

	f.Select("Desktop")
	f.NavigateTo("Desktop")
	assert.Equal(t, "", f.Selected())
}

func TestActivate(t *testing.T) {
	f, m, b := newFinder(t)

	_, ok := f.Activate("Documents")
	require.True(t, ok)
	assert.Equal(t, "/home/visitor/Documents", f.Cwd())
	assert.True(t, f.CanGoBack())

	res, ok := f.Activate("README.md")
	require.True(t, ok)
	assert.Equal(t, "Opening README.md...", res.Message)
	w, found := m.State().Window(res.WindowID)
	require.True(t, found)
	assert.Equal(t, apps.TextEdit, w.AppID)

	res, ok = f.Activate("Resume.pdf")
	require.True(t, ok)
	w, _ = m.State().Window(res.WindowID)
	assert.Equal(t, apps.Preview, w.AppID)

	_, ok = f.Activate("missing")
	assert.False(t, ok)

	f.Back()
	_, ok = f.Activate("GitHub")
	require.True(t, ok)
	assert.Equal(t, urls{"https://github.com/visitor"}, *b)

	_, ok = f.Activate("photo.png")
	assert.False(t, ok, "images have no viewer")
}

func TestViewMode(t *testing.T) {
	f, _, _ := newFinder(t)
	assert.Equal(t, ViewIcons, f.Mode())
	assert.True(t, f.SetMode(ViewList))
	assert.False(t, f.SetMode("columns"))
	assert.Equal(t, ViewList, f.Mode())
}

func TestBreadcrumbs(t *testing.T) {
	assert.Equal(t, []Crumb{{Name: "/", Path: "/"}}, Breadcrumbs("/"))
	assert.Equal(t, []Crumb{
		{Name: "/", Path: "/"},
		{Name: "home", Path: "/home"},
		{Name: "visitor", Path: "/home/visitor"},
		{Name: "Documents", Path: "/home/visitor/Documents"},
	}, Breadcrumbs("/home/visitor/Documents"))
}

func TestView(t *testing.T) {
	f, _, _ := newFinder(t)
	f.NavigateTo("Documents")
	f.Select("README.md")

	v := f.View()
	assert.Equal(t, "/home/visitor/Documents", v.Path)
	assert.True(t, v.CanGoBack)
	assert.Len(t, v.Breadcrumbs, 4)
	assert.Equal(t, Favorites, v.Favorites)
	require.Len(t, v.Items, 4)
	assert.Equal(t, Item{Name: "empty.txt", FileType: vfs.FileTypeText}, v.Items[0])
	assert.Equal(t, Item{Name: "README.md", FileType: vfs.FileTypeMarkdown, Selected: true}, v.Items[1])
	assert.Equal(t, vfs.FileTypePDF, v.Items[3].FileType)
}
