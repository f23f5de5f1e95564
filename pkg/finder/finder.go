// Package finder implements the state behind a Finder window: an
// independent filesystem cursor with back/forward history, a selection and
// the sidebar and breadcrumb models.
package finder

import (
	"webdesk/pkg/apps"
	"webdesk/pkg/vfs"
)

// ViewMode selects how items are laid out.
type ViewMode string

const (
	ViewIcons ViewMode = "icons"
	ViewList  ViewMode = "list"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	return m == ViewIcons || m == ViewList
}

// Place is a sidebar shortcut.
type Place struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Sidebar groups.
var (
	Favorites = []Place{
		{Name: "Home", Path: vfs.HomePath},
		{Name: "Desktop", Path: vfs.HomePath + "/Desktop"},
		{Name: "Documents", Path: vfs.HomePath + "/Documents"},
		{Name: "Projects", Path: vfs.HomePath + "/Projects"},
	}
	Locations = []Place{
		{Name: "Applications", Path: "/Applications"},
	}
)

// Crumb is one segment of the location bar.
type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Breadcrumbs splits p into the root followed by each cumulative prefix.
func Breadcrumbs(p string) []Crumb {
	crumbs := []Crumb{{Name: vfs.Root, Path: vfs.Root}}
	path := ""
	for _, seg := range vfs.Segments(p) {
		path += "/" + seg
		crumbs = append(crumbs, Crumb{Name: seg, Path: path})
	}
	return crumbs
}

// Config holds the collaborators a Finder opens files through.
type Config struct {
	Tree    *vfs.Tree
	Windows apps.Opener
	Browser apps.Browser
}

// Finder is not safe for concurrent use.
type Finder struct {
	fs       *vfs.Session
	windows  apps.Opener
	browser  apps.Browser
	history  []string
	index    int
	selected string
	mode     ViewMode
}

// New returns a Finder positioned at the home directory.
func New(cfg Config) *Finder {
	fs := vfs.NewSession(cfg.Tree)
	return &Finder{
		fs:      fs,
		windows: cfg.Windows,
		browser: cfg.Browser,
		history: []string{fs.Cwd()},
		mode:    ViewIcons,
	}
}

// Cwd returns the folder being shown.
func (f *Finder) Cwd() string { return f.fs.Cwd() }

// NavigateTo moves to a folder, relative paths resolving against the current
// one. On success the forward history is discarded and the new location
// pushed. The selection is cleared.
func (f *Finder) NavigateTo(p string) bool {
	if !f.fs.Navigate(p) {
		return false
	}
	f.history = append(f.history[:f.index+1], f.fs.Cwd())
	f.index++
	f.selected = ""
	return true
}

// CanGoBack reports whether Back would move.
func (f *Finder) CanGoBack() bool { return f.index > 0 }

// CanGoForward reports whether Forward would move.
func (f *Finder) CanGoForward() bool { return f.index < len(f.history)-1 }

// Back returns to the previous location.
func (f *Finder) Back() bool {
	if !f.CanGoBack() {
		return false
	}
	f.index--
	f.fs.Navigate(f.history[f.index])
	f.selected = ""
	return true
}

// Forward undoes a Back.
func (f *Finder) Forward() bool {
	if !f.CanGoForward() {
		return false
	}
	f.index++
	f.fs.Navigate(f.history[f.index])
	f.selected = ""
	return true
}

// History returns the visited locations and the current index.
func (f *Finder) History() ([]string, int) {
	out := make([]string, len(f.history))
	copy(out, f.history)
	return out, f.index
}

// Items lists the current folder, folders first.
func (f *Finder) Items() []vfs.Node {
	nodes, _ := f.fs.List("")
	return nodes
}

// Select marks an item of the current folder. Unknown names clear the
// selection and report false.
func (f *Finder) Select(name string) bool {
	if _, ok := f.child(name); !ok {
		f.selected = ""
		return false
	}
	f.selected = name
	return true
}

// Selected returns the selected item name, or "".
func (f *Finder) Selected() string { return f.selected }

// Mode returns the view mode.
func (f *Finder) Mode() ViewMode { return f.mode }

// SetMode changes the view mode, ignoring unknown values.
func (f *Finder) SetMode(m ViewMode) bool {
	if !m.Valid() {
		return false
	}
	f.mode = m
	return true
}

// Activate opens an item of the current folder: folders are entered, files
// are opened the same way the open command does.
func (f *Finder) Activate(name string) (apps.OpenResult, bool) {
	node, _ := f.child(name)
	switch n := node.(type) {
	case *vfs.Folder:
		return apps.OpenResult{}, f.NavigateTo(n.Name())
	case *vfs.File:
		return apps.OpenFile(n, f.windows, f.browser)
	default:
		return apps.OpenResult{}, false
	}
}

func (f *Finder) child(name string) (vfs.Node, bool) {
	folder, ok := f.fs.Tree().Folder(f.fs.Cwd())
	if !ok {
		return nil, false
	}
	return folder.Child(name)
}

// Item is a rendered folder entry.
type Item struct {
	Name     string       `json:"name"`
	Folder   bool         `json:"folder"`
	FileType vfs.FileType `json:"fileType,omitempty"`
	Selected bool         `json:"selected,omitempty"`
}

// View is a renderable snapshot of a Finder.
type View struct {
	Path         string   `json:"path"`
	Mode         ViewMode `json:"viewMode"`
	CanGoBack    bool     `json:"canGoBack"`
	CanGoForward bool     `json:"canGoForward"`
	Breadcrumbs  []Crumb  `json:"breadcrumbs"`
	Favorites    []Place  `json:"favorites"`
	Locations    []Place  `json:"locations"`
	Items        []Item   `json:"items"`
}

// View returns a snapshot of the Finder.
func (f *Finder) View() View {
	nodes := f.Items()
	items := make([]Item, 0, len(nodes))
	for _, n := range nodes {
		it := Item{Name: n.Name(), Selected: n.Name() == f.selected}
		switch n := n.(type) {
		case *vfs.Folder:
			it.Folder = true
		case *vfs.File:
			it.FileType = n.FileType()
		}
		items = append(items, it)
	}

	return View{
		Path:         f.Cwd(),
		Mode:         f.mode,
		CanGoBack:    f.CanGoBack(),
		CanGoForward: f.CanGoForward(),
		Breadcrumbs:  Breadcrumbs(f.Cwd()),
		Favorites:    Favorites,
		Locations:    Locations,
		Items:        items,
	}
}
