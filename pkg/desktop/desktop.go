// Package desktop composes one client's window manager with the per-window
// terminal and Finder sessions that run inside it.
package desktop

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"webdesk/pkg/apps"
	"webdesk/pkg/finder"
	"webdesk/pkg/logging"
	"webdesk/pkg/shell"
	"webdesk/pkg/terminal"
	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

var (
	ErrDesktopNotFound = errors.New("desktop not found")
	ErrNoSession       = errors.New("no session for window")
	ErrTooManyDesktops = errors.New("too many desktops")
)

// Config configures a desktop.
type Config struct {
	Tree     *vfs.Tree
	Apps     *wm.Registry
	Commands *shell.Registry
	Viewport wm.Size
	// SkipBoot starts new terminals at the prompt.
	SkipBoot bool
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Desktop is one client's desktop. All methods are safe for concurrent use
// and serialized against each other.
type Desktop struct {
	mu       sync.Mutex
	id       string
	created  time.Time
	tree     *vfs.Tree
	wm       *wm.Manager
	commands *shell.Registry
	skipBoot bool
	logger   *zap.Logger

	terminals map[string]*terminal.Session
	finders   map[string]*finder.Finder
	links     []string
}

// New creates an empty desktop over cfg.Tree.
func New(cfg Config) *Desktop {
	if cfg.Tree == nil {
		cfg.Tree = vfs.NewPendingTree()
	}
	if cfg.Apps == nil {
		cfg.Apps = apps.NewRegistry()
	}
	if cfg.Commands == nil {
		cfg.Commands = shell.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	id := uuid.NewString()
	logger := logging.OrNop(cfg.Logger).With(zap.String("desktop", id))
	return &Desktop{
		id:      id,
		created: cfg.Clock(),
		tree:    cfg.Tree,
		wm: wm.NewManager(wm.Config{
			Viewport: cfg.Viewport,
			Registry: cfg.Apps,
			Clock:    cfg.Clock,
			Logger:   logger,
		}),
		commands:  cfg.Commands,
		skipBoot:  cfg.SkipBoot,
		logger:    logger,
		terminals: map[string]*terminal.Session{},
		finders:   map[string]*finder.Finder{},
	}
}

// ID returns the desktop's id.
func (d *Desktop) ID() string { return d.id }

// CreatedAt returns when the desktop was created.
func (d *Desktop) CreatedAt() time.Time { return d.created }

// Tree returns the filesystem the desktop was created with.
func (d *Desktop) Tree() *vfs.Tree { return d.tree }

// Apps returns the app registry.
func (d *Desktop) Apps() *wm.Registry { return d.wm.Registry() }

// State returns the window manager snapshot.
func (d *Desktop) State() wm.State { return d.wm.State() }

// SetViewport changes the area new windows are centered in.
func (d *Desktop) SetViewport(v wm.Size) { d.wm.SetViewport(v) }

// OpenApp opens a window, creating its session when the app has one.
func (d *Desktop) OpenApp(appID string, opts wm.OpenOptions) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.sync()
	return d.wm.OpenApp(appID, opts)
}

// ActivateApp performs a dock click on appID.
func (d *Desktop) ActivateApp(appID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.sync()
	return d.wm.ActivateApp(appID)
}

// Dispatch applies a window manager action.
func (d *Desktop) Dispatch(a wm.Action) wm.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.sync()
	return d.wm.Dispatch(a)
}

// OpenURL queues an external link for the client.
func (d *Desktop) OpenURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.links = append(d.links, url)
}

// Effects drains the queued external links.
func (d *Desktop) Effects() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	links := d.links
	d.links = nil
	return links
}

// WithTerminal runs fn against the terminal of window id. Windows fn opens
// get their sessions before WithTerminal returns.
func (d *Desktop) WithTerminal(id string, fn func(*terminal.Session)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.terminals[id]
	if !ok {
		return fmt.Errorf("%w: terminal %s", ErrNoSession, id)
	}
	fn(t)
	d.sync()
	return nil
}

// WithFinder runs fn against the Finder of window id.
func (d *Desktop) WithFinder(id string, fn func(*finder.Finder)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, ok := d.finders[id]
	if !ok {
		return fmt.Errorf("%w: finder %s", ErrNoSession, id)
	}
	fn(f)
	d.sync()
	return nil
}

// HandleKey sends a key to the terminal of the focused window and returns
// that window's id. It returns ErrNoSession when the focused window is not
// a terminal.
func (d *Desktop) HandleKey(k terminal.Key) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	focused := d.wm.State().Focused
	t, ok := d.terminals[focused]
	if !ok {
		return "", false, ErrNoSession
	}
	used := t.HandleKey(k)
	d.sync()
	return focused, used, nil
}

// Sessions returns the ids of windows that own a terminal and a Finder.
func (d *Desktop) Sessions() (terminals, finders []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id := range d.terminals {
		terminals = append(terminals, id)
	}
	for id := range d.finders {
		finders = append(finders, id)
	}
	return terminals, finders
}

// sync creates sessions for new windows and drops those of closed ones.
// Callers hold d.mu.
func (d *Desktop) sync() {
	s := d.wm.State()

	for id, w := range s.Windows {
		switch w.AppID {
		case apps.Terminal:
			if _, ok := d.terminals[id]; ok {
				continue
			}
			d.terminals[id] = terminal.New(terminal.Config{
				Registry: d.commands,
				FS:       vfs.NewSession(d.tree),
				Windows:  opener{d},
				Browser:  outbox{d},
				SkipBoot: d.skipBoot,
				Logger:   d.logger,
			})
			d.logger.Debug("terminal session created", zap.String("window", id))
		case apps.Finder:
			if _, ok := d.finders[id]; ok {
				continue
			}
			d.finders[id] = finder.New(finder.Config{
				Tree:    d.tree,
				Windows: opener{d},
				Browser: outbox{d},
			})
			d.logger.Debug("finder session created", zap.String("window", id))
		}
	}

	for id := range d.terminals {
		if _, ok := s.Windows[id]; !ok {
			delete(d.terminals, id)
		}
	}
	for id := range d.finders {
		if _, ok := s.Windows[id]; !ok {
			delete(d.finders, id)
		}
	}
}

// opener and outbox are the capabilities handed to sessions. They run while
// d.mu is already held.
type opener struct{ d *Desktop }

func (o opener) OpenApp(appID string, opts wm.OpenOptions) (string, error) {
	return o.d.wm.OpenApp(appID, opts)
}

type outbox struct{ d *Desktop }

func (o outbox) OpenURL(url string) {
	o.d.links = append(o.d.links, url)
}

// Dock is the dock's view of the desktop.
type Dock struct {
	Running      []string    `json:"running"`
	Minimized    []wm.Window `json:"minimized"`
	HasMaximized bool        `json:"hasMaximized"`
}

// Snapshot is the serializable state of a desktop.
type Snapshot struct {
	ID      string    `json:"id"`
	Created time.Time `json:"createdAt"`
	Tree    string    `json:"filesystem"`
	State   wm.State  `json:"windows"`
	Dock    Dock      `json:"dock"`
	Apps    []wm.App  `json:"apps"`
}

// Snapshot returns the current state of the desktop.
func (d *Desktop) Snapshot() Snapshot {
	s := d.wm.State()
	return Snapshot{
		ID:      d.id,
		Created: d.created,
		Tree:    d.tree.Status().String(),
		State:   s,
		Dock: Dock{
			Running:      s.RunningApps(),
			Minimized:    s.MinimizedWindows(),
			HasMaximized: s.HasMaximizedWindow(),
		},
		Apps: d.wm.Registry().Apps(),
	}
}
