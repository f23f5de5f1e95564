package wm

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"webdesk/pkg/logging"
	"webdesk/pkg/metrics"
)

// DockOffset shifts centered windows up so they clear the dock.
const DockOffset = 35

// Manager serializes actions against one window manager state. Every
// dispatch replaces the snapshot wholesale, and subscribers see snapshots in
// dispatch order.
type Manager struct {
	mu       sync.RWMutex
	state    State
	registry *Registry
	viewport Size
	nextID   int
	now      func() time.Time
	logger   *zap.Logger

	notifyMu    sync.Mutex
	subscribers map[int]func(State, Action)
	nextSub     int
}

// Config holds configuration for the window manager.
type Config struct {
	Viewport Size
	Registry *Registry
	// Clock stamps minimized windows. Defaults to time.Now.
	Clock  func() time.Time
	Logger *zap.Logger
}

// OpenOptions customize a new window.
type OpenOptions struct {
	// Title overrides the app name.
	Title string
	// Data is handed back verbatim to the app. Supplying it bypasses
	// singleton reuse.
	Data map[string]any
}

// NewManager creates a new window manager with the given configuration.
func NewManager(cfg Config) *Manager {
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		cfg.Viewport = Size{Width: 1440, Height: 900}
	}

	return &Manager{
		state:       NewState(),
		registry:    cfg.Registry,
		viewport:    cfg.Viewport,
		nextID:      1,
		now:         cfg.Clock,
		logger:      logging.OrNop(cfg.Logger).Named("wm"),
		subscribers: map[int]func(State, Action){},
	}
}

// Registry returns the app registry.
func (m *Manager) Registry() *Registry { return m.registry }

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Viewport returns the size windows are placed in.
func (m *Manager) Viewport() Size {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewport
}

// SetViewport changes the size used to place new windows.
func (m *Manager) SetViewport(v Size) {
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewport = v
}

// Subscribe registers fn to receive every new snapshot with the action that
// produced it. fn must not dispatch. The returned function unsubscribes.
func (m *Manager) Subscribe(fn func(State, Action)) func() {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	return func() {
		m.notifyMu.Lock()
		defer m.notifyMu.Unlock()
		delete(m.subscribers, id)
	}
}

// Dispatch applies a and returns the new snapshot.
func (m *Manager) Dispatch(a Action) State {
	m.mu.Lock()
	return m.publish(m.apply(a), a)
}

// publish releases m.mu and hands next to the subscribers. Taking notifyMu
// before releasing m.mu keeps notifications in dispatch order.
func (m *Manager) publish(next State, a Action) State {
	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	for _, fn := range m.subscribers {
		fn(next, a)
	}
	return next
}

// apply reduces under m.mu.
func (m *Manager) apply(a Action) State {
	if mw, ok := a.(MinimizeWindow); ok && mw.At.IsZero() {
		mw.At = m.now()
		a = mw
	}

	prev := m.state
	m.state = Reduce(prev, a)
	metrics.RecordWMAction(a.Name())
	if delta := len(m.state.Windows) - len(prev.Windows); delta != 0 {
		metrics.AddWindows(delta)
	}
	m.logger.Debug("action",
		zap.String("action", a.Name()),
		zap.Int("windows", len(m.state.Windows)),
		zap.String("focused", m.state.Focused),
	)
	return m.state
}

// OpenApp opens a window for appID and returns its id. A singleton app that
// already has a window returns that window instead.
func (m *Manager) OpenApp(appID string, opts OpenOptions) (string, error) {
	app, ok := m.registry.Lookup(appID)
	if !ok {
		m.logger.Warn("unknown app", zap.String("app", appID))
		return "", fmt.Errorf("%w: %s", ErrAppNotFound, appID)
	}

	var id string
	m.mu.Lock()
	if t, ok := SingletonTarget(m.state, appID); ok && app.Singleton && opts.Data == nil {
		id = t.ID
	} else {
		id = "window-" + strconv.Itoa(m.nextID)
		m.nextID++
	}

	title := opts.Title
	if title == "" {
		title = app.Name
	}
	a := OpenApp{
		Window: Window{
			ID:       id,
			AppID:    app.ID,
			Title:    title,
			Position: m.placement(app),
			Size:     app.DefaultSize,
			Data:     opts.Data,
		},
		Singleton: app.Singleton,
	}
	m.publish(m.apply(a), a)
	return id, nil
}

// placement centers a window in the viewport, nudged up for the dock.
func (m *Manager) placement(app App) Position {
	if app.DefaultPosition != nil {
		return *app.DefaultPosition
	}
	return Position{
		X: max(0, (m.viewport.Width-app.DefaultSize.Width)/2),
		Y: max(0, (m.viewport.Height-app.DefaultSize.Height)/2-DockOffset),
	}
}

// ActivateApp performs a dock click: it focuses the app's first visible
// window, else restores its most recently minimized one, else opens a new
// window. It returns the id of the window that ends up focused.
func (m *Manager) ActivateApp(appID string) (string, error) {
	m.mu.Lock()
	a := activation(m.state, appID)
	if a == nil {
		m.mu.Unlock()
		return m.OpenApp(appID, OpenOptions{})
	}
	return m.publish(m.apply(a), a).Focused, nil
}

// Close closes a window.
func (m *Manager) Close(id string) { m.Dispatch(CloseWindow{ID: id}) }

// Minimize minimizes a window.
func (m *Manager) Minimize(id string) { m.Dispatch(MinimizeWindow{ID: id}) }

// Maximize maximizes a window.
func (m *Manager) Maximize(id string) { m.Dispatch(MaximizeWindow{ID: id}) }

// Restore restores a window.
func (m *Manager) Restore(id string) { m.Dispatch(RestoreWindow{ID: id}) }

// Focus focuses a window.
func (m *Manager) Focus(id string) { m.Dispatch(FocusWindow{ID: id}) }

// Move moves a window.
func (m *Manager) Move(id string, p Position) { m.Dispatch(UpdatePosition{ID: id, Position: p}) }

// Resize resizes a window.
func (m *Manager) Resize(id string, s Size) { m.Dispatch(UpdateSize{ID: id, Size: s}) }
