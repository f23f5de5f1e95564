package wm

import "time"

// Action is a window manager transition. The set of actions is closed;
// Reduce switches over every implementation.
type Action interface {
	// Name identifies the action in logs and metrics.
	Name() string
	action()
}

// OpenApp inserts Window as the new topmost, focused window. When Singleton
// is set and Window carries no Data, an existing window of the same app is
// focused (or restored) instead.
type OpenApp struct {
	Window    Window
	Singleton bool
}

// CloseWindow removes a window.
type CloseWindow struct {
	ID string
}

// MinimizeWindow sends a window to the dock. At stamps MinimizedAt; the
// Manager fills it from its clock when zero.
type MinimizeWindow struct {
	ID string
	At time.Time
}

// MaximizeWindow makes a window fill the viewport and focuses it.
type MaximizeWindow struct {
	ID string
}

// RestoreWindow returns a window to its normal state and focuses it.
type RestoreWindow struct {
	ID string
}

// FocusWindow raises a visible window to the top.
type FocusWindow struct {
	ID string
}

// UpdatePosition moves a window.
type UpdatePosition struct {
	ID       string
	Position Position
}

// UpdateSize resizes a window.
type UpdateSize struct {
	ID   string
	Size Size
}

func (OpenApp) Name() string        { return "open" }
func (CloseWindow) Name() string    { return "close" }
func (MinimizeWindow) Name() string { return "minimize" }
func (MaximizeWindow) Name() string { return "maximize" }
func (RestoreWindow) Name() string  { return "restore" }
func (FocusWindow) Name() string    { return "focus" }
func (UpdatePosition) Name() string { return "move" }
func (UpdateSize) Name() string     { return "resize" }

func (OpenApp) action()        {}
func (CloseWindow) action()    {}
func (MinimizeWindow) action() {}
func (MaximizeWindow) action() {}
func (RestoreWindow) action()  {}
func (FocusWindow) action()    {}
func (UpdatePosition) action() {}
func (UpdateSize) action()     {}
