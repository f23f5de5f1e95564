package wm

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"
)

// BaseZIndex is the z-index of the bottom window in the order.
const BaseZIndex = 100

// WindowState represents the current state of a window.
type WindowState int

const (
	// WindowStateNormal indicates the window is in its normal/regular state.
	WindowStateNormal WindowState = iota
	// WindowStateMinimized indicates the window is minimized to the dock.
	WindowStateMinimized
	// WindowStateMaximized indicates the window fills the viewport.
	WindowStateMaximized
)

// String returns a string representation of the window state.
func (s WindowState) String() string {
	switch s {
	case WindowStateNormal:
		return "normal"
	case WindowStateMinimized:
		return "minimized"
	case WindowStateMaximized:
		return "maximized"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state as its name.
func (s WindowState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *WindowState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "normal":
		*s = WindowStateNormal
	case "minimized":
		*s = WindowStateMinimized
	case "maximized":
		*s = WindowStateMaximized
	default:
		return fmt.Errorf("wm: unknown window state %q", b)
	}
	return nil
}

// Position is the top-left corner of a window.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is the dimensions of a window.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window is one window on the desktop. Data is an opaque payload handed back
// to the app that renders the window; the window manager never reads it.
type Window struct {
	ID          string         `json:"id"`
	AppID       string         `json:"appId"`
	Title       string         `json:"title"`
	State       WindowState    `json:"state"`
	Position    Position       `json:"position"`
	Size        Size           `json:"size"`
	ZIndex      int            `json:"zIndex"`
	MinimizedAt time.Time      `json:"minimizedAt,omitzero"`
	Data        map[string]any `json:"data,omitempty"`
}

// State is an immutable snapshot of every window. Order lists the ids of
// non-minimized windows bottom to top. Focused is empty when nothing has
// focus. Snapshots must not be modified; Reduce returns a new one.
type State struct {
	Windows map[string]Window `json:"windows"`
	Order   []string          `json:"windowOrder"`
	Focused string            `json:"focusedWindowId"`
}

// NewState returns an empty desktop.
func NewState() State {
	return State{Windows: map[string]Window{}, Order: []string{}}
}

func (s State) clone() State {
	next := State{
		Windows: make(map[string]Window, len(s.Windows)+1),
		Order:   slices.Clone(s.Order),
		Focused: s.Focused,
	}
	for id, w := range s.Windows {
		next.Windows[id] = w
	}
	if next.Order == nil {
		next.Order = []string{}
	}
	return next
}

// Window returns the window with the given id.
func (s State) Window(id string) (Window, bool) {
	w, ok := s.Windows[id]
	return w, ok
}

// Topmost returns the id at the top of the order, or "".
func (s State) Topmost() string {
	if len(s.Order) == 0 {
		return ""
	}
	return s.Order[len(s.Order)-1]
}

// Visible returns the non-minimized windows bottom to top.
func (s State) Visible() []Window {
	out := make([]Window, 0, len(s.Order))
	for _, id := range s.Order {
		out = append(out, s.Windows[id])
	}
	return out
}

// WindowsForApp returns the windows of one app in creation order.
func (s State) WindowsForApp(appID string) []Window {
	var out []Window
	for _, w := range s.Windows {
		if w.AppID == appID {
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b Window) int { return compareIDs(a.ID, b.ID) })
	return out
}

// compareIDs orders "window-N" ids numerically by comparing length first.
func compareIDs(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// Validate checks the structural invariants of a snapshot.
func (s State) Validate() error {
	seen := make(map[string]bool, len(s.Order))
	for i, id := range s.Order {
		w, ok := s.Windows[id]
		if !ok {
			return fmt.Errorf("wm: ordered window %q does not exist", id)
		}
		if seen[id] {
			return fmt.Errorf("wm: window %q appears twice in the order", id)
		}
		seen[id] = true
		if w.State == WindowStateMinimized {
			return fmt.Errorf("wm: minimized window %q is in the order", id)
		}
		if w.ZIndex != BaseZIndex+i {
			return fmt.Errorf("wm: window %q has z-index %d at position %d", id, w.ZIndex, i)
		}
	}
	for id, w := range s.Windows {
		if w.ID != id {
			return fmt.Errorf("wm: window stored under %q has id %q", id, w.ID)
		}
		if w.State != WindowStateMinimized && !seen[id] {
			return fmt.Errorf("wm: visible window %q is missing from the order", id)
		}
	}
	if s.Focused != "" && !seen[s.Focused] {
		return fmt.Errorf("wm: focused window %q is not visible", s.Focused)
	}
	return nil
}

// ErrAppNotFound is returned when an app id is not registered.
var ErrAppNotFound = errors.New("app not found")
