package wm

import (
	"slices"
)

// MinimizedWindows returns minimized windows, oldest first.
func (s State) MinimizedWindows() []Window {
	var out []Window
	for _, w := range s.Windows {
		if w.State == WindowStateMinimized {
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b Window) int {
		if c := a.MinimizedAt.Compare(b.MinimizedAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return out
}

// HasMaximizedWindow reports whether any window is maximized. The dock hides
// while one is.
func (s State) HasMaximizedWindow() bool {
	for _, w := range s.Windows {
		if w.State == WindowStateMaximized {
			return true
		}
	}
	return false
}

// RunningApps returns the ids of apps with at least one window.
func (s State) RunningApps() []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range s.Windows {
		if !seen[w.AppID] {
			seen[w.AppID] = true
			out = append(out, w.AppID)
		}
	}
	slices.Sort(out)
	return out
}

// activation decides what clicking an app in the dock does: focus its first
// visible window, else restore its most recently minimized one. It returns
// nil when the app has no windows and a new one should be opened.
func activation(s State, appID string) Action {
	windows := s.WindowsForApp(appID)
	for _, w := range windows {
		if w.State != WindowStateMinimized {
			return FocusWindow{ID: w.ID}
		}
	}
	if len(windows) == 0 {
		return nil
	}

	latest := windows[0]
	for _, w := range windows[1:] {
		if w.MinimizedAt.After(latest.MinimizedAt) {
			latest = w
		}
	}
	return RestoreWindow{ID: latest.ID}
}
