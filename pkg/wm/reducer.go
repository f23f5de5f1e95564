package wm

import (
	"slices"
	"time"
)

// Reduce applies a to s and returns the resulting snapshot. It never modifies
// s. Actions naming a window that does not exist leave the state unchanged.
func Reduce(s State, a Action) State {
	if s.Windows == nil {
		s = NewState()
	}

	switch a := a.(type) {
	case OpenApp:
		return open(s, a)
	case CloseWindow:
		return closeWindow(s, a.ID)
	case MinimizeWindow:
		return minimize(s, a)
	case MaximizeWindow:
		return maximize(s, a.ID)
	case RestoreWindow:
		return restore(s, a.ID)
	case FocusWindow:
		return focus(s, a.ID)
	case UpdatePosition:
		w, ok := s.Windows[a.ID]
		if !ok {
			return s
		}
		w.Position = a.Position
		return replace(s, w)
	case UpdateSize:
		w, ok := s.Windows[a.ID]
		if !ok {
			return s
		}
		w.Size = a.Size
		return replace(s, w)
	}
	return s
}

// SingletonTarget returns the window an open of a singleton app would reuse.
// Windows without Data are preferred.
func SingletonTarget(s State, appID string) (Window, bool) {
	var target Window
	found := false
	for _, w := range s.WindowsForApp(appID) {
		if w.Data == nil {
			return w, true
		}
		if !found {
			target, found = w, true
		}
	}
	return target, found
}

func open(s State, a OpenApp) State {
	if a.Singleton && a.Window.Data == nil {
		if w, ok := SingletonTarget(s, a.Window.AppID); ok {
			if w.State == WindowStateMinimized {
				return restore(s, w.ID)
			}
			return focus(s, w.ID)
		}
	}

	w := a.Window
	if _, exists := s.Windows[w.ID]; exists || w.ID == "" {
		return s
	}
	w.State = WindowStateNormal
	w.MinimizedAt = time.Time{}

	next := s.clone()
	next.Windows[w.ID] = w
	next.Order = append(next.Order, w.ID)
	next.Focused = w.ID
	renumber(&next)
	return next
}

func closeWindow(s State, id string) State {
	if _, ok := s.Windows[id]; !ok {
		return s
	}

	next := s.clone()
	delete(next.Windows, id)
	next.Order = slices.DeleteFunc(next.Order, func(o string) bool { return o == id })
	if next.Focused == id {
		next.Focused = next.Topmost()
	}
	renumber(&next)
	return next
}

func minimize(s State, a MinimizeWindow) State {
	w, ok := s.Windows[a.ID]
	if !ok || w.State == WindowStateMinimized {
		return s
	}

	next := s.clone()
	w.State = WindowStateMinimized
	w.MinimizedAt = a.At
	w.ZIndex = 0
	next.Windows[w.ID] = w
	next.Order = slices.DeleteFunc(next.Order, func(o string) bool { return o == w.ID })
	if next.Focused == w.ID {
		next.Focused = next.Topmost()
	}
	renumber(&next)
	return next
}

func maximize(s State, id string) State {
	w, ok := s.Windows[id]
	if !ok {
		return s
	}

	next := s.clone()
	if w.State == WindowStateMinimized {
		w.MinimizedAt = time.Time{}
		next.Order = append(next.Order, id)
	}
	w.State = WindowStateMaximized
	next.Windows[id] = w
	next.Focused = id
	renumber(&next)
	return next
}

func restore(s State, id string) State {
	w, ok := s.Windows[id]
	if !ok {
		return s
	}

	next := s.clone()
	if w.State == WindowStateMinimized {
		next.Order = append(next.Order, id)
	}
	w.State = WindowStateNormal
	w.MinimizedAt = time.Time{}
	next.Windows[id] = w
	next.Focused = id
	renumber(&next)
	return next
}

func focus(s State, id string) State {
	w, ok := s.Windows[id]
	if !ok || w.State == WindowStateMinimized {
		return s
	}

	next := s.clone()
	next.Order = slices.DeleteFunc(next.Order, func(o string) bool { return o == id })
	next.Order = append(next.Order, id)
	next.Focused = id
	renumber(&next)
	return next
}

func replace(s State, w Window) State {
	next := s.clone()
	next.Windows[w.ID] = w
	return next
}

// renumber assigns z-indices densely from BaseZIndex in order.
func renumber(s *State) {
	for i, id := range s.Order {
		w := s.Windows[id]
		w.ZIndex = BaseZIndex + i
		s.Windows[id] = w
	}
}
