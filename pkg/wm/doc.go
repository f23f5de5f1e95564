/*
Package wm provides the window manager for the desktop.

The window manager is a state machine over State, driven by Action values:

  - Reduce is a pure transition function with no rendering dependency.
  - Manager wraps it with a mutex, allocates window ids, places new windows
    in the viewport and notifies subscribers after each dispatch.
  - Z-indices are renumbered densely from BaseZIndex whenever the order
    changes, and minimized windows never hold a place in the order.
  - Singleton apps keep one default window; opening them again focuses it.

Example usage:

	reg := wm.NewRegistry(wm.App{ID: "terminal", Name: "Terminal", DefaultSize: wm.Size{Width: 1000, Height: 700}, Singleton: true})
	manager := wm.NewManager(wm.Config{Viewport: wm.Size{Width: 1440, Height: 900}, Registry: reg})
	id, err := manager.OpenApp("terminal", wm.OpenOptions{})
	if err != nil {
		// handle error
	}
	manager.Minimize(id)
*/
package wm
