package wm

import (
	"sync"
)

// App describes an application that can own windows.
type App struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DefaultSize Size   `json:"defaultSize"`
	// DefaultPosition overrides centered placement when set.
	DefaultPosition *Position `json:"defaultPosition,omitempty"`
	// Singleton apps get one default window; opening again focuses it.
	Singleton bool `json:"singleton,omitempty"`
}

// Registry holds the known apps.
type Registry struct {
	mu    sync.RWMutex
	apps  map[string]App
	order []string
}

// NewRegistry returns a registry holding apps.
func NewRegistry(apps ...App) *Registry {
	r := &Registry{apps: make(map[string]App, len(apps))}
	for _, a := range apps {
		r.Register(a)
	}
	return r
}

// Register adds or replaces an app.
func (r *Registry) Register(a App) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.apps[a.ID]; !exists {
		r.order = append(r.order, a.ID)
	}
	r.apps[a.ID] = a
}

// Lookup returns the app with the given id.
func (r *Registry) Lookup(id string) (App, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.apps[id]
	return a, ok
}

// Apps returns every app in registration order.
func (r *Registry) Apps() []App {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]App, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.apps[id])
	}
	return out
}
