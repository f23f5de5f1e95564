package desktop

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"webdesk/pkg/logging"
	"webdesk/pkg/metrics"
	"webdesk/pkg/vfs"
)

// TreeSource hands out the tree new desktops are created over.
type TreeSource interface {
	Current() *vfs.Tree
}

// HubConfig configures a Hub.
type HubConfig struct {
	// MaxDesktops bounds the number of live desktops. Zero means no limit.
	MaxDesktops int
	Trees       TreeSource
	// Desktop is the template for new desktops; its Tree is replaced by the
	// source's current tree.
	Desktop Config
	Logger  *zap.Logger
}

// Hub tracks the live desktops of a server.
type Hub struct {
	mu       sync.RWMutex
	desktops map[string]*Desktop
	cfg      HubConfig
	logger   *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(cfg HubConfig) *Hub {
	logger := logging.OrNop(cfg.Logger).Named("desktop")
	cfg.Desktop.Logger = logger
	return &Hub{
		desktops: map[string]*Desktop{},
		cfg:      cfg,
		logger:   logger,
	}
}

// Create makes a new desktop over the current tree.
func (h *Hub) Create() (*Desktop, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cfg.MaxDesktops > 0 && len(h.desktops) >= h.cfg.MaxDesktops {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyDesktops, h.cfg.MaxDesktops)
	}

	cfg := h.cfg.Desktop
	if h.cfg.Trees != nil {
		cfg.Tree = h.cfg.Trees.Current()
	}
	d := New(cfg)
	h.desktops[d.ID()] = d
	metrics.SetActiveDesktops(len(h.desktops))

	h.logger.Info("desktop created",
		zap.String("id", d.ID()),
		zap.Int("desktops", len(h.desktops)),
	)
	return d, nil
}

// Get returns the desktop with the given id.
func (h *Hub) Get(id string) (*Desktop, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	d, ok := h.desktops[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDesktopNotFound, id)
	}
	return d, nil
}

// Remove discards a desktop.
func (h *Hub) Remove(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, ok := h.desktops[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDesktopNotFound, id)
	}
	delete(h.desktops, id)
	metrics.SetActiveDesktops(len(h.desktops))
	metrics.AddWindows(-len(d.State().Windows))

	h.logger.Info("desktop removed", zap.String("id", id))
	return nil
}

// Len returns the number of live desktops.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.desktops)
}

// IDs returns the ids of the live desktops, sorted.
func (h *Hub) IDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.desktops))
	for id := range h.desktops {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
