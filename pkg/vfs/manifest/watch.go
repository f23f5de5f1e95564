package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"webdesk/pkg/logging"
)

// DefaultDebounce batches the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a provider when its manifest file changes.
type Watcher struct {
	provider *Provider
	path     string
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher watches path on behalf of p.
func NewWatcher(p *Provider, path string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		provider: p,
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   logging.OrNop(logger).Named("manifest.watch"),
	}
}

// Run watches until ctx is done. The parent directory is watched so that
// files replaced by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching manifest", zap.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("manifest changed", zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if err := w.provider.Reload(ctx); err != nil {
				w.logger.Warn("reload failed, keeping previous manifest", zap.Error(err))
			}
		}
	}
}
