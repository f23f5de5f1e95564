package manifest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"webdesk/pkg/logging"
	"webdesk/pkg/metrics"
	"webdesk/pkg/vfs"
)

// Load fetches and parses one manifest.
func Load(ctx context.Context, src Source, logger *zap.Logger) (*vfs.Folder, error) {
	logger = logging.OrNop(logger)
	start := time.Now()

	root, err := fetch(ctx, src)
	metrics.RecordManifestLoad(src.Name(), time.Since(start), err == nil)
	if err != nil {
		logger.Error("manifest load failed",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	count := vfs.Count(root)
	metrics.SetManifestNodes(count)
	logger.Info("manifest loaded",
		zap.String("source", src.Name()),
		zap.Int("nodes", count),
		zap.Duration("duration", time.Since(start)),
	)
	return root, nil
}

func fetch(ctx context.Context, src Source) (*vfs.Folder, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	root, err := vfs.ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest from %s: %w", src.Name(), err)
	}
	return root, nil
}

// LoadInto resolves a pending tree from src. The tree becomes ready on
// success and failed otherwise.
func LoadInto(ctx context.Context, tree *vfs.Tree, src Source, logger *zap.Logger) error {
	root, err := Load(ctx, src, logger)
	if err != nil {
		tree.Fail(err)
		return err
	}
	tree.Load(root)
	return nil
}

// Provider owns the tree new desktops are created over.
type Provider struct {
	src     Source
	timeout time.Duration
	logger  *zap.Logger
	current atomic.Pointer[vfs.Tree]
}

// NewProvider returns a provider whose current tree is pending until Start.
func NewProvider(src Source, timeout time.Duration, logger *zap.Logger) *Provider {
	p := &Provider{
		src:     src,
		timeout: timeout,
		logger:  logging.OrNop(logger).Named("manifest"),
	}
	p.current.Store(vfs.NewPendingTree())
	return p
}

// Start resolves the current tree in the background and returns it.
func (p *Provider) Start(ctx context.Context) *vfs.Tree {
	tree := p.current.Load()
	go func() {
		ctx, cancel := p.withTimeout(ctx)
		defer cancel()
		_ = LoadInto(ctx, tree, p.src, p.logger)
	}()
	return tree
}

// Current returns the tree for new desktops.
func (p *Provider) Current() *vfs.Tree {
	return p.current.Load()
}

// Reload fetches the manifest again and, on success, makes it current.
// A failed reload keeps the previous tree.
func (p *Provider) Reload(ctx context.Context) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	root, err := Load(ctx, p.src, p.logger)
	if err != nil {
		return err
	}
	p.current.Store(vfs.NewTree(root))
	return nil
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}
