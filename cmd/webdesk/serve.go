package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"webdesk/pkg/desktop"
	"webdesk/pkg/kv"
	"webdesk/pkg/server"
	"webdesk/pkg/vfs/manifest"
	"webdesk/pkg/wm"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the desktop API and the browser renderer",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	src, err := manifest.FromConfig(ctx, cfg.Manifest)
	if err != nil {
		return fmt.Errorf("manifest source: %w", err)
	}
	provider := manifest.NewProvider(src, cfg.Manifest.Timeout, logger)
	provider.Start(ctx)

	store, err := kv.Open(cfg.KV.Driver, cfg.KV.DSN)
	if err != nil {
		return fmt.Errorf("kv store: %w", err)
	}
	defer store.Close()

	hub := desktop.NewHub(desktop.HubConfig{
		MaxDesktops: cfg.Desktop.MaxDesktops,
		Trees:       provider,
		Desktop: desktop.Config{
			Viewport: wm.Size{Width: cfg.Desktop.ViewportWidth, Height: cfg.Desktop.ViewportHeight},
			SkipBoot: cfg.Desktop.SkipBoot,
		},
		Logger: logger,
	})

	srv, err := server.New(server.Config{
		Addr: cfg.Server.Addr,
		Handler: server.NewHandler(server.HandlerConfig{
			Hub:       hub,
			Trees:     provider,
			KV:        store,
			StaticDir:      cfg.Server.StaticDir,
			RequestTimeout: cfg.Server.WriteTimeout,
			Logger:         logger,
		}),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		TLS:             server.TLSConfig{CertFile: cfg.Server.TLSCertFile, KeyFile: cfg.Server.TLSKeyFile},
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(gctx) })
	if cfg.Manifest.Watch {
		w := manifest.NewWatcher(provider, cfg.Manifest.Path, manifest.DefaultDebounce, logger)
		g.Go(func() error { return w.Run(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	logger.Info("stopped")
	return nil
}
