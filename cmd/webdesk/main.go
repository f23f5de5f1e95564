// webdesk serves browser desktops over HTTP and drives them locally.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webdesk/pkg/config"
	"webdesk/pkg/logging"
	"webdesk/pkg/vfs"
	"webdesk/pkg/vfs/manifest"
)

var (
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "webdesk",
	Short: "A simulated desktop with a shell, a file browser and windows",
	Long: `webdesk hosts simulated desktops: a window manager, a read-only virtual
filesystem loaded from a manifest, and terminal and Finder windows over it.

Run "webdesk serve" for the HTTP API and browser renderer, or
"webdesk shell" to use a desktop terminal right here.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if err := logging.Init(cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.L()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "webdesk.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, shellCmd, treeCmd, mountCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadTree fetches the configured manifest and waits for it.
func loadTree(ctx context.Context) (*vfs.Tree, error) {
	src, err := manifest.FromConfig(ctx, cfg.Manifest)
	if err != nil {
		return nil, err
	}
	if cfg.Manifest.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Manifest.Timeout)
		defer cancel()
	}
	root, err := manifest.Load(ctx, src, logger)
	if err != nil {
		return nil, err
	}
	return vfs.NewTree(root), nil
}
