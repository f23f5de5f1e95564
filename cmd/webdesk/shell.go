package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webdesk/pkg/desktop"
	"webdesk/pkg/logging"
	"webdesk/pkg/tui"
	"webdesk/pkg/vfs/manifest"
	"webdesk/pkg/wm"
)

var shellSkipBoot bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open a desktop terminal in this terminal",
	RunE:  runShell,
}

func init() {
	shellCmd.Flags().BoolVar(&shellSkipBoot, "skip-boot", false, "start at the prompt")
}

func runShell(cmd *cobra.Command, _ []string) error {
	// The screen belongs to the UI; only log when writing to a file.
	uiLogger := zap.NewNop()
	if out := cfg.Logging.OutputPath; out != "" && out != "stdout" && out != "stderr" {
		var err error
		if uiLogger, _, err = logging.New(cfg.Logging); err != nil {
			return err
		}
		defer uiLogger.Sync()
	}

	src, err := manifest.FromConfig(cmd.Context(), cfg.Manifest)
	if err != nil {
		return err
	}
	provider := manifest.NewProvider(src, cfg.Manifest.Timeout, uiLogger)

	d := desktop.New(desktop.Config{
		Tree:     provider.Start(cmd.Context()),
		Viewport: wm.Size{Width: cfg.Desktop.ViewportWidth, Height: cfg.Desktop.ViewportHeight},
		SkipBoot: shellSkipBoot || cfg.Desktop.SkipBoot,
		Logger:   uiLogger,
	})
	return tui.Run(d)
}
