package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webdesk/pkg/vfs/fusefs"
)

var mountCmd = &cobra.Command{
	Use:   "mount <dir>",
	Short: "Mount the manifest's filesystem read-only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(cmd.Context())
		if err != nil {
			return err
		}
		srv, err := fusefs.Mount(args[0], tree, &fusefs.Options{CacheTimeout: time.Minute})
		if err != nil {
			return err
		}
		logger.Info("mounted", zap.String("dir", args[0]), zap.Int("nodes", tree.Count()))

		go func() {
			<-cmd.Context().Done()
			if err := srv.Unmount(); err != nil {
				logger.Warn("unmount failed", zap.Error(err))
			}
		}()
		srv.Wait()
		return nil
	},
}
