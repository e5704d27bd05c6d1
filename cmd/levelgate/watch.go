/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xzzpig/levelgate/internal/core/config"
	"github.com/xzzpig/levelgate/internal/core/logger"
	"github.com/xzzpig/levelgate/internal/core/modpath"
	"github.com/xzzpig/levelgate/internal/core/watcher"
	"github.com/xzzpig/levelgate/internal/i18n"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the module whenever the config or Go sources change",
	Long: `Run generate -r once, then again whenever the config file or a Go file of the
module changes. The config file is re-read on every run. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mod, err := modpath.FindModule(workDir)
		if err != nil {
			return moduleError(workDir, err)
		}
		log := logger.Named("watch")

		if err := regenerate(ctx, cmd, mod.Dir); err != nil {
			return err
		}

		w, err := watcher.New(func(ctx context.Context, key string) {
			if err := regenerate(ctx, cmd, mod.Dir); err != nil {
				log.Error("Regeneration failed", zap.String("trigger", key), zap.Error(err))
				fmt.Fprintln(cmd.ErrOrStderr(), i18n.Message(currentLocalizer(), err))
			}
		})
		if err != nil {
			return err
		}
		if cfg.File != "" {
			if err := w.Watch("config", cfg.File, nil); err != nil {
				return err
			}
		}
		output := cfg.Generate.Output
		err = w.Watch("module", mod.Dir, func(path string) bool {
			return filepath.Ext(path) != ".go" || filepath.Base(path) == output
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), i18n.CtxWithData(cmd.Context(), i18n.StatusWatching, map[string]interface{}{"Path": mod.Dir}))
		w.Start(ctx)
		<-ctx.Done()
		w.Stop()
		log.Info("Watch stopped")
		return nil
	},
}

// regenerate reloads the configuration and regenerates every opted-in
// package under root.
func regenerate(ctx context.Context, cmd *cobra.Command, root string) error {
	c, err := config.Load(loadOpts)
	if err != nil {
		return err
	}
	set, err := c.RuleSet()
	if err != nil {
		return err
	}
	changed, err := newGenerator(set, c).module(ctx, root)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.CtxPlural(cmd.Context(), i18n.StatusGeneratedFiles, changed, nil))
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
