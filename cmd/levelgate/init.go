/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xzzpig/levelgate/internal/core/config"
	"github.com/xzzpig/levelgate/internal/core/modpath"
	"github.com/xzzpig/levelgate/internal/i18n"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter levelgate.toml at the module root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, modulePath := workDir, ""
		if mod, err := modpath.FindModule(workDir); err == nil {
			dir, modulePath = mod.Dir, mod.Path
		}
		path := filepath.Join(dir, config.FileName+".toml")
		if err := config.WriteStarter(path, modulePath, initForce); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), i18n.CtxWithData(cmd.Context(), i18n.StatusConfigWritten, map[string]interface{}{"Path": path}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}
