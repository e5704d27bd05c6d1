/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xzzpig/levelgate/internal/core/logger"
	"github.com/xzzpig/levelgate/internal/i18n"
)

var checkStrict bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured filters",
	Long: `Compile the configured filters and report every problem at once. Prefixes
listed more than once are reported as warnings; only the first takes effect.
With --strict they fail the check.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		set, err := cfg.RuleSet()
		if err != nil {
			return err
		}
		raw, source := cfg.FilterText()
		log := logger.Named("check")

		dups := set.Duplicates()
		for _, prefix := range dups {
			log.Warn("Duplicate filter prefix", zap.String("prefix", prefix), zap.String("source", source))
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.CtxWithData(cmd.Context(), i18n.StatusDuplicatePrefix, map[string]interface{}{"Prefix": prefix}))
		}
		if checkStrict && len(dups) > 0 {
			return invalidInput(fmt.Sprintf("%d duplicate filter prefixes in %q", len(dups), raw))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, i18n.Ctx(cmd.Context(), i18n.StatusConfigValid))
		fmt.Fprintln(out, set.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "treat duplicate prefixes as errors")
}
