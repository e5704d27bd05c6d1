/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"os"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xzzpig/levelgate/internal/core/config"
	"github.com/xzzpig/levelgate/internal/core/logger"
	"github.com/xzzpig/levelgate/internal/i18n"
)

var (
	cfgFile string
	filters string
	lang    string
	workDir string

	// cfg, loadOpts and localizer are set by the root PersistentPreRunE.
	cfg       *config.Config
	loadOpts  config.Options
	localizer *goi18n.Localizer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "levelgate",
	Short: "Build-time per-package log level filters",
	Long: `levelgate resolves prefix-based log filters for Go packages and writes the
result into each package as a constant, so that disabled log statements are
removed by the compiler.

Filters come from --filters, LEVELGATE_FILTERS or levelgate.toml, in that order:

  LEVELGATE_FILTERS="warn; github.com/acme/app/internal/db=trace" go generate ./...`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "levelgate: "+i18n.Message(currentLocalizer(), err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is levelgate.toml in the working directory or module root)")
	rootCmd.PersistentFlags().StringVar(&filters, "filters", "", "filter text; overrides LEVELGATE_FILTERS and the config file")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "message language (en, zh-CN); defaults to app.lang or $LANG")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "directory to run in")
}

// setup loads the configuration and initialises logging and translations
// for every subcommand.
func setup(cmd *cobra.Command, _ []string) error {
	localizer = nil
	opts := config.Options{File: cfgFile, Dir: workDir}
	if cmd.Flags().Changed("filters") {
		opts.Filters = &filters
	}
	loadOpts = opts
	c, err := config.Load(opts)
	if err != nil {
		return err
	}
	cfg = c

	language := lang
	if language == "" {
		language = c.App.Lang
	}
	localizer = i18n.NewLocalizer(locale(language))
	cmd.SetContext(i18n.WithLocalizer(cmd.Context(), localizer))

	if err := logger.InitLogger(logger.Environment(c.Log.Environment), c.Log.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logSet, err := c.LogRuleSet()
	if err != nil {
		return err
	}
	logger.InitLevelConfig(logSet)
	logger.Named("config").Debug("Configuration loaded",
		zap.String("file", c.File),
		zap.String("environment", c.Log.Environment),
	)
	return nil
}

// currentLocalizer is the localizer chosen by setup, or one built from --lang
// and the environment when setup failed early.
func currentLocalizer() *goi18n.Localizer {
	if localizer != nil {
		return localizer
	}
	return i18n.NewLocalizer(locale(lang))
}

func locale(language string) string {
	if language == "" {
		return i18n.LocaleFromEnv()
	}
	return i18n.ParseLocale(language)
}
