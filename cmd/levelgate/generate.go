/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xzzpig/levelgate/internal/i18n"
)

var genFlags struct {
	output     string
	pkg        string
	importPath string
	constName  string
	prefix     string
	exported   bool
	zap        bool
	check      bool
	recursive  bool
}

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the level constant file for a package",
	Long: `Resolve the filters for the package in the working directory and write its
level constants. Meant to be run by go generate:

  //go:generate go tool levelgate generate

With -r every package of the module that already has the output file or a
go:generate line mentioning levelgate is regenerated.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		set, err := cfg.RuleSet()
		if err != nil {
			return err
		}
		g := newGenerator(set, cfg)
		applyGenerateFlags(cmd, g)

		if !genFlags.recursive {
			pkg := genFlags.pkg
			if pkg == "" && !cmd.Flags().Changed("dir") {
				pkg = os.Getenv("GOPACKAGE")
			}
			_, err := g.packageDir(workDir, pkg, genFlags.importPath)
			return err
		}

		if genFlags.pkg != "" || genFlags.importPath != "" {
			return invalidInput("--package and --import-path cannot be combined with --recursive")
		}
		changed, err := g.module(cmd.Context(), workDir)
		if err != nil {
			return err
		}
		if g.check {
			fmt.Fprintln(cmd.OutOrStdout(), i18n.CtxWithData(cmd.Context(), i18n.StatusUpToDate, map[string]interface{}{"Path": workDir}))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), i18n.CtxPlural(cmd.Context(), i18n.StatusGeneratedFiles, changed, nil))
		return nil
	},
}

func applyGenerateFlags(cmd *cobra.Command, g *generator) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		g.output = genFlags.output
	}
	if flags.Changed("const") {
		g.opts.Const = genFlags.constName
	}
	if flags.Changed("prefix") {
		g.opts.Prefix = genFlags.prefix
	}
	if flags.Changed("exported") {
		g.opts.Exported = genFlags.exported
	}
	if flags.Changed("zap") {
		g.opts.Zap = genFlags.zap
	}
	g.check = genFlags.check
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVarP(&genFlags.output, "output", "o", "levelgate_gen.go", "file name to write (overrides generate.output)")
	f.StringVar(&genFlags.pkg, "package", "", "package clause (default $GOPACKAGE or the package in the directory)")
	f.StringVar(&genFlags.importPath, "import-path", "", "path to resolve the filters for (default derived from go.mod)")
	f.StringVar(&genFlags.constName, "const", "maxLogLevel", "name of the level constant (overrides generate.const)")
	f.StringVar(&genFlags.prefix, "prefix", "log", "prefix of the per-level booleans (overrides generate.prefix)")
	f.BoolVar(&genFlags.exported, "exported", false, "export the generated identifiers")
	f.BoolVar(&genFlags.zap, "zap", false, "also generate gateLogger(*zap.Logger)")
	f.BoolVar(&genFlags.check, "check", false, "fail instead of writing when a file is out of date")
	f.BoolVarP(&genFlags.recursive, "recursive", "r", false, "regenerate every opted-in package of the module")
}
