/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xzzpig/levelgate/internal/core/codegen"
	"github.com/xzzpig/levelgate/internal/core/modpath"
)

var resolveJSON bool

type resolveResult struct {
	Path    string `json:"path"`
	Level   string `json:"level"`
	Rule    string `json:"rule,omitempty"`
	Default bool   `json:"default"`
	Reason  string `json:"reason"`
}

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [path...]",
	Short: "Print the level the filters give each path",
	Long: `Print the maximum enabled level for each module path. Without arguments the
import path of the package in the working directory is resolved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := cfg.RuleSet()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			path, err := modpath.ImportPath(workDir)
			if err != nil {
				return moduleError(workDir, err)
			}
			args = []string{path}
		}

		results := make([]resolveResult, 0, len(args))
		for _, path := range args {
			res := set.Resolve(path)
			r := resolveResult{
				Path:    path,
				Level:   res.Level.String(),
				Default: res.Rule == nil,
				Reason:  codegen.Reason(set, res),
			}
			if res.Rule != nil {
				r.Rule = res.Rule.String()
			}
			results = append(results, r)
		}

		out := cmd.OutOrStdout()
		if resolveJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		on := colorize(out)
		for i, r := range results {
			fmt.Fprintf(out, "%s\t%s\t%s\n", r.Path, levelText(set.Level(args[i]), on), r.Reason)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print results as JSON")
}
