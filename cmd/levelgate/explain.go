/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/xzzpig/levelgate/internal/core/codegen"
	"github.com/xzzpig/levelgate/internal/core/rules"
)

// explainCmd represents the explain command
var explainCmd = &cobra.Command{
	Use:   "explain <path>",
	Short: "Show every filter tested for a path, in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := cfg.RuleSet()
		if err != nil {
			return err
		}
		path := args[0]
		out := cmd.OutOrStdout()

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"#", "Prefix", "Level", "Matches", "Decides"})
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)

		on := colorize(out)
		decided := false
		for i, step := range set.Cascade(path) {
			decided = decided || step.Decisive
			table.Append([]string{
				strconv.Itoa(i + 1),
				strconv.Quote(step.Rule.Prefix),
				levelText(step.Rule.Level, on),
				yesNo(step.Matches),
				yesNo(step.Decisive),
			})
		}
		table.Append([]string{"", defaultLabel(set), levelText(set.Default, on), "yes", yesNo(!decided)})
		table.Render()

		res := set.Resolve(path)
		fmt.Fprintf(out, "%s => %s. %s\n", path, levelText(res.Level, on), codegen.Reason(set, res))
		return nil
	},
}

func defaultLabel(set *rules.RuleSet) string {
	if set.Defaulted {
		return "(default)"
	}
	return "(implicit default)"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
