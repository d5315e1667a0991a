package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pixel-transforms/internal/algorithms"
)

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the available algorithms and their parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range algorithms.Names() {
			algorithm, _ := algorithms.Get(name)
			fmt.Fprintf(out, "%s (%s)\n  %s\n", name, algorithm.GetName(), algorithm.GetDescription())
			for _, p := range algorithm.GetParameterInfo() {
				var bounds []string
				if p.Min != nil {
					bounds = append(bounds, fmt.Sprintf("min %v", p.Min))
				}
				if p.Max != nil {
					bounds = append(bounds, fmt.Sprintf("max %v", p.Max))
				}
				bounds = append(bounds, fmt.Sprintf("default %v", p.Default))
				fmt.Fprintf(out, "  --%s %s: %s [%s]\n", p.Name, p.Type, p.Description, strings.Join(bounds, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(algorithmsCmd)
}
