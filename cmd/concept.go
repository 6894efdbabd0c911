package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var conceptCmd = &cobra.Command{
	Use:   "concept",
	Short: "Browse the concept graph",
}

var conceptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all concepts in prerequisite order",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, log, err := openService(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		concepts := svc.Snapshot().Graph.TopologicalOrder()

		// Header.
		fmt.Printf("%-16s  %-40s  %4s  %2s  %s\n",
			"Code", "Label", "Diff", "KS", "Prerequisites")
		fmt.Println(strings.Repeat("─", 100))

		for _, c := range concepts {
			prereqs := strings.Join(c.Prerequisites, ", ")
			if prereqs == "" {
				prereqs = "-"
			}
			fmt.Printf("%-16s  %-40s  %4d  %2d  %s\n",
				c.Code, truncate(c.Label, 40), c.Difficulty, c.KSLevel, prereqs)
		}

		fmt.Printf("\n%d concepts\n", len(concepts))
		return nil
	},
}

var conceptShowCmd = &cobra.Command{
	Use:   "show CODE",
	Short: "Show one concept with its neighbourhood",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, log, err := openService(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		graph := svc.Snapshot().Graph
		c, err := graph.Get(args[0])
		if err != nil {
			return err
		}
		ancestors, err := graph.Ancestors(c.Code)
		if err != nil {
			return err
		}
		dependents, err := graph.Dependents(c.Code)
		if err != nil {
			return err
		}
		problems, err := svc.ListProblems(c.Code)
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n", c.Code, c.Label)
		if c.Description != "" {
			fmt.Printf("  %s\n", c.Description)
		}
		fmt.Printf("\n  Difficulty:     %d\n", c.Difficulty)
		fmt.Printf("  KS level:       %d\n", c.KSLevel)
		fmt.Printf("  Prerequisites:  %s\n", orDash(c.Prerequisites))
		fmt.Printf("  All ancestors:  %s\n", orDash(ancestors))

		codes := make([]string, 0, len(dependents))
		for _, d := range dependents {
			codes = append(codes, d.Code)
		}
		fmt.Printf("  Unlocks:        %s\n", orDash(codes))
		fmt.Printf("  Problems:       %d\n", len(problems))
		return nil
	},
}

func orDash(codes []string) string {
	if len(codes) == 0 {
		return "-"
	}
	return strings.Join(codes, ", ")
}

func init() {
	conceptCmd.AddCommand(conceptListCmd)
	conceptCmd.AddCommand(conceptShowCmd)
}
