package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var problemCmd = &cobra.Command{
	Use:   "problem",
	Short: "Browse the problem bank",
}

var problemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List problems (optionally filtered by concept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		concept, _ := cmd.Flags().GetString("concept")

		svc, log, err := openService(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		problems, err := svc.ListProblems(concept)
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			fmt.Println("No problems found.")
			return nil
		}

		// Header.
		fmt.Printf("%-24s  %-20s  %-30s  %s\n",
			"ID", "Answer type", "Label", "Concepts")
		fmt.Println(strings.Repeat("─", 100))

		for _, p := range problems {
			fmt.Printf("%-24s  %-20s  %-30s  %s\n",
				p.ID, p.AnswerType, truncate(p.Label, 30), strings.Join(p.ConceptCodes, ", "))
		}

		fmt.Printf("\n%d problems\n", len(problems))
		return nil
	},
}

var problemShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a problem prompt without its answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, log, err := openService(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		p, err := svc.GetProblem(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n\n", p.ID, p.Label)
		fmt.Printf("  %s\n\n", p.Prompt)
		fmt.Printf("  Answer type:  %s\n", p.AnswerType)
		if p.ExpectedCount > 0 {
			fmt.Printf("  Values:       %d\n", p.ExpectedCount)
		}
		if p.Unit != "" {
			fmt.Printf("  Unit:         %s\n", p.Unit)
		}
		fmt.Printf("  Concepts:     %s\n", strings.Join(p.ConceptCodes, ", "))
		return nil
	},
}

func init() {
	problemListCmd.Flags().String("concept", "", "Filter by concept code (e.g. TRI.PYTH)")

	problemCmd.AddCommand(problemListCmd)
	problemCmd.AddCommand(problemShowCmd)
}
