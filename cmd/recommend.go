package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the next concepts for a learner",
	Long: "Lists the concepts whose prerequisites are all mastered and that are not\n" +
		"mastered yet. Concepts passed with --known count as mastered.",
	Example: `  its recommend --learner ada --known GEO.POINT_LINE,ANG.BASIC`,
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		known, _ := cmd.Flags().GetStringSlice("known")

		svc, log, err := openService(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		next, err := svc.Recommend(learner, known...)
		if err != nil {
			return err
		}
		if len(next) == 0 {
			fmt.Println("Nothing left to recommend.")
			return nil
		}

		// Header.
		fmt.Printf("%-16s  %-40s  %4s  %s\n", "Code", "Label", "Diff", "Prerequisites")
		fmt.Println(strings.Repeat("─", 90))

		for _, c := range next {
			fmt.Printf("%-16s  %-40s  %4d  %s\n",
				c.Code, truncate(c.Label, 40), c.Difficulty, orDash(c.Prerequisites))
		}

		fmt.Printf("\n%d concepts\n", len(next))
		return nil
	},
}

func init() {
	recommendCmd.Flags().String("learner", "local", "Learner identifier")
	recommendCmd.Flags().StringSlice("known", nil, "Concept codes the learner already knows (comma separated)")
}
