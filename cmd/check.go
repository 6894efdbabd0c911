package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check PROBLEM=ANSWER...",
	Short: "Grade answers in order and report the learner's mastery",
	Long: "Grades each PROBLEM=ANSWER pair for one learner, in order, and prints the\n" +
		"resulting mastery map and recommended next concepts. Multi-value answers\n" +
		"are separated by commas or semicolons.",
	Example: `  its check --learner ada P.TRI.PYTH.01=13 "P.MEAS.AREA.01=bh/2"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")

		type submission struct{ problem, answer string }
		subs := make([]submission, 0, len(args))
		for _, a := range args {
			problem, answer, ok := strings.Cut(a, "=")
			if !ok || strings.TrimSpace(problem) == "" {
				return fmt.Errorf("expected PROBLEM=ANSWER, got %q", a)
			}
			subs = append(subs, submission{strings.TrimSpace(problem), answer})
		}

		svc, log, err := openService(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		// Header.
		fmt.Printf("%-24s  %-20s  %5s  %s\n", "Problem", "Answer", "Score", "Correct")
		fmt.Println(strings.Repeat("─", 70))

		for _, s := range subs {
			res, err := svc.CheckAnswer(learner, s.problem, s.answer)
			if err != nil {
				return fmt.Errorf("check %s: %w", s.problem, err)
			}
			ok := "✓"
			if !res.Correct {
				ok = "✗"
			}
			fmt.Printf("%-24s  %-20s  %5.2f  %s\n", res.ProblemID, truncate(s.answer, 20), res.Score, ok)
			for _, tr := range res.Transitions {
				fmt.Printf("  %s: %s → %s\n", tr.ConceptCode, tr.From, tr.To)
			}
		}

		progress, err := svc.Progress(learner)
		if err != nil {
			return err
		}
		fmt.Printf("\n%-16s  %-10s  %8s  %8s\n", "Concept", "State", "Estimate", "Attempts")
		fmt.Println(strings.Repeat("─", 50))
		for _, p := range progress {
			fmt.Printf("%-16s  %-10s  %8.3f  %8d\n", p.Concept.Code, p.Display, p.Estimate, p.Attempts)
		}

		next, err := svc.Recommend(learner)
		if err != nil {
			return err
		}
		codes := make([]string, 0, len(next))
		for _, c := range next {
			codes = append(codes, c.Code)
		}
		fmt.Printf("\nNext: %s\n", orDash(codes))

		misconceptions, err := svc.Misconceptions(learner)
		if err != nil {
			return err
		}
		if len(misconceptions) > 0 {
			fmt.Println("\nWatch out for:")
			for _, m := range misconceptions {
				fmt.Printf("  %-16s  %s\n", m.ConceptCode, m.Message)
			}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().String("learner", "local", "Learner identifier")
}
