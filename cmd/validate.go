package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Valentine-chinedu/ITS-backend/internal/ontology"
)

var validateCmd = &cobra.Command{
	Use:   "validate [PATH]",
	Short: "Validate an ontology document",
	Long: "Loads the configured ontology, then reloads PATH when given. A document\n" +
		"that fails validation is rejected with every problem found.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, log, err := openService(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		snap := svc.Snapshot()
		if len(args) == 1 {
			snap, err = svc.Reload(cmd.Context(), ontology.NewSource(args[0]))
			if err != nil {
				return fmt.Errorf("%s is invalid:\n%w", args[0], err)
			}
		}

		fmt.Printf("%s is valid\n", snap.Source)
		fmt.Printf("  Name:            %s\n", snap.Name)
		fmt.Printf("  Schema version:  %s\n", snap.SchemaVersion)
		fmt.Printf("  Concepts:        %d\n", snap.Graph.Len())
		fmt.Printf("  Problems:        %d\n", snap.Bank.Len())
		fmt.Printf("  Misconceptions:  %d\n", snap.Misconceptions.Len())
		fmt.Printf("  Roots:           %d\n", len(snap.Graph.Roots()))
		return nil
	},
}
