package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Valentine-chinedu/ITS-backend/internal/mastery"
	"github.com/Valentine-chinedu/ITS-backend/internal/ontology"
	"github.com/Valentine-chinedu/ITS-backend/internal/platform/config"
	"github.com/Valentine-chinedu/ITS-backend/internal/platform/logger"
	"github.com/Valentine-chinedu/ITS-backend/internal/tutor"
)

var rootCmd = &cobra.Command{
	Use:          "its",
	Short:        "Geometry tutoring knowledge core",
	Long:         "its loads a geometry ontology, checks answers against it and tracks learner mastery.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("ontology", "", "Path to an ontology YAML file (overrides ITS_ONTOLOGY_PATH env var)")

	rootCmd.AddCommand(conceptCmd)
	rootCmd.AddCommand(problemCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveOntology returns the ontology source using --ontology flag
// (highest priority), then ITS_ONTOLOGY_PATH, then the embedded ontology.
func resolveOntology(cmd *cobra.Command, cfg *config.Config) ontology.Source {
	if p, _ := cmd.Flags().GetString("ontology"); p != "" {
		return ontology.NewSource(p)
	}
	return ontology.NewSource(cfg.OntologyPath)
}

// openService loads configuration and builds a tutor service. The caller
// must Sync the returned logger.
func openService(cmd *cobra.Command) (*tutor.Service, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	svc, err := tutor.New(cmd.Context(), resolveOntology(cmd, cfg), tutor.Options{
		PassThreshold: cfg.Grading.PassThreshold,
		PartialCredit: cfg.Grading.MultiValuePartialCredit,
		Mastery: mastery.Config{
			LearningRate:      cfg.Mastery.LearningRate,
			PropagationWeight: cfg.Mastery.PropagationWeight,
			MasteredThreshold: cfg.Mastery.MasteredThreshold,
		},
		Logger: log,
	})
	if err != nil {
		log.Sync()
		return nil, nil, err
	}
	return svc, log, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
