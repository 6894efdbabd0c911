// Package config loads application configuration from environment variables.
// All variables use the ITS_ prefix.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	// OntologyPath is the ontology document to load. Empty selects the
	// embedded geometry ontology.
	OntologyPath string
	Grading      GradingConfig
	Mastery      MasteryConfig
	Log          LogConfig
}

// GradingConfig holds answer grading policy.
type GradingConfig struct {
	// PassThreshold is the score at or above which an answer is correct.
	PassThreshold float64
	// MultiValuePartialCredit grades multi_value answers by the fraction
	// of expected values given.
	MultiValuePartialCredit bool
}

// MasteryConfig holds the mastery update constants.
type MasteryConfig struct {
	LearningRate      float64
	PropagationWeight float64
	MasteredThreshold float64
}

// LogConfig holds logging settings.
type LogConfig struct {
	Mode string // "dev" or "prod"
}

// Load reads configuration from environment variables with ITS_ prefix.
// A variable that is set but cannot be parsed is an error.
func Load() (*Config, error) {
	var errs []error
	float := func(key string, fallback float64) float64 {
		v, err := envFloat(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		OntologyPath: envStr("ITS_ONTOLOGY_PATH", ""),
		Grading: GradingConfig{
			PassThreshold:           float("ITS_PASS_THRESHOLD", 0.8),
			MultiValuePartialCredit: envBool("ITS_MULTI_VALUE_PARTIAL_CREDIT", false),
		},
		Mastery: MasteryConfig{
			LearningRate:      float("ITS_LEARNING_RATE", 0.3),
			PropagationWeight: float("ITS_PROPAGATION_WEIGHT", 0.5),
			MasteredThreshold: float("ITS_MASTERED_THRESHOLD", 0.8),
		},
		Log: LogConfig{
			Mode: envStr("ITS_LOG_MODE", "dev"),
		},
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every rate, weight and threshold lies in (0,1].
func (c *Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		env string
		v   float64
	}{
		{"ITS_PASS_THRESHOLD", c.Grading.PassThreshold},
		{"ITS_LEARNING_RATE", c.Mastery.LearningRate},
		{"ITS_PROPAGATION_WEIGHT", c.Mastery.PropagationWeight},
		{"ITS_MASTERED_THRESHOLD", c.Mastery.MasteredThreshold},
	} {
		if !(f.v > 0 && f.v <= 1) {
			errs = append(errs, fmt.Errorf("%s must be in (0,1], got %v", f.env, f.v))
		}
	}

	switch c.Log.Mode {
	case "dev", "prod":
	default:
		errs = append(errs, fmt.Errorf("ITS_LOG_MODE must be 'dev' or 'prod', got %q", c.Log.Mode))
	}

	return errors.Join(errs...)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
