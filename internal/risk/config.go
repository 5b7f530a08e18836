package risk

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// Weights holds the contribution weight of each risk factor. The five
// values are fractions of the composite score and sum to 1.0 in the
// default calibration.
type Weights struct {
	Sentiment  float64 `yaml:"sentiment"`
	Engagement float64 `yaml:"engagement"`
	Support    float64 `yaml:"support"`
	Balance    float64 `yaml:"balance"`
	Competitor float64 `yaml:"competitor"`
}

// Config is the full calibration of the risk engine: factor weights,
// keyword lists and the numeric thresholds below. The thresholds are
// product calibration choices; changing them is a product decision, not
// a refactor.
type Config struct {
	Weights Weights `yaml:"weights"`

	SupportKeywords    []string `yaml:"support_keywords"`
	UrgentKeywords     []string `yaml:"urgent_keywords"`
	CompetitorKeywords []string `yaml:"competitor_keywords"`

	ComplaintCategories []string `yaml:"complaint_categories"`
	FeatureCategories   []string `yaml:"feature_categories"`

	// RecentDays bounds the "recent" sub-window used by the sentiment
	// factor and the NEGATIVE_SENTIMENT churn factor.
	RecentDays int `yaml:"recent_days"`
	// GapDays is the inter-record silence that counts as disengagement.
	GapDays int `yaml:"gap_days"`

	ComplaintRatioThreshold float64 `yaml:"complaint_ratio_threshold"`
	FeatureRatioThreshold   float64 `yaml:"feature_ratio_threshold"`
}

// DefaultConfig returns the shipped calibration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Sentiment:  0.30,
			Engagement: 0.25,
			Support:    0.20,
			Balance:    0.15,
			Competitor: 0.10,
		},
		SupportKeywords: []string{
			"help", "support", "issue", "problem", "broken", "not working",
			"error", "bug", "stuck", "confused",
		},
		UrgentKeywords: []string{
			"urgent", "asap", "immediately", "critical", "emergency",
			"blocking", "blocker", "can't work", "unusable",
		},
		CompetitorKeywords: []string{
			"competitor", "alternative", "switching", "switch to", "instead of",
			"better than", "moving to", "evaluating", "other tool",
		},
		ComplaintCategories:     []string{"complaint", "bug"},
		FeatureCategories:       []string{"feature_request", "improvement"},
		RecentDays:              30,
		GapDays:                 30,
		ComplaintRatioThreshold: 0.3,
		FeatureRatioThreshold:   0.5,
	}
}

// LoadConfig reads a YAML tuning file over the default calibration.
// Only keys present in the file override defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse tuning file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects calibrations the engine cannot score with.
func (c Config) Validate() error {
	for name, w := range map[string]float64{
		"sentiment":  c.Weights.Sentiment,
		"engagement": c.Weights.Engagement,
		"support":    c.Weights.Support,
		"balance":    c.Weights.Balance,
		"competitor": c.Weights.Competitor,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("weight %s out of range: %g", name, w)
		}
	}
	if c.RecentDays <= 0 {
		return fmt.Errorf("recent_days must be positive, got %d", c.RecentDays)
	}
	if c.GapDays <= 0 {
		return fmt.Errorf("gap_days must be positive, got %d", c.GapDays)
	}
	return nil
}
