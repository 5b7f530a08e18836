package risk

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	sum := cfg.Weights.Sentiment + cfg.Weights.Engagement + cfg.Weights.Support +
		cfg.Weights.Balance + cfg.Weights.Competitor
	if sum != 1.0 {
		t.Errorf("default weights sum to %g, want 1.0", sum)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	tuning := `
weights:
  sentiment: 0.4
  engagement: 0.2
  support: 0.2
  balance: 0.1
  competitor: 0.1
gap_days: 45
`
	if err := os.WriteFile(path, []byte(tuning), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Weights.Sentiment != 0.4 {
		t.Errorf("sentiment weight = %g, want 0.4", cfg.Weights.Sentiment)
	}
	if cfg.GapDays != 45 {
		t.Errorf("gap_days = %d, want 45", cfg.GapDays)
	}
	// Keys absent from the file keep their defaults.
	if cfg.RecentDays != 30 {
		t.Errorf("recent_days = %d, want default 30", cfg.RecentDays)
	}
	if len(cfg.SupportKeywords) == 0 {
		t.Error("support keywords should keep defaults when absent from the file")
	}
}

func TestLoadConfig_RejectsBadCalibration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("recent_days: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for negative recent_days")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing tuning file")
	}
}
