package risk

import "time"

// Level bands a composite risk score into a coarse label.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// LevelForScore maps a 0-100 risk score to its level. Thresholds:
// >=80 critical, >=60 high, >=40 medium, else low.
func LevelForScore(score float64) Level {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

// FactorType identifies a discrete churn driver.
type FactorType string

const (
	FactorNegativeSentiment    FactorType = "NEGATIVE_SENTIMENT"
	FactorDecreasingEngagement FactorType = "DECREASING_ENGAGEMENT"
	FactorCompetitorMentions   FactorType = "COMPETITOR_MENTIONS"
	FactorSupportIssues        FactorType = "SUPPORT_ISSUES"
)

// Factor is one churn driver detected in a window. Factors are emitted
// from the raw window independently of the composite score.
type Factor struct {
	Type        FactorType `json:"type"`
	Severity    Level      `json:"severity"`
	Description string     `json:"description"`
	Count       int        `json:"count,omitempty"`
}

// Prediction is a qualitative churn forecast banded by score.
type Prediction struct {
	HorizonDays int      `json:"horizon_days"`
	Message     string   `json:"message"`
	Actions     []string `json:"actions"`
}

// Metadata describes the window an assessment was computed over.
type Metadata struct {
	TotalFeedback int       `json:"total_feedback"`
	TimeRange     string    `json:"time_range"`
	Source        string    `json:"source"`
	AnalysisDate  time.Time `json:"analysis_date"`
}

// Assessment is the full output of one risk computation. It is
// ephemeral: recomputed per call, never persisted.
type Assessment struct {
	RiskScore            float64      `json:"risk_score"`
	RiskLevel            Level        `json:"risk_level"`
	RetentionProbability float64      `json:"retention_probability"`
	ChurnFactors         []Factor     `json:"churn_factors"`
	Predictions          []Prediction `json:"predictions"`
	Metadata             Metadata     `json:"metadata"`
}
