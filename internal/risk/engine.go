// Package risk computes composite churn-risk assessments over a window
// of feedback records. The engine is stateless and pure: identical
// windows always produce identical assessments.
package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/pulseboard/pulseboard/internal/aggregate"
	"github.com/pulseboard/pulseboard/internal/feedback"
)

const (
	baselineScore = 50.0

	// Per-factor sub-score caps.
	supportCap    = 50.0
	balanceCap    = 50.0
	competitorCap = 50.0
)

// Engine scores feedback windows using an immutable calibration.
type Engine struct {
	cfg Config
}

// NewEngine builds a scorer from the given calibration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Score computes a full assessment for the window as of now. The window
// may be empty; an empty window is neutral (score exactly 50) with no
// factors and no predictions.
func (e *Engine) Score(records []feedback.Record, now time.Time) *Assessment {
	a := &Assessment{
		RiskScore: baselineScore,
		Metadata: Metadata{
			TotalFeedback: len(records),
			AnalysisDate:  now,
		},
	}

	if len(records) == 0 {
		a.RiskLevel = LevelForScore(a.RiskScore)
		a.RetentionProbability = retentionProbability(a.RiskScore)
		return a
	}

	score := baselineScore
	score += e.sentimentSubScore(records, now) * e.cfg.Weights.Sentiment
	score += e.engagementSubScore(records, now) * e.cfg.Weights.Engagement
	score += e.supportSubScore(records) * e.cfg.Weights.Support
	score += e.balanceSubScore(records) * e.cfg.Weights.Balance
	score += e.competitorSubScore(records) * e.cfg.Weights.Competitor

	a.RiskScore = clampScore(score)
	a.RiskLevel = LevelForScore(a.RiskScore)
	a.RetentionProbability = retentionProbability(a.RiskScore)
	a.ChurnFactors = e.churnFactors(records, now)
	a.Predictions = predictions(a.RiskScore)
	return a
}

// sentimentSubScore weights overall negativity plus negativity inside
// the recent sub-window: negativeRatio*50 + recentNegativeRatio*30.
func (e *Engine) sentimentSubScore(records []feedback.Record, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -e.cfg.RecentDays)

	var negative, recent, recentNegative int
	for _, r := range records {
		isNeg := r.Sentiment == feedback.SentimentNegative
		if isNeg {
			negative++
		}
		if !r.CreatedAt.Before(cutoff) {
			recent++
			if isNeg {
				recentNegative++
			}
		}
	}

	sub := float64(negative) / float64(len(records)) * 50
	if recent > 0 {
		sub += float64(recentNegative) / float64(recent) * 30
	}
	return sub
}

// engagementSubScore compares activity across three equal time buckets
// ending at the analysis time and penalises long silences. A window too
// small to bucket (fewer than two records) is activity-neutral.
func (e *Engine) engagementSubScore(records []feedback.Record, now time.Time) float64 {
	var sub float64

	if buckets := aggregate.BucketCounts(records, 3, now); buckets != nil {
		last, prev := buckets[2], buckets[1]
		if last < prev {
			sub += 20
		}
		if last == 0 && prev > 0 {
			sub += 40
		}
	}

	gapThreshold := time.Duration(e.cfg.GapDays) * 24 * time.Hour
	if aggregate.MaxGap(records) > gapThreshold {
		sub += 25
	}
	return sub
}

// supportSubScore accumulates support pressure per record, capped at 50.
func (e *Engine) supportSubScore(records []feedback.Record) float64 {
	var sub float64
	for _, r := range records {
		if matchesAny(r.Content, e.cfg.SupportKeywords) {
			sub += 10
		}
		if matchesAny(r.Content, e.cfg.UrgentKeywords) {
			sub += 20
		}
		if r.IsUrgent() {
			sub += 15
		}
		if sub >= supportCap {
			return supportCap
		}
	}
	return sub
}

// balanceSubScore weighs the complaint/feature-request mix, capped at 50.
func (e *Engine) balanceSubScore(records []feedback.Record) float64 {
	var complaints, features, unresolvedComplaints int
	for _, r := range records {
		if hasAnyCategory(r, e.cfg.ComplaintCategories) {
			complaints++
			if !r.IsResolved {
				unresolvedComplaints++
			}
		}
		if hasAnyCategory(r, e.cfg.FeatureCategories) {
			features++
		}
	}

	total := float64(len(records))
	var sub float64
	if float64(complaints)/total > e.cfg.ComplaintRatioThreshold {
		sub += 30
	}
	if float64(features)/total > e.cfg.FeatureRatioThreshold {
		sub += 15
	}
	sub += float64(unresolvedComplaints) * 10
	if sub > balanceCap {
		return balanceCap
	}
	return sub
}

// competitorSubScore adds 15 per record naming a competitor, capped at 50.
func (e *Engine) competitorSubScore(records []feedback.Record) float64 {
	var sub float64
	for _, r := range records {
		if matchesAny(r.Content, e.cfg.CompetitorKeywords) {
			sub += 15
		}
		if sub >= competitorCap {
			return competitorCap
		}
	}
	return sub
}

// churnFactors detects discrete churn drivers in the window. Detection
// is independent of the composite score: a factor is reported whenever
// its trigger is present, regardless of how the weights played out.
func (e *Engine) churnFactors(records []feedback.Record, now time.Time) []Factor {
	var factors []Factor

	cutoff := now.AddDate(0, 0, -e.cfg.RecentDays)
	var recent, recentNegative int
	for _, r := range records {
		if r.CreatedAt.Before(cutoff) {
			continue
		}
		recent++
		if r.Sentiment == feedback.SentimentNegative {
			recentNegative++
		}
	}
	if recentNegative > 0 {
		severity := LevelMedium
		if float64(recentNegative) > float64(recent)/2 {
			severity = LevelHigh
		}
		factors = append(factors, Factor{
			Type:        FactorNegativeSentiment,
			Severity:    severity,
			Description: fmt.Sprintf("%d negative feedback items in the last %d days", recentNegative, e.cfg.RecentDays),
			Count:       recentNegative,
		})
	}

	gapThreshold := time.Duration(e.cfg.GapDays) * 24 * time.Hour
	if gap := aggregate.MaxGap(records); gap > gapThreshold {
		factors = append(factors, Factor{
			Type:        FactorDecreasingEngagement,
			Severity:    LevelHigh,
			Description: fmt.Sprintf("%.0f-day silence between feedback items", gap.Hours()/24),
		})
	}

	var competitorMentions int
	for _, r := range records {
		if matchesAny(r.Content, e.cfg.CompetitorKeywords) {
			competitorMentions++
		}
	}
	if competitorMentions > 0 {
		severity := LevelMedium
		if competitorMentions >= 3 {
			severity = LevelHigh
		}
		factors = append(factors, Factor{
			Type:        FactorCompetitorMentions,
			Severity:    severity,
			Description: fmt.Sprintf("%d feedback items mention competitors or alternatives", competitorMentions),
			Count:       competitorMentions,
		})
	}

	var unresolvedUrgent int
	for _, r := range records {
		if r.IsUrgent() && !r.IsResolved {
			unresolvedUrgent++
		}
	}
	if unresolvedUrgent > 0 {
		factors = append(factors, Factor{
			Type:        FactorSupportIssues,
			Severity:    LevelCritical,
			Description: fmt.Sprintf("%d unresolved high-urgency support issues", unresolvedUrgent),
			Count:       unresolvedUrgent,
		})
	}

	return factors
}

// predictions bands the score into forecast horizons. The band
// boundaries are the contract; message wording is advisory.
func predictions(score float64) []Prediction {
	switch {
	case score >= 80:
		return []Prediction{{
			HorizonDays: 30,
			Message:     "Customer is at severe risk of churning within 30 days",
			Actions: []string{
				"Schedule an immediate intervention call",
				"Escalate open support issues to the account team",
				"Offer a retention incentive",
			},
		}}
	case score >= 60:
		return []Prediction{{
			HorizonDays: 60,
			Message:     "Customer shows strong churn signals over the next 60 days",
			Actions: []string{
				"Reach out proactively within the week",
				"Review and resolve outstanding complaints",
			},
		}}
	case score >= 40:
		return []Prediction{{
			HorizonDays: 90,
			Message:     "Customer may disengage within 90 days without attention",
			Actions: []string{
				"Monitor sentiment trend",
				"Include in the next engagement campaign",
			},
		}}
	}
	return nil
}

// retentionProbability derives the retention estimate from the score:
// base = 100 - score, damped 0.8x above 80 and boosted 1.2x below 20.
func retentionProbability(score float64) float64 {
	base := 100 - score
	if score >= 80 {
		base *= 0.8
	} else if score <= 20 {
		base *= 1.2
	}
	return clampScore(base)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func matchesAny(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func hasAnyCategory(r feedback.Record, categories []string) bool {
	for _, c := range categories {
		if r.HasCategory(c) {
			return true
		}
	}
	return false
}
