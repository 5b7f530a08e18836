package risk

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pulseboard/pulseboard/internal/feedback"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// daysAgo builds a record createdAt the given number of days before testNow.
func daysAgo(days int, sentiment feedback.Sentiment) feedback.Record {
	return feedback.Record{
		Content:   "general product comment",
		Sentiment: sentiment,
		Urgency:   feedback.UrgencyLow,
		CreatedAt: testNow.AddDate(0, 0, -days),
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0, LevelLow},
		{39.9, LevelLow},
		{40, LevelMedium},
		{59.9, LevelMedium},
		{60, LevelHigh},
		{79.9, LevelHigh},
		{80, LevelCritical},
		{100, LevelCritical},
	}

	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%g) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScore_EmptyWindow(t *testing.T) {
	e := NewEngine(DefaultConfig())
	a := e.Score(nil, testNow)

	if a.RiskScore != 50 {
		t.Errorf("risk score = %f, want exactly 50", a.RiskScore)
	}
	if a.RiskLevel != LevelMedium {
		t.Errorf("risk level = %q, want medium", a.RiskLevel)
	}
	if a.RetentionProbability != 50 {
		t.Errorf("retention probability = %f, want 50", a.RetentionProbability)
	}
	if len(a.ChurnFactors) != 0 {
		t.Errorf("expected no churn factors, got %v", a.ChurnFactors)
	}
	if len(a.Predictions) != 0 {
		t.Errorf("expected no predictions for empty window, got %v", a.Predictions)
	}
	if a.Metadata.TotalFeedback != 0 {
		t.Errorf("metadata total = %d, want 0", a.Metadata.TotalFeedback)
	}
}

func TestScore_AlwaysInBounds(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Worst case: everything negative, urgent, unresolved, keyword-laden.
	var records []feedback.Record
	for i := 0; i < 20; i++ {
		r := daysAgo(i%25, feedback.SentimentNegative)
		r.Content = "urgent: broken and unusable, switching to a competitor asap"
		r.Urgency = feedback.UrgencyCritical
		r.Categories = []string{"complaint"}
		records = append(records, r)
	}
	a := e.Score(records, testNow)
	if a.RiskScore < 0 || a.RiskScore > 100 {
		t.Errorf("risk score %f out of [0,100]", a.RiskScore)
	}
	if a.RetentionProbability < 0 || a.RetentionProbability > 100 {
		t.Errorf("retention probability %f out of [0,100]", a.RetentionProbability)
	}
	if a.RiskLevel != LevelForScore(a.RiskScore) {
		t.Errorf("level %q inconsistent with score %f", a.RiskLevel, a.RiskScore)
	}

	// Best case: all positive, calm, resolved.
	records = records[:0]
	for i := 0; i < 20; i++ {
		r := daysAgo(i%25, feedback.SentimentPositive)
		r.IsResolved = true
		records = append(records, r)
	}
	a = e.Score(records, testNow)
	if a.RiskScore < 0 || a.RiskScore > 100 {
		t.Errorf("risk score %f out of [0,100]", a.RiskScore)
	}
}

// Scenario: 10 records, 8 recent negatives, 3 unresolved high-urgency.
// The score must land at least in the high band and both the sentiment
// and support factors must be reported.
func TestScore_NegativeUrgentWindow(t *testing.T) {
	e := NewEngine(DefaultConfig())

	var records []feedback.Record
	for i := 1; i <= 8; i++ {
		r := daysAgo(i, feedback.SentimentNegative)
		if i <= 3 {
			r.Urgency = feedback.UrgencyHigh
			r.IsResolved = false
		}
		records = append(records, r)
	}
	records = append(records, daysAgo(34, feedback.SentimentPositive))
	records = append(records, daysAgo(35, feedback.SentimentPositive))

	a := e.Score(records, testNow)

	// sentiment: 0.8*50 + 1.0*30 = 70, weighted 21
	// support: 3 * 15 = 45, weighted 9
	if math.Abs(a.RiskScore-80) > 0.001 {
		t.Errorf("risk score = %f, want 80", a.RiskScore)
	}
	if a.RiskScore < 60 {
		t.Errorf("risk score = %f, want >= 60", a.RiskScore)
	}
	if a.RiskLevel != LevelHigh && a.RiskLevel != LevelCritical {
		t.Errorf("risk level = %q, want high or critical", a.RiskLevel)
	}

	types := make(map[FactorType]bool)
	for _, f := range a.ChurnFactors {
		types[f.Type] = true
	}
	if !types[FactorNegativeSentiment] {
		t.Error("expected NEGATIVE_SENTIMENT factor")
	}
	if !types[FactorSupportIssues] {
		t.Error("expected SUPPORT_ISSUES factor")
	}
}

func TestSentimentSubScore(t *testing.T) {
	e := NewEngine(DefaultConfig())

	records := []feedback.Record{
		daysAgo(1, feedback.SentimentNegative),
		daysAgo(2, feedback.SentimentNegative),
		daysAgo(3, feedback.SentimentPositive),
		daysAgo(4, feedback.SentimentNeutral),
	}
	// negativeRatio 0.5 -> 25; recentNegativeRatio 0.5 -> 15
	got := e.sentimentSubScore(records, testNow)
	if math.Abs(got-40) > 0.001 {
		t.Errorf("sentimentSubScore = %f, want 40", got)
	}
}

func TestSentimentSubScore_OldNegativesOnly(t *testing.T) {
	e := NewEngine(DefaultConfig())

	records := []feedback.Record{
		daysAgo(60, feedback.SentimentNegative),
		daysAgo(70, feedback.SentimentNegative),
	}
	// negativeRatio 1.0 -> 50; no recent items -> recent term 0
	got := e.sentimentSubScore(records, testNow)
	if math.Abs(got-50) > 0.001 {
		t.Errorf("sentimentSubScore = %f, want 50", got)
	}
}

func TestEngagementSubScore(t *testing.T) {
	e := NewEngine(DefaultConfig())

	t.Run("declining activity", func(t *testing.T) {
		var records []feedback.Record
		// 3 items in the first 30-day third, 2 in the middle, 1 in the
		// last: declining (+20), plus a 35-day silence (+25).
		for _, d := range []int{90, 85, 80, 50, 45, 10} {
			records = append(records, daysAgo(d, feedback.SentimentNeutral))
		}
		got := e.engagementSubScore(records, testNow)
		if math.Abs(got-45) > 0.001 {
			t.Errorf("engagementSubScore = %f, want 45", got)
		}
	})

	t.Run("went silent", func(t *testing.T) {
		var records []feedback.Record
		// Activity peaks in the middle third and stops entirely in the
		// last: +20 (decline) +40 (empty last bucket). No gap over 30 days.
		for _, d := range []int{90, 85, 60, 45, 40, 35} {
			records = append(records, daysAgo(d, feedback.SentimentNeutral))
		}
		got := e.engagementSubScore(records, testNow)
		if math.Abs(got-60) > 0.001 {
			t.Errorf("engagementSubScore = %f, want 60", got)
		}
	})

	t.Run("single record is neutral", func(t *testing.T) {
		records := []feedback.Record{daysAgo(5, feedback.SentimentNeutral)}
		if got := e.engagementSubScore(records, testNow); got != 0 {
			t.Errorf("engagementSubScore = %f, want 0 for single-record window", got)
		}
	})
}

func TestSupportSubScore_Cap(t *testing.T) {
	e := NewEngine(DefaultConfig())

	var records []feedback.Record
	for i := 0; i < 5; i++ {
		r := daysAgo(i+1, feedback.SentimentNegative)
		r.Content = "urgent help needed, this is broken"
		r.Urgency = feedback.UrgencyCritical
		records = append(records, r)
	}
	// Each record is worth 10+20+15=45; the sum caps at 50.
	if got := e.supportSubScore(records); got != 50 {
		t.Errorf("supportSubScore = %f, want capped 50", got)
	}
}

func TestBalanceSubScore(t *testing.T) {
	e := NewEngine(DefaultConfig())

	tests := []struct {
		name    string
		records []feedback.Record
		want    float64
	}{
		{
			name: "complaint ratio over threshold plus unresolved",
			records: []feedback.Record{
				{Categories: []string{"complaint"}, IsResolved: false},
				{Categories: []string{"complaint"}, IsResolved: true},
				{Categories: nil},
			},
			// ratio 2/3 > 0.3: +30; one unresolved: +10
			want: 40,
		},
		{
			name: "feature heavy window",
			records: []feedback.Record{
				{Categories: []string{"feature_request"}},
				{Categories: []string{"feature_request"}},
				{Categories: []string{"feature_request"}},
				{Categories: nil},
			},
			// feature ratio 0.75 > 0.5: +15
			want: 15,
		},
		{
			name: "capped at 50",
			records: []feedback.Record{
				{Categories: []string{"complaint"}},
				{Categories: []string{"complaint"}},
				{Categories: []string{"complaint"}},
				{Categories: []string{"complaint"}},
			},
			// +30 ratio, +40 unresolved = 70 -> 50
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.balanceSubScore(tt.records)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("balanceSubScore = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCompetitorSubScore(t *testing.T) {
	e := NewEngine(DefaultConfig())

	records := []feedback.Record{
		{Content: "We are evaluating an alternative right now"},
		{Content: "Everything works great"},
		{Content: "Thinking about switching to another vendor"},
	}
	if got := e.competitorSubScore(records); got != 30 {
		t.Errorf("competitorSubScore = %f, want 30", got)
	}
}

func TestRetentionProbability(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{50, 50},
		{90, 8},    // (100-90)*0.8
		{80, 16},   // damped at the critical boundary
		{10, 100},  // (100-10)*1.2 clamps to 100
		{20, 96},   // boosted at the low boundary
		{0, 100},   // 100*1.2 clamps
		{100, 0},   // 0*0.8
	}

	for _, tt := range tests {
		got := retentionProbability(tt.score)
		if math.Abs(got-tt.want) > 0.001 {
			t.Errorf("retentionProbability(%g) = %f, want %f", tt.score, got, tt.want)
		}
	}
}

func TestPredictions_Bands(t *testing.T) {
	tests := []struct {
		score       float64
		wantHorizon int
	}{
		{85, 30},
		{80, 30},
		{70, 60},
		{60, 60},
		{50, 90},
		{40, 90},
		{39, 0},
		{10, 0},
	}

	for _, tt := range tests {
		preds := predictions(tt.score)
		if tt.wantHorizon == 0 {
			if len(preds) != 0 {
				t.Errorf("predictions(%g): expected none, got %v", tt.score, preds)
			}
			continue
		}
		if len(preds) != 1 {
			t.Fatalf("predictions(%g): expected 1, got %d", tt.score, len(preds))
		}
		if preds[0].HorizonDays != tt.wantHorizon {
			t.Errorf("predictions(%g) horizon = %d, want %d", tt.score, preds[0].HorizonDays, tt.wantHorizon)
		}
	}
}

func TestChurnFactors_GapAndCompetitors(t *testing.T) {
	e := NewEngine(DefaultConfig())

	records := []feedback.Record{
		daysAgo(1, feedback.SentimentNeutral),
		daysAgo(40, feedback.SentimentNeutral),
	}
	records[0].Content = "We might switch to a competitor"

	factors := e.churnFactors(records, testNow)
	types := make(map[FactorType]Factor)
	for _, f := range factors {
		types[f.Type] = f
	}

	gap, ok := types[FactorDecreasingEngagement]
	if !ok {
		t.Fatal("expected DECREASING_ENGAGEMENT factor for a 39-day gap")
	}
	if gap.Severity != LevelHigh {
		t.Errorf("gap severity = %q, want high", gap.Severity)
	}
	if !strings.Contains(gap.Description, "39") {
		t.Errorf("gap description %q should name the gap length", gap.Description)
	}

	comp, ok := types[FactorCompetitorMentions]
	if !ok {
		t.Fatal("expected COMPETITOR_MENTIONS factor")
	}
	if comp.Count != 1 {
		t.Errorf("competitor count = %d, want 1", comp.Count)
	}
	if comp.Severity != LevelMedium {
		t.Errorf("competitor severity = %q, want medium for a single mention", comp.Severity)
	}
}
