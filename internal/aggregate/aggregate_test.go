package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pulseboard/pulseboard/internal/feedback"
)

func rec(sentiment feedback.Sentiment, createdAt time.Time) feedback.Record {
	return feedback.Record{Sentiment: sentiment, CreatedAt: createdAt}
}

func TestBipolarAverage(t *testing.T) {
	tests := []struct {
		name       string
		sentiments []feedback.Sentiment
		want       float64
	}{
		{"empty window averages to zero", nil, 0},
		{"all positive", []feedback.Sentiment{feedback.SentimentPositive, feedback.SentimentPositive}, 1},
		{"all negative", []feedback.Sentiment{feedback.SentimentNegative}, -1},
		{"neutral and mixed count as zero", []feedback.Sentiment{feedback.SentimentNeutral, feedback.SentimentMixed}, 0},
		{"mixed bag", []feedback.Sentiment{
			feedback.SentimentPositive, feedback.SentimentNegative,
			feedback.SentimentNegative, feedback.SentimentNeutral,
		}, -0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []feedback.Record
			for _, s := range tt.sentiments {
				records = append(records, rec(s, time.Now()))
			}
			got := BipolarAverage(records)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("BipolarAverage() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTopN(t *testing.T) {
	counts := map[string]int{"bug": 5, "pricing": 3, "api": 3, "onboarding": 1}

	got := TopN(counts, 3)
	want := []Count{
		{Key: "bug", Count: 5},
		{Key: "api", Count: 3}, // alphabetical tie-break
		{Key: "pricing", Count: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopN mismatch (-want +got):\n%s", diff)
	}
}

func TestTopN_FewerThanN(t *testing.T) {
	got := TopN(map[string]int{"bug": 2}, 5)
	if len(got) != 1 {
		t.Errorf("expected 1 entry, got %d", len(got))
	}
}

func TestUrgencyDistribution_ZeroFilled(t *testing.T) {
	records := []feedback.Record{
		{Urgency: feedback.UrgencyHigh},
		{Urgency: feedback.UrgencyHigh},
		{Urgency: feedback.UrgencyLow},
	}

	dist := UrgencyDistribution(records)
	want := map[feedback.Urgency]int{
		feedback.UrgencyLow:      1,
		feedback.UrgencyMedium:   0,
		feedback.UrgencyHigh:     2,
		feedback.UrgencyCritical: 0,
	}
	if diff := cmp.Diff(want, dist); diff != "" {
		t.Errorf("UrgencyDistribution mismatch (-want +got):\n%s", diff)
	}
}

func TestMaxGap(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		offsets []time.Duration // days from base, any order
		want    time.Duration
	}{
		{"empty window", nil, 0},
		{"single record", []time.Duration{0}, 0},
		{"uniform cadence", []time.Duration{0, 24 * time.Hour, 48 * time.Hour}, 24 * time.Hour},
		{"one long silence", []time.Duration{0, 24 * time.Hour, 40 * 24 * time.Hour}, 39 * 24 * time.Hour},
		// Windows arrive newest-first from the store; gap detection
		// must not depend on input order.
		{"newest first input", []time.Duration{40 * 24 * time.Hour, 24 * time.Hour, 0}, 39 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []feedback.Record
			for _, off := range tt.offsets {
				records = append(records, rec(feedback.SentimentNeutral, base.Add(off)))
			}
			if got := MaxGap(records); got != tt.want {
				t.Errorf("MaxGap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBucketCounts(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	t.Run("even split", func(t *testing.T) {
		var records []feedback.Record
		// Span 0..90 days: 3 in the first third, 2 in the middle, 1 at the end.
		for _, off := range []time.Duration{0, 10 * day, 20 * day, 40 * day, 50 * day, 90 * day} {
			records = append(records, rec(feedback.SentimentNeutral, base.Add(off)))
		}
		got := BucketCounts(records, 3, base.Add(90*day))
		want := []int{3, 2, 1}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("BucketCounts mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("record on the upper edge folds into last bucket", func(t *testing.T) {
		records := []feedback.Record{
			rec(feedback.SentimentNeutral, base),
			rec(feedback.SentimentNeutral, base.Add(30*day)),
		}
		got := BucketCounts(records, 3, base.Add(30*day))
		want := []int{1, 0, 1}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("BucketCounts mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("silent tail leaves trailing buckets empty", func(t *testing.T) {
		records := []feedback.Record{
			rec(feedback.SentimentNeutral, base),
			rec(feedback.SentimentNeutral, base.Add(10*day)),
		}
		got := BucketCounts(records, 3, base.Add(90*day))
		want := []int{2, 0, 0}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("BucketCounts mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("zero span has no buckets", func(t *testing.T) {
		records := []feedback.Record{
			rec(feedback.SentimentNeutral, base),
			rec(feedback.SentimentNeutral, base),
		}
		if got := BucketCounts(records, 3, base); got != nil {
			t.Errorf("expected nil for zero-span window, got %v", got)
		}
	})

	t.Run("single record has no buckets", func(t *testing.T) {
		records := []feedback.Record{rec(feedback.SentimentNeutral, base)}
		if got := BucketCounts(records, 3, base.Add(30*day)); got != nil {
			t.Errorf("expected nil for single-record window, got %v", got)
		}
	})
}
