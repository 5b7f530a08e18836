// Package aggregate holds the pure aggregation primitives shared by the
// risk scorer and the segmentation classifier: bipolar sentiment
// averaging, top-N frequency grouping, urgency distributions,
// chronological gap detection and equal-width time bucketing.
package aggregate

import (
	"sort"
	"time"

	"github.com/pulseboard/pulseboard/internal/feedback"
)

// SentimentValue maps a sentiment to its bipolar weight:
// positive=+1, negative=-1, neutral and mixed=0.
func SentimentValue(s feedback.Sentiment) float64 {
	switch s {
	case feedback.SentimentPositive:
		return 1
	case feedback.SentimentNegative:
		return -1
	default:
		return 0
	}
}

// BipolarAverage returns the mean bipolar sentiment over records.
// An empty slice averages to 0 rather than erroring.
func BipolarAverage(records []feedback.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += SentimentValue(r.Sentiment)
	}
	return sum / float64(len(records))
}

// Count is one entry of a frequency ranking.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TopN ranks the counts map descending by count and returns at most n
// entries. Ties are broken alphabetically by key so results are
// deterministic across calls.
func TopN(counts map[string]int, n int) []Count {
	ranked := make([]Count, 0, len(counts))
	for k, c := range counts {
		ranked = append(ranked, Count{Key: k, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Key < ranked[j].Key
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CategoryCounts tallies category tags across records.
func CategoryCounts(records []feedback.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		for _, c := range r.Categories {
			counts[c]++
		}
	}
	return counts
}

// SourceCounts tallies feedback sources across records.
func SourceCounts(records []feedback.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Source]++
	}
	return counts
}

// UrgencyDistribution counts records per urgency value. Every urgency
// value appears in the result, zero-filled when absent from the window.
func UrgencyDistribution(records []feedback.Record) map[feedback.Urgency]int {
	dist := make(map[feedback.Urgency]int, len(feedback.Urgencies))
	for _, u := range feedback.Urgencies {
		dist[u] = 0
	}
	for _, r := range records {
		dist[r.Urgency]++
	}
	return dist
}

// sortedTimes returns record timestamps in ascending order. Windows
// arrive newest-first from the store, so callers must not rely on input
// order here.
func sortedTimes(records []feedback.Record) []time.Time {
	times := make([]time.Time, len(records))
	for i, r := range records {
		times[i] = r.CreatedAt
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

// MaxGap returns the largest gap between chronologically consecutive
// records. Windows with fewer than two records have no gap.
func MaxGap(records []feedback.Record) time.Duration {
	if len(records) < 2 {
		return 0
	}
	times := sortedTimes(records)
	var max time.Duration
	for i := 1; i < len(times); i++ {
		if gap := times[i].Sub(times[i-1]); gap > max {
			max = gap
		}
	}
	return max
}

// BucketCounts splits the span from the earliest record to until into
// n equal-width buckets and counts records per bucket, oldest bucket
// first. Bucketing up to the analysis time rather than the latest
// record lets trailing buckets go empty when a customer falls silent.
// A window with fewer than two records, or whose span is zero, has no
// meaningful buckets and returns nil; callers treat that as
// activity-neutral.
func BucketCounts(records []feedback.Record, n int, until time.Time) []int {
	if len(records) < 2 || n < 1 {
		return nil
	}
	times := sortedTimes(records)
	earliest := times[0]
	span := until.Sub(earliest)
	if span <= 0 {
		return nil
	}

	counts := make([]int, n)
	width := span / time.Duration(n)
	for _, t := range times {
		idx := n - 1
		if width > 0 {
			idx = int(t.Sub(earliest) / width)
		}
		// A record exactly on the upper edge folds into the final bucket.
		if idx >= n {
			idx = n - 1
		}
		counts[idx]++
	}
	return counts
}
