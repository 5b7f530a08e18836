package segment

import "github.com/pulseboard/pulseboard/internal/feedback"

const (
	// Sentiment cutoffs for calling a segment out as notably positive
	// or negative in the summary.
	positiveCutoff = 0.3
	negativeCutoff = -0.3
)

// Ref is a lightweight pointer to a segment in a summary.
type Ref struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

// Summary is the derived insight view over one classification result.
type Summary struct {
	Largest      *Ref  `json:"largest,omitempty"`
	MostPositive *Ref  `json:"most_positive,omitempty"`
	MostNegative *Ref  `json:"most_negative,omitempty"`
	HighUrgency  []Ref `json:"high_urgency,omitempty"`
}

// Summarize identifies the largest segment, the most positive segment
// (only when its average clears +0.3), the most negative (only below
// -0.3), and every segment containing high or critical urgency items.
func Summarize(segments []Segment) Summary {
	var summary Summary
	if len(segments) == 0 {
		return summary
	}

	largest := segments[0]
	mostPositive := segments[0]
	mostNegative := segments[0]
	for _, seg := range segments[1:] {
		if seg.Stats.Count > largest.Stats.Count {
			largest = seg
		}
		if seg.Stats.AvgSentiment > mostPositive.Stats.AvgSentiment {
			mostPositive = seg
		}
		if seg.Stats.AvgSentiment < mostNegative.Stats.AvgSentiment {
			mostNegative = seg
		}
	}

	summary.Largest = ref(largest)
	if mostPositive.Stats.AvgSentiment > positiveCutoff {
		summary.MostPositive = ref(mostPositive)
	}
	if mostNegative.Stats.AvgSentiment < negativeCutoff {
		summary.MostNegative = ref(mostNegative)
	}

	for _, seg := range segments {
		dist := seg.Stats.UrgencyDistribution
		if dist[feedback.UrgencyHigh] > 0 || dist[feedback.UrgencyCritical] > 0 {
			summary.HighUrgency = append(summary.HighUrgency, *ref(seg))
		}
	}
	return summary
}

func ref(s Segment) *Ref {
	return &Ref{
		ID:           s.ID,
		Name:         s.Name,
		Count:        s.Stats.Count,
		AvgSentiment: s.Stats.AvgSentiment,
	}
}
