// Package segment partitions a feedback window into named,
// non-exclusive cohorts using declarative criteria catalogs. A record
// may belong to zero, one or many segments in a single call;
// classification is deterministic and total.
package segment

import (
	"errors"
	"sort"

	"github.com/pulseboard/pulseboard/internal/aggregate"
	"github.com/pulseboard/pulseboard/internal/feedback"
)

// ErrUnknownSegmentType is returned for a segment type outside the catalog.
var ErrUnknownSegmentType = errors.New("unknown segment type")

const (
	topCategoriesN = 5
	topSourcesN    = 3
)

// Stats summarises the records matched by one segment.
type Stats struct {
	Count               int                      `json:"count"`
	Percentage          float64                  `json:"percentage"`
	AvgSentiment        float64                  `json:"avg_sentiment"`
	TopCategories       []aggregate.Count        `json:"top_categories"`
	TopSources          []aggregate.Count        `json:"top_sources"`
	UrgencyDistribution map[feedback.Urgency]int `json:"urgency_distribution"`
}

// Segment is one matched cohort. Segments are built fresh per
// classification call and never persisted.
type Segment struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	MatchingFeedback []feedback.Record `json:"matching_feedback"`
	Stats            Stats             `json:"stats"`
}

// customerStats is the per-customer aggregate the criteria evaluate
// against: how many items the customer filed in the window, and their
// bipolar sentiment average.
type customerStats struct {
	count        int
	avgSentiment float64
}

// Classify evaluates the catalog for segmentType against the window and
// returns the non-empty segments sorted descending by match count, tied
// segments keeping catalog order. An empty window yields no segments.
func Classify(records []feedback.Record, segmentType Type) ([]Segment, error) {
	defs, err := Catalog(segmentType)
	if err != nil {
		return nil, err
	}

	byCustomer := groupByCustomer(records)

	var segments []Segment
	for _, def := range defs {
		var matches []feedback.Record
		for _, r := range records {
			if matchesDefinition(def, makeCandidate(r, byCustomer)) {
				matches = append(matches, r)
			}
		}
		if len(matches) == 0 {
			// Empty cohorts are omitted from the result entirely.
			continue
		}
		segments = append(segments, Segment{
			ID:               def.ID,
			Name:             def.Name,
			Description:      def.Description,
			MatchingFeedback: matches,
			Stats:            buildStats(matches, len(records)),
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Stats.Count > segments[j].Stats.Count
	})
	return segments, nil
}

// matchesDefinition ANDs every criterion on the definition. A
// definition with no criteria matches everything.
func matchesDefinition(def Definition, c candidate) bool {
	for _, crit := range def.Criteria {
		if !crit.matches(c) {
			return false
		}
	}
	return true
}

// groupByCustomer precomputes per-customer aggregates keyed by email.
// Records with no customer email are excluded here; each is treated as
// its own single-record customer at evaluation time.
func groupByCustomer(records []feedback.Record) map[string]customerStats {
	groups := make(map[string][]feedback.Record)
	for _, r := range records {
		if r.CustomerEmail == "" {
			continue
		}
		groups[r.CustomerEmail] = append(groups[r.CustomerEmail], r)
	}

	stats := make(map[string]customerStats, len(groups))
	for email, items := range groups {
		stats[email] = customerStats{
			count:        len(items),
			avgSentiment: aggregate.BipolarAverage(items),
		}
	}
	return stats
}

func makeCandidate(r feedback.Record, byCustomer map[string]customerStats) candidate {
	if r.CustomerEmail != "" {
		if cs, ok := byCustomer[r.CustomerEmail]; ok {
			return candidate{record: r, customerCount: cs.count, customerAvg: cs.avgSentiment}
		}
	}
	// Anonymous feedback: the record stands alone as its own customer.
	return candidate{
		record:        r,
		customerCount: 1,
		customerAvg:   aggregate.SentimentValue(r.Sentiment),
	}
}

func buildStats(matches []feedback.Record, windowSize int) Stats {
	s := Stats{
		Count:               len(matches),
		AvgSentiment:        aggregate.BipolarAverage(matches),
		TopCategories:       aggregate.TopN(aggregate.CategoryCounts(matches), topCategoriesN),
		TopSources:          aggregate.TopN(aggregate.SourceCounts(matches), topSourcesN),
		UrgencyDistribution: aggregate.UrgencyDistribution(matches),
	}
	if windowSize > 0 {
		s.Percentage = float64(len(matches)) / float64(windowSize) * 100
	}
	return s
}
