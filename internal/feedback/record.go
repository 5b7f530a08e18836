package feedback

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sentiment is the tagged sentiment of a feedback record.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// Urgency is the triage urgency of a feedback record.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Urgencies lists all urgency values in ascending order. Used for
// zero-filled distributions.
var Urgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}

// Record is a single piece of customer feedback as stored by the
// ingestion pipeline. The analytics engines treat records as read-only;
// CreatedAt is the only ordering key.
type Record struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	Content       string    `json:"content"`
	Sentiment     Sentiment `json:"sentiment"`
	Urgency       Urgency   `json:"urgency"`
	Categories    []string  `json:"categories"`
	Source        string    `json:"source"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	IsResolved    bool      `json:"is_resolved"`
}

// HasCategory reports whether the record carries the given category tag.
func (r Record) HasCategory(category string) bool {
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsUrgent reports whether the record is high or critical urgency.
func (r Record) IsUrgent() bool {
	return r.Urgency == UrgencyHigh || r.Urgency == UrgencyCritical
}

// ValidSentiment reports whether s is one of the enumerated sentiment values.
func ValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
		return true
	}
	return false
}

// ValidUrgency reports whether u is one of the enumerated urgency values.
func ValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// TimeRange is a named lookback window for feedback queries.
type TimeRange string

const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range60d TimeRange = "60d"
	Range90d TimeRange = "90d"
)

// Days returns the lookback length, or an error for unknown ranges.
func (tr TimeRange) Days() (int, error) {
	switch tr {
	case Range7d:
		return 7, nil
	case Range30d:
		return 30, nil
	case Range60d:
		return 60, nil
	case Range90d:
		return 90, nil
	}
	return 0, fmt.Errorf("unknown time range %q", tr)
}

// Cutoff returns the earliest CreatedAt admitted by the range, relative to now.
func (tr TimeRange) Cutoff(now time.Time) (time.Time, error) {
	days, err := tr.Days()
	if err != nil {
		return time.Time{}, err
	}
	return now.AddDate(0, 0, -days), nil
}

// SourceAll disables source filtering in a Query.
const SourceAll = "all"

// Query describes a window fetch against the feedback store: records
// newer than the range cutoff, optionally restricted to one source,
// newest first, truncated to Limit when Limit > 0.
type Query struct {
	TimeRange TimeRange
	Source    string
	Limit     int
}
