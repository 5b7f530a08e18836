package segment

import "github.com/pulseboard/pulseboard/internal/feedback"

// candidate is the evaluation context for one record: the record itself
// plus the aggregate stats of the customer it belongs to.
type candidate struct {
	record        feedback.Record
	customerCount int
	customerAvg   float64
}

// Criterion is one declarative predicate of a segment definition. The
// set of implementations is closed: CountRange, SentimentRange,
// CategoryMembership, UrgencySet and ContentLengthRange. A definition's
// criteria are AND-ed; a criterion absent from a definition is
// vacuously satisfied.
type Criterion interface {
	matches(c candidate) bool
}

// CountRange bounds the number of feedback items from the candidate's
// customer. Max <= 0 means unbounded above.
type CountRange struct {
	Min int
	Max int
}

func (cr CountRange) matches(c candidate) bool {
	if c.customerCount < cr.Min {
		return false
	}
	if cr.Max > 0 && c.customerCount > cr.Max {
		return false
	}
	return true
}

// SentimentRange bounds the customer's bipolar sentiment average.
// Bounds are inclusive; use -1 and 1 for one-sided ranges.
type SentimentRange struct {
	Min float64
	Max float64
}

func (sr SentimentRange) matches(c candidate) bool {
	return c.customerAvg >= sr.Min && c.customerAvg <= sr.Max
}

// CategoryMembership requires the candidate record to carry at least
// one of the listed category tags.
type CategoryMembership struct {
	Categories []string
}

func (cm CategoryMembership) matches(c candidate) bool {
	for _, cat := range cm.Categories {
		if c.record.HasCategory(cat) {
			return true
		}
	}
	return false
}

// UrgencySet requires the candidate record's urgency to be a member.
type UrgencySet struct {
	Urgencies []feedback.Urgency
}

func (us UrgencySet) matches(c candidate) bool {
	for _, u := range us.Urgencies {
		if c.record.Urgency == u {
			return true
		}
	}
	return false
}

// ContentLengthRange bounds the record's content length in bytes.
// Max <= 0 means unbounded above.
type ContentLengthRange struct {
	Min int
	Max int
}

func (clr ContentLengthRange) matches(c candidate) bool {
	n := len(c.record.Content)
	if n < clr.Min {
		return false
	}
	if clr.Max > 0 && n > clr.Max {
		return false
	}
	return true
}
