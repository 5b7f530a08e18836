// Package engine orchestrates the analytics pipeline: fetch one
// tenant-scoped feedback window from the provider, run the risk scorer
// or segmentation classifier over it, and return the derived view. The
// engine never writes back to storage and never re-queries
// mid-computation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/bus"
	"github.com/pulseboard/pulseboard/internal/feedback"
	"github.com/pulseboard/pulseboard/internal/risk"
	"github.com/pulseboard/pulseboard/internal/segment"
)

// ErrInvalidOptions marks a malformed request shape: a time range or
// option value outside the documented contract.
var ErrInvalidOptions = errors.New("invalid options")

// WindowProvider supplies tenant-scoped, time/source-filtered feedback
// windows, newest first. Implemented by the store; fakes in tests.
type WindowProvider interface {
	Window(ctx context.Context, tenantID uuid.UUID, q feedback.Query) ([]feedback.Record, error)
}

// Alerter publishes outbound events. Implemented by the bus client.
type Alerter interface {
	Publish(subject string, data any) error
}

// RiskOptions tune one churn-risk computation.
type RiskOptions struct {
	TimeRange      feedback.TimeRange
	Source         string
	IncludeDetails bool
}

// DefaultRiskOptions matches the documented call defaults: 90 days,
// all sources, details included.
func DefaultRiskOptions() RiskOptions {
	return RiskOptions{TimeRange: feedback.Range90d, Source: feedback.SourceAll, IncludeDetails: true}
}

// SegmentOptions tune one segmentation call.
type SegmentOptions struct {
	TimeRange       feedback.TimeRange
	Source          string
	Limit           int
	IncludeMetadata bool
}

// DefaultSegmentOptions matches the documented call defaults: 30 days,
// all sources, 1000 records, metadata included.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{TimeRange: feedback.Range30d, Source: feedback.SourceAll, Limit: 1000, IncludeMetadata: true}
}

// SegmentMetadata describes the window a classification ran over.
type SegmentMetadata struct {
	TotalFeedback int             `json:"total_feedback"`
	TimeRange     string          `json:"time_range"`
	Source        string          `json:"source"`
	SegmentType   segment.Type    `json:"segment_type"`
	AnalysisDate  time.Time       `json:"analysis_date"`
	Insights      segment.Summary `json:"insights"`
}

// SegmentResult is the full output of one classification call.
type SegmentResult struct {
	Segments []segment.Segment `json:"segments"`
	Metadata *SegmentMetadata  `json:"metadata,omitempty"`
}

// Engine wires the provider to the pure analytics components.
type Engine struct {
	provider WindowProvider
	scorer   *risk.Engine
	alerts   Alerter
	cache    *ttlCache
	logger   *slog.Logger
}

// New builds an engine. alerts may be nil (no outbound alerting);
// cacheTTL <= 0 disables the advisory cache.
func New(provider WindowProvider, scorer *risk.Engine, alerts Alerter, cacheTTL time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		provider: provider,
		scorer:   scorer,
		alerts:   alerts,
		cache:    newTTLCache(cacheTTL),
		logger:   logger,
	}
}

// ComputeChurnRisk fetches the tenant's window and scores it. Provider
// failures propagate wrapped and unretried; the computation itself is
// total once the window is in memory.
func (e *Engine) ComputeChurnRisk(ctx context.Context, tenantID uuid.UUID, opts RiskOptions) (*risk.Assessment, error) {
	opts = normalizeRiskOptions(opts)
	if _, err := opts.TimeRange.Days(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOptions, err)
	}

	key := fmt.Sprintf("risk|%s|%s|%s|%v", tenantID, opts.TimeRange, opts.Source, opts.IncludeDetails)
	if cached, ok := e.cache.get(key); ok {
		return cached.(*risk.Assessment), nil
	}

	window, err := e.provider.Window(ctx, tenantID, feedback.Query{
		TimeRange: opts.TimeRange,
		Source:    opts.Source,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch feedback window: %w", err)
	}

	assessment := e.scorer.Score(window, time.Now().UTC())
	assessment.Metadata.TimeRange = string(opts.TimeRange)
	assessment.Metadata.Source = opts.Source
	if !opts.IncludeDetails {
		assessment.ChurnFactors = nil
		assessment.Predictions = nil
	}

	e.logger.Info("churn risk computed",
		"tenant_id", tenantID,
		"score", assessment.RiskScore,
		"level", assessment.RiskLevel,
		"window", len(window),
	)

	e.maybeAlert(tenantID, assessment)
	e.cache.set(key, assessment)
	return assessment, nil
}

// ClassifySegments fetches the tenant's window and partitions it into
// the named cohorts of the requested segmentation axis.
func (e *Engine) ClassifySegments(ctx context.Context, tenantID uuid.UUID, segmentType segment.Type, opts SegmentOptions) (*SegmentResult, error) {
	opts = normalizeSegmentOptions(opts)
	if _, err := opts.TimeRange.Days(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOptions, err)
	}
	// Reject unknown axes before paying for the window fetch.
	if _, err := segment.Catalog(segmentType); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("segments|%s|%s|%s|%s|%d", tenantID, segmentType, opts.TimeRange, opts.Source, opts.Limit)
	if cached, ok := e.cache.get(key); ok {
		return cached.(*SegmentResult), nil
	}

	window, err := e.provider.Window(ctx, tenantID, feedback.Query{
		TimeRange: opts.TimeRange,
		Source:    opts.Source,
		Limit:     opts.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch feedback window: %w", err)
	}

	segments, err := segment.Classify(window, segmentType)
	if err != nil {
		return nil, err
	}

	result := &SegmentResult{Segments: segments}
	if opts.IncludeMetadata {
		result.Metadata = &SegmentMetadata{
			TotalFeedback: len(window),
			TimeRange:     string(opts.TimeRange),
			Source:        opts.Source,
			SegmentType:   segmentType,
			AnalysisDate:  time.Now().UTC(),
			Insights:      segment.Summarize(segments),
		}
	}

	e.logger.Info("segments classified",
		"tenant_id", tenantID,
		"segment_type", segmentType,
		"segments", len(segments),
		"window", len(window),
	)

	e.cache.set(key, result)
	return result, nil
}

// maybeAlert publishes a risk alert for high and critical assessments.
// Alert failures are logged, never surfaced: alerting is a side
// channel, not part of the computation contract.
func (e *Engine) maybeAlert(tenantID uuid.UUID, a *risk.Assessment) {
	if e.alerts == nil {
		return
	}
	if a.RiskLevel != risk.LevelHigh && a.RiskLevel != risk.LevelCritical {
		return
	}

	factorTypes := make([]string, 0, len(a.ChurnFactors))
	for _, f := range a.ChurnFactors {
		factorTypes = append(factorTypes, string(f.Type))
	}

	alert := bus.RiskAlert{
		TenantID:             tenantID.String(),
		RiskScore:            a.RiskScore,
		RiskLevel:            string(a.RiskLevel),
		RetentionProbability: a.RetentionProbability,
		FactorTypes:          factorTypes,
		TimeRange:            a.Metadata.TimeRange,
		AnalysisDate:         a.Metadata.AnalysisDate,
	}
	if err := e.alerts.Publish(bus.SubjectRiskAlert, alert); err != nil {
		e.logger.Error("failed to publish risk alert", "tenant_id", tenantID, "error", err)
	}
}

func normalizeRiskOptions(opts RiskOptions) RiskOptions {
	if opts.TimeRange == "" {
		opts.TimeRange = feedback.Range90d
	}
	if opts.Source == "" {
		opts.Source = feedback.SourceAll
	}
	return opts
}

func normalizeSegmentOptions(opts SegmentOptions) SegmentOptions {
	if opts.TimeRange == "" {
		opts.TimeRange = feedback.Range30d
	}
	if opts.Source == "" {
		opts.Source = feedback.SourceAll
	}
	if opts.Limit <= 0 {
		opts.Limit = 1000
	}
	return opts
}
