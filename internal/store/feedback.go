package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/feedback"
)

// windowRetries bounds the transient-failure retries on a window fetch.
// Retrying belongs here, at the provider: the analytics engines never
// re-query mid-computation.
const windowRetries = 3

// Window fetches the tenant's feedback window per the provider
// contract: records with created_at on or after the range cutoff,
// optionally filtered to one source, newest first, truncated to
// q.Limit when positive. An empty window is a valid result.
func (s *Store) Window(ctx context.Context, tenantID uuid.UUID, q feedback.Query) ([]feedback.Record, error) {
	cutoff, err := q.TimeRange.Cutoff(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve window cutoff: %w", err)
	}

	query := `
		SELECT id, tenant_id, content, sentiment, urgency, categories, source, customer_email, created_at, is_resolved
		FROM feedback
		WHERE tenant_id = $1 AND created_at >= $2`
	args := []any{tenantID, cutoff}

	if q.Source != "" && q.Source != feedback.SourceAll {
		args = append(args, q.Source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var records []feedback.Record
	fetch := func() error {
		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query feedback window: %w", err)
		}
		defer rows.Close()

		records = records[:0]
		for rows.Next() {
			var r feedback.Record
			var email *string
			if err := rows.Scan(&r.ID, &r.TenantID, &r.Content, &r.Sentiment, &r.Urgency,
				&r.Categories, &r.Source, &email, &r.CreatedAt, &r.IsResolved); err != nil {
				return fmt.Errorf("scan feedback row: %w", err)
			}
			if email != nil {
				r.CustomerEmail = *email
			}
			records = append(records, r)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate feedback rows: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), windowRetries), ctx)
	if err := backoff.Retry(fetch, policy); err != nil {
		return nil, err
	}
	return records, nil
}

// InsertFeedback writes one feedback record and returns its id.
// A nil Categories slice is stored as an empty array, and an empty
// CustomerEmail as NULL.
func (s *Store) InsertFeedback(ctx context.Context, r feedback.Record) (uuid.UUID, error) {
	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	categories := r.Categories
	if categories == nil {
		categories = []string{}
	}
	var email *string
	if r.CustomerEmail != "" {
		email = &r.CustomerEmail
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO feedback (id, tenant_id, content, sentiment, urgency, categories, source, customer_email, created_at, is_resolved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, r.TenantID, r.Content, r.Sentiment, r.Urgency, categories, r.Source, email, createdAt, r.IsResolved,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert feedback: %w", err)
	}
	return id, nil
}
