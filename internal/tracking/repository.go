package tracking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository appends funnel telemetry to the quote_events journal. The
// journal is append-only; the funnel-stats queries and the ad sinks are its
// only readers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new tracking repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append writes one telemetry row.
func (r *Repository) Append(ctx context.Context, p Payload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode quote event: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO quote_events (session_id, fingerprint, event_name, step, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.SessionID, p.Fingerprint, p.EventName, p.Step, raw, p.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append quote event: %w", err)
	}
	return nil
}
