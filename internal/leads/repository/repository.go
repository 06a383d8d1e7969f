// Package repository provides lead persistence.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"webexpress_backend/internal/leads/domain"
	"webexpress_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

// FunnelStats aggregates wizard progress across all recorded sessions.
type FunnelStats struct {
	Started      int
	ReachedStep2 int
	ReachedStep3 int
	ReachedStep4 int
	Completed    int
}

type ListLeadsParams struct {
	OnlyCompleted bool
	Offset        int
	Limit         int
}

// Repository defines the lead persistence operations.
type Repository interface {
	// UpsertBySession merges the incoming lead with any stored record for the
	// same session id and writes the result. The merge is deterministic, so a
	// retried submission converges to the same row.
	UpsertBySession(ctx context.Context, incoming domain.Lead) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	GetBySessionID(ctx context.Context, sessionID string) (domain.Lead, error)
	List(ctx context.Context, params ListLeadsParams) ([]domain.Lead, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (FunnelStats, error)
}

// Repo implements the lead repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lead repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const leadColumns = "id, session_id, fingerprint, name, email, phone, message, plan_id, addon_ids, timeline_id, step_reached, completed, initial_total, monthly_total, created_at, updated_at"

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	var addonJSON []byte
	if err := row.Scan(
		&lead.ID, &lead.SessionID, &lead.Fingerprint, &lead.Name, &lead.Email,
		&lead.Phone, &lead.Message, &lead.PlanID, &addonJSON, &lead.TimelineID,
		&lead.StepReached, &lead.Completed, &lead.InitialTotal, &lead.MonthlyTotal,
		&lead.CreatedAt, &lead.UpdatedAt,
	); err != nil {
		return domain.Lead{}, err
	}
	if err := json.Unmarshal(addonJSON, &lead.AddonIDs); err != nil {
		return domain.Lead{}, fmt.Errorf("decode lead addon ids: %w", err)
	}
	return lead, nil
}

// UpsertBySession merges and writes a lead inside a transaction. The stored
// row is locked while merging so concurrent writes for one session serialize.
func (r *Repo) UpsertBySession(ctx context.Context, incoming domain.Lead) (domain.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("begin lead upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	stored, err := scanLead(tx.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE session_id = $1 FOR UPDATE`,
		incoming.SessionID,
	))

	var merged domain.Lead
	switch {
	case err == nil:
		merged = domain.Merge(stored, incoming)
	case errors.Is(err, pgx.ErrNoRows):
		merged = incoming
	default:
		return domain.Lead{}, fmt.Errorf("load lead for merge: %w", err)
	}

	addonJSON, err := json.Marshal(addonIDsOrEmpty(merged.AddonIDs))
	if err != nil {
		return domain.Lead{}, fmt.Errorf("encode lead addon ids: %w", err)
	}

	query := `
		INSERT INTO leads (session_id, fingerprint, name, email, phone, message,
			plan_id, addon_ids, timeline_id, step_reached, completed,
			initial_total, monthly_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (session_id) DO UPDATE SET
			fingerprint = EXCLUDED.fingerprint,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			message = EXCLUDED.message,
			plan_id = EXCLUDED.plan_id,
			addon_ids = EXCLUDED.addon_ids,
			timeline_id = EXCLUDED.timeline_id,
			step_reached = EXCLUDED.step_reached,
			completed = EXCLUDED.completed,
			initial_total = EXCLUDED.initial_total,
			monthly_total = EXCLUDED.monthly_total,
			updated_at = now()
		RETURNING ` + leadColumns

	saved, err := scanLead(tx.QueryRow(ctx, query,
		merged.SessionID, merged.Fingerprint, merged.Name, merged.Email,
		merged.Phone, merged.Message, merged.PlanID, addonJSON, merged.TimelineID,
		merged.StepReached, merged.Completed, merged.InitialTotal, merged.MonthlyTotal,
	))
	if err != nil {
		return domain.Lead{}, fmt.Errorf("upsert lead: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, fmt.Errorf("commit lead upsert: %w", err)
	}
	return saved, nil
}

// GetByID retrieves a lead by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// GetBySessionID retrieves a lead by session id.
func (r *Repo) GetBySessionID(ctx context.Context, sessionID string) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE session_id = $1`, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("get lead by session: %w", err)
	}
	return lead, nil
}

// List retrieves leads newest first with the total count.
func (r *Repo) List(ctx context.Context, params ListLeadsParams) ([]domain.Lead, int, error) {
	where := ""
	if params.OnlyCompleted {
		where = " WHERE completed"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := `SELECT ` + leadColumns + ` FROM leads` + where + `
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", rows.Err())
	}
	return leads, total, nil
}

// Delete removes a lead.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// Stats aggregates funnel progress over all leads.
func (r *Repo) Stats(ctx context.Context) (FunnelStats, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE step_reached >= 2),
			COUNT(*) FILTER (WHERE step_reached >= 3),
			COUNT(*) FILTER (WHERE step_reached >= 4),
			COUNT(*) FILTER (WHERE completed)
		FROM leads`

	var stats FunnelStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Started, &stats.ReachedStep2, &stats.ReachedStep3,
		&stats.ReachedStep4, &stats.Completed,
	); err != nil {
		return FunnelStats{}, fmt.Errorf("funnel stats: %w", err)
	}
	return stats, nil
}

func addonIDsOrEmpty(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
