// Package repository provides campaign persistence.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"webexpress_backend/platform/apperr"
)

const campaignNotFoundMessage = "campaign not found"

// Campaign is a time-boxed sitewide discount.
type Campaign struct {
	ID              uuid.UUID
	Name            string
	DiscountPercent int
	StartDate       time.Time
	EndDate         time.Time
	IsActive        bool
	Priority        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateCampaignParams struct {
	Name            string
	DiscountPercent int
	StartDate       time.Time
	EndDate         time.Time
	IsActive        bool
	Priority        int
}

type UpdateCampaignParams struct {
	ID              uuid.UUID
	Name            *string
	DiscountPercent *int
	StartDate       *time.Time
	EndDate         *time.Time
	IsActive        *bool
	Priority        *int
}

// Repository defines the campaign persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateCampaignParams) (Campaign, error)
	Update(ctx context.Context, params UpdateCampaignParams) (Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Campaign, error)
	List(ctx context.Context) ([]Campaign, error)
	// ActiveAt returns the highest-priority campaign whose window covers the
	// given instant, or pgx.ErrNoRows wrapped as not found.
	ActiveAt(ctx context.Context, at time.Time) (Campaign, error)
	EndNow(ctx context.Context, id uuid.UUID, at time.Time) (Campaign, error)
}

// Repo implements the campaign repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new campaign repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const campaignColumns = "id, name, discount_percent, start_date, end_date, is_active, priority, created_at, updated_at"

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	if err := row.Scan(
		&c.ID, &c.Name, &c.DiscountPercent, &c.StartDate, &c.EndDate,
		&c.IsActive, &c.Priority, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

// Create inserts a campaign.
func (r *Repo) Create(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	query := `
		INSERT INTO campaigns (name, discount_percent, start_date, end_date, is_active, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + campaignColumns

	campaign, err := scanCampaign(r.pool.QueryRow(ctx, query,
		params.Name, params.DiscountPercent, params.StartDate, params.EndDate,
		params.IsActive, params.Priority,
	))
	if err != nil {
		return Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	return campaign, nil
}

// Update updates a campaign. Nil fields keep their current value.
func (r *Repo) Update(ctx context.Context, params UpdateCampaignParams) (Campaign, error) {
	query := `
		UPDATE campaigns
		SET name = COALESCE($2, name),
			discount_percent = COALESCE($3, discount_percent),
			start_date = COALESCE($4, start_date),
			end_date = COALESCE($5, end_date),
			is_active = COALESCE($6, is_active),
			priority = COALESCE($7, priority),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + campaignColumns

	campaign, err := scanCampaign(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.DiscountPercent, params.StartDate,
		params.EndDate, params.IsActive, params.Priority,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMessage)
		}
		return Campaign{}, fmt.Errorf("update campaign: %w", err)
	}
	return campaign, nil
}

// Delete removes a campaign.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(campaignNotFoundMessage)
	}
	return nil
}

// GetByID retrieves a campaign by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	campaign, err := scanCampaign(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMessage)
		}
		return Campaign{}, fmt.Errorf("get campaign by id: %w", err)
	}
	return campaign, nil
}

// List retrieves all campaigns, newest first.
func (r *Repo) List(ctx context.Context) ([]Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", rows.Err())
	}
	return campaigns, nil
}

// ActiveAt returns the campaign that applies at the given instant.
func (r *Repo) ActiveAt(ctx context.Context, at time.Time) (Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns
		WHERE is_active AND start_date <= $1 AND end_date > $1
		ORDER BY priority DESC, created_at DESC
		LIMIT 1`

	campaign, err := scanCampaign(r.pool.QueryRow(ctx, query, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMessage)
		}
		return Campaign{}, fmt.Errorf("active campaign: %w", err)
	}
	return campaign, nil
}

// EndNow closes a campaign's window at the given instant and deactivates it.
func (r *Repo) EndNow(ctx context.Context, id uuid.UUID, at time.Time) (Campaign, error) {
	query := `
		UPDATE campaigns
		SET end_date = LEAST(end_date, GREATEST($2, start_date + interval '1 second')),
			is_active = FALSE,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + campaignColumns

	campaign, err := scanCampaign(r.pool.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMessage)
		}
		return Campaign{}, fmt.Errorf("end campaign: %w", err)
	}
	return campaign, nil
}
