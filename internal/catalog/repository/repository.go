package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"webexpress_backend/platform/apperr"
)

const (
	planNotFoundMessage    = "plan not found"
	addonNotFoundMessage   = "addon not found"
	rushFeeNotFoundMessage = "rush fee not found"
)

// Plan is a website package offered on the pricing page.
type Plan struct {
	ID           uuid.UUID
	Slug         string
	Name         string
	Price        int64
	Features     []string
	IsPopular    bool
	IsActive     bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Addon is an optional extra with its own billing cadence.
type Addon struct {
	ID           uuid.UUID
	Slug         string
	Name         string
	Price        int64
	PriceMax     *int64
	BillingType  *string
	IsActive     bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RushFee is an expedited-delivery markup row for a (plan, timeline) pair.
type RushFee struct {
	ID              uuid.UUID
	PlanSlug        string
	TimelineID      string
	DisplayName     string
	MarkupPercent   int
	MarkupFixed     *int64
	DeliveryDaysMin *int
	DeliveryDaysMax *int
	IsActive        bool
	DisplayOrder    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreatePlanParams struct {
	Slug         string
	Name         string
	Price        int64
	Features     []string
	IsPopular    bool
	IsActive     bool
	DisplayOrder int
}

type UpdatePlanParams struct {
	ID           uuid.UUID
	Slug         *string
	Name         *string
	Price        *int64
	Features     []string
	IsPopular    *bool
	IsActive     *bool
	DisplayOrder *int
}

type CreateAddonParams struct {
	Slug         string
	Name         string
	Price        int64
	PriceMax     *int64
	BillingType  *string
	IsActive     bool
	DisplayOrder int
}

type UpdateAddonParams struct {
	ID           uuid.UUID
	Slug         *string
	Name         *string
	Price        *int64
	PriceMax     *int64
	BillingType  *string
	IsActive     *bool
	DisplayOrder *int
}

type CreateRushFeeParams struct {
	PlanSlug        string
	TimelineID      string
	DisplayName     string
	MarkupPercent   int
	MarkupFixed     *int64
	DeliveryDaysMin *int
	DeliveryDaysMax *int
	IsActive        bool
	DisplayOrder    int
}

type UpdateRushFeeParams struct {
	ID              uuid.UUID
	DisplayName     *string
	MarkupPercent   *int
	MarkupFixed     *int64
	DeliveryDaysMin *int
	DeliveryDaysMax *int
	IsActive        *bool
	DisplayOrder    *int
}

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const planColumns = "id, slug, name, price, features, is_popular, is_active, display_order, created_at, updated_at"

func scanPlan(row pgx.Row) (Plan, error) {
	var plan Plan
	var featuresJSON []byte
	if err := row.Scan(
		&plan.ID, &plan.Slug, &plan.Name, &plan.Price, &featuresJSON,
		&plan.IsPopular, &plan.IsActive, &plan.DisplayOrder, &plan.CreatedAt, &plan.UpdatedAt,
	); err != nil {
		return Plan{}, err
	}
	if err := json.Unmarshal(featuresJSON, &plan.Features); err != nil {
		return Plan{}, fmt.Errorf("decode plan features: %w", err)
	}
	return plan, nil
}

// CreatePlan inserts a plan.
func (r *Repo) CreatePlan(ctx context.Context, params CreatePlanParams) (Plan, error) {
	featuresJSON, err := json.Marshal(params.Features)
	if err != nil {
		return Plan{}, fmt.Errorf("encode plan features: %w", err)
	}

	query := `
		INSERT INTO plans (slug, name, price, features, is_popular, is_active, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + planColumns

	plan, err := scanPlan(r.pool.QueryRow(ctx, query,
		params.Slug, params.Name, params.Price, featuresJSON,
		params.IsPopular, params.IsActive, params.DisplayOrder,
	))
	if err != nil {
		return Plan{}, fmt.Errorf("create plan: %w", err)
	}
	return plan, nil
}

// UpdatePlan updates a plan. Nil fields keep their current value.
func (r *Repo) UpdatePlan(ctx context.Context, params UpdatePlanParams) (Plan, error) {
	var featuresJSON []byte
	if params.Features != nil {
		encoded, err := json.Marshal(params.Features)
		if err != nil {
			return Plan{}, fmt.Errorf("encode plan features: %w", err)
		}
		featuresJSON = encoded
	}

	query := `
		UPDATE plans
		SET slug = COALESCE($2, slug),
			name = COALESCE($3, name),
			price = COALESCE($4, price),
			features = COALESCE($5, features),
			is_popular = COALESCE($6, is_popular),
			is_active = COALESCE($7, is_active),
			display_order = COALESCE($8, display_order),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + planColumns

	plan, err := scanPlan(r.pool.QueryRow(ctx, query,
		params.ID, params.Slug, params.Name, params.Price, featuresJSON,
		params.IsPopular, params.IsActive, params.DisplayOrder,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, apperr.NotFound(planNotFoundMessage)
		}
		return Plan{}, fmt.Errorf("update plan: %w", err)
	}
	return plan, nil
}

// DeletePlan removes a plan.
func (r *Repo) DeletePlan(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(planNotFoundMessage)
	}
	return nil
}

// GetPlanByID retrieves a plan by ID.
func (r *Repo) GetPlanByID(ctx context.Context, id uuid.UUID) (Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`
	plan, err := scanPlan(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, apperr.NotFound(planNotFoundMessage)
		}
		return Plan{}, fmt.Errorf("get plan by id: %w", err)
	}
	return plan, nil
}

// GetPlanBySlug retrieves a plan by slug.
func (r *Repo) GetPlanBySlug(ctx context.Context, slug string) (Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE slug = $1`
	plan, err := scanPlan(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, apperr.NotFound(planNotFoundMessage)
		}
		return Plan{}, fmt.Errorf("get plan by slug: %w", err)
	}
	return plan, nil
}

// ListPlans lists plans ordered for display.
func (r *Repo) ListPlans(ctx context.Context, onlyActive bool) ([]Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY display_order, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]Plan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate plans: %w", rows.Err())
	}
	return plans, nil
}

// CountPlans returns the total number of plans.
func (r *Repo) CountPlans(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plans`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count plans: %w", err)
	}
	return count, nil
}

const addonColumns = "id, slug, name, price, price_max, billing_type, is_active, display_order, created_at, updated_at"

func scanAddon(row pgx.Row) (Addon, error) {
	var addon Addon
	if err := row.Scan(
		&addon.ID, &addon.Slug, &addon.Name, &addon.Price, &addon.PriceMax,
		&addon.BillingType, &addon.IsActive, &addon.DisplayOrder, &addon.CreatedAt, &addon.UpdatedAt,
	); err != nil {
		return Addon{}, err
	}
	return addon, nil
}

// CreateAddon inserts an add-on.
func (r *Repo) CreateAddon(ctx context.Context, params CreateAddonParams) (Addon, error) {
	query := `
		INSERT INTO addons (slug, name, price, price_max, billing_type, is_active, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + addonColumns

	addon, err := scanAddon(r.pool.QueryRow(ctx, query,
		params.Slug, params.Name, params.Price, params.PriceMax,
		params.BillingType, params.IsActive, params.DisplayOrder,
	))
	if err != nil {
		return Addon{}, fmt.Errorf("create addon: %w", err)
	}
	return addon, nil
}

// UpdateAddon updates an add-on. Nil fields keep their current value.
func (r *Repo) UpdateAddon(ctx context.Context, params UpdateAddonParams) (Addon, error) {
	query := `
		UPDATE addons
		SET slug = COALESCE($2, slug),
			name = COALESCE($3, name),
			price = COALESCE($4, price),
			price_max = COALESCE($5, price_max),
			billing_type = COALESCE($6, billing_type),
			is_active = COALESCE($7, is_active),
			display_order = COALESCE($8, display_order),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + addonColumns

	addon, err := scanAddon(r.pool.QueryRow(ctx, query,
		params.ID, params.Slug, params.Name, params.Price, params.PriceMax,
		params.BillingType, params.IsActive, params.DisplayOrder,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Addon{}, apperr.NotFound(addonNotFoundMessage)
		}
		return Addon{}, fmt.Errorf("update addon: %w", err)
	}
	return addon, nil
}

// DeleteAddon removes an add-on.
func (r *Repo) DeleteAddon(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM addons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete addon: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(addonNotFoundMessage)
	}
	return nil
}

// GetAddonByID retrieves an add-on by ID.
func (r *Repo) GetAddonByID(ctx context.Context, id uuid.UUID) (Addon, error) {
	query := `SELECT ` + addonColumns + ` FROM addons WHERE id = $1`
	addon, err := scanAddon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Addon{}, apperr.NotFound(addonNotFoundMessage)
		}
		return Addon{}, fmt.Errorf("get addon by id: %w", err)
	}
	return addon, nil
}

// ListAddons lists add-ons ordered for display.
func (r *Repo) ListAddons(ctx context.Context, onlyActive bool) ([]Addon, error) {
	query := `SELECT ` + addonColumns + ` FROM addons`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY display_order, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	defer rows.Close()

	addons := make([]Addon, 0)
	for rows.Next() {
		addon, err := scanAddon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan addon: %w", err)
		}
		addons = append(addons, addon)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate addons: %w", rows.Err())
	}
	return addons, nil
}

// ListAddonsByIDs retrieves the add-ons matching the given ids.
func (r *Repo) ListAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]Addon, error) {
	if len(ids) == 0 {
		return []Addon{}, nil
	}

	query := `SELECT ` + addonColumns + ` FROM addons WHERE id = ANY($1) ORDER BY display_order, name`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list addons by ids: %w", err)
	}
	defer rows.Close()

	addons := make([]Addon, 0, len(ids))
	for rows.Next() {
		addon, err := scanAddon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan addon: %w", err)
		}
		addons = append(addons, addon)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate addons: %w", rows.Err())
	}
	return addons, nil
}

const rushFeeColumns = "id, plan_slug, timeline_id, display_name, markup_percent, markup_fixed, delivery_days_min, delivery_days_max, is_active, display_order, created_at, updated_at"

func scanRushFee(row pgx.Row) (RushFee, error) {
	var fee RushFee
	if err := row.Scan(
		&fee.ID, &fee.PlanSlug, &fee.TimelineID, &fee.DisplayName, &fee.MarkupPercent,
		&fee.MarkupFixed, &fee.DeliveryDaysMin, &fee.DeliveryDaysMax,
		&fee.IsActive, &fee.DisplayOrder, &fee.CreatedAt, &fee.UpdatedAt,
	); err != nil {
		return RushFee{}, err
	}
	return fee, nil
}

// CreateRushFee inserts a rush-fee row.
func (r *Repo) CreateRushFee(ctx context.Context, params CreateRushFeeParams) (RushFee, error) {
	query := `
		INSERT INTO rush_fees (plan_slug, timeline_id, display_name, markup_percent, markup_fixed,
			delivery_days_min, delivery_days_max, is_active, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + rushFeeColumns

	fee, err := scanRushFee(r.pool.QueryRow(ctx, query,
		params.PlanSlug, params.TimelineID, params.DisplayName, params.MarkupPercent,
		params.MarkupFixed, params.DeliveryDaysMin, params.DeliveryDaysMax,
		params.IsActive, params.DisplayOrder,
	))
	if err != nil {
		return RushFee{}, fmt.Errorf("create rush fee: %w", err)
	}
	return fee, nil
}

// UpdateRushFee updates a rush-fee row. Nil fields keep their current value.
func (r *Repo) UpdateRushFee(ctx context.Context, params UpdateRushFeeParams) (RushFee, error) {
	query := `
		UPDATE rush_fees
		SET display_name = COALESCE($2, display_name),
			markup_percent = COALESCE($3, markup_percent),
			markup_fixed = COALESCE($4, markup_fixed),
			delivery_days_min = COALESCE($5, delivery_days_min),
			delivery_days_max = COALESCE($6, delivery_days_max),
			is_active = COALESCE($7, is_active),
			display_order = COALESCE($8, display_order),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + rushFeeColumns

	fee, err := scanRushFee(r.pool.QueryRow(ctx, query,
		params.ID, params.DisplayName, params.MarkupPercent, params.MarkupFixed,
		params.DeliveryDaysMin, params.DeliveryDaysMax, params.IsActive, params.DisplayOrder,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RushFee{}, apperr.NotFound(rushFeeNotFoundMessage)
		}
		return RushFee{}, fmt.Errorf("update rush fee: %w", err)
	}
	return fee, nil
}

// DeleteRushFee removes a rush-fee row.
func (r *Repo) DeleteRushFee(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM rush_fees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rush fee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(rushFeeNotFoundMessage)
	}
	return nil
}

// ListRushFees lists all rush-fee rows.
func (r *Repo) ListRushFees(ctx context.Context) ([]RushFee, error) {
	query := `SELECT ` + rushFeeColumns + ` FROM rush_fees ORDER BY plan_slug, display_order`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rush fees: %w", err)
	}
	defer rows.Close()

	fees := make([]RushFee, 0)
	for rows.Next() {
		fee, err := scanRushFee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rush fee: %w", err)
		}
		fees = append(fees, fee)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate rush fees: %w", rows.Err())
	}
	return fees, nil
}

// ListRushFeesForPlan lists active rush-fee rows for a plan slug, first match
// by display order.
func (r *Repo) ListRushFeesForPlan(ctx context.Context, planSlug string) ([]RushFee, error) {
	query := `SELECT ` + rushFeeColumns + ` FROM rush_fees
		WHERE plan_slug = $1 AND is_active
		ORDER BY display_order, delivery_days_max NULLS LAST`

	rows, err := r.pool.Query(ctx, query, planSlug)
	if err != nil {
		return nil, fmt.Errorf("list rush fees for plan: %w", err)
	}
	defer rows.Close()

	fees := make([]RushFee, 0)
	for rows.Next() {
		fee, err := scanRushFee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rush fee: %w", err)
		}
		fees = append(fees, fee)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate rush fees: %w", rows.Err())
	}
	return fees, nil
}
