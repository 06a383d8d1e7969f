package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the catalog persistence operations.
type Repository interface {
	CreatePlan(ctx context.Context, params CreatePlanParams) (Plan, error)
	UpdatePlan(ctx context.Context, params UpdatePlanParams) (Plan, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
	GetPlanByID(ctx context.Context, id uuid.UUID) (Plan, error)
	GetPlanBySlug(ctx context.Context, slug string) (Plan, error)
	ListPlans(ctx context.Context, onlyActive bool) ([]Plan, error)
	CountPlans(ctx context.Context) (int, error)

	CreateAddon(ctx context.Context, params CreateAddonParams) (Addon, error)
	UpdateAddon(ctx context.Context, params UpdateAddonParams) (Addon, error)
	DeleteAddon(ctx context.Context, id uuid.UUID) error
	GetAddonByID(ctx context.Context, id uuid.UUID) (Addon, error)
	ListAddons(ctx context.Context, onlyActive bool) ([]Addon, error)
	ListAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]Addon, error)

	CreateRushFee(ctx context.Context, params CreateRushFeeParams) (RushFee, error)
	UpdateRushFee(ctx context.Context, params UpdateRushFeeParams) (RushFee, error)
	DeleteRushFee(ctx context.Context, id uuid.UUID) error
	ListRushFees(ctx context.Context) ([]RushFee, error)
	ListRushFeesForPlan(ctx context.Context, planSlug string) ([]RushFee, error)
}
