// Package service provides business logic for the catalog.
package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"webexpress_backend/internal/catalog/repository"
	"webexpress_backend/internal/catalog/transport"
	"webexpress_backend/internal/pricing"
	"webexpress_backend/platform/apperr"
	"webexpress_backend/platform/logger"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Service provides business logic for catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListPlans retrieves plans. Public callers see active plans only.
func (s *Service) ListPlans(ctx context.Context, onlyActive bool) (transport.PlanListResponse, error) {
	plans, err := s.repo.ListPlans(ctx, onlyActive)
	if err != nil {
		return transport.PlanListResponse{}, err
	}
	return toPlanListResponse(plans), nil
}

// GetPlanByID retrieves a plan by ID.
func (s *Service) GetPlanByID(ctx context.Context, id uuid.UUID) (transport.PlanResponse, error) {
	plan, err := s.repo.GetPlanByID(ctx, id)
	if err != nil {
		return transport.PlanResponse{}, err
	}
	return toPlanResponse(plan), nil
}

// CreatePlan creates a new plan.
func (s *Service) CreatePlan(ctx context.Context, req transport.CreatePlanRequest) (transport.PlanResponse, error) {
	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	if !slugPattern.MatchString(slug) {
		return transport.PlanResponse{}, apperr.Validation("el slug debe ser kebab-case en minusculas")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if isActive && len(req.Features) == 0 {
		return transport.PlanResponse{}, apperr.Validation("un plan activo necesita al menos una caracteristica")
	}

	plan, err := s.repo.CreatePlan(ctx, repository.CreatePlanParams{
		Slug:         slug,
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		Features:     req.Features,
		IsPopular:    req.IsPopular,
		IsActive:     isActive,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return transport.PlanResponse{}, err
	}

	s.log.Info("plan created", "id", plan.ID, "slug", plan.Slug)
	return toPlanResponse(plan), nil
}

// UpdatePlan updates an existing plan.
func (s *Service) UpdatePlan(ctx context.Context, id uuid.UUID, req transport.UpdatePlanRequest) (transport.PlanResponse, error) {
	slug := req.Slug
	if slug != nil {
		normalized := strings.TrimSpace(strings.ToLower(*slug))
		if !slugPattern.MatchString(normalized) {
			return transport.PlanResponse{}, apperr.Validation("el slug debe ser kebab-case en minusculas")
		}
		slug = &normalized
	}

	plan, err := s.repo.UpdatePlan(ctx, repository.UpdatePlanParams{
		ID:           id,
		Slug:         slug,
		Name:         req.Name,
		Price:        req.Price,
		Features:     req.Features,
		IsPopular:    req.IsPopular,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return transport.PlanResponse{}, err
	}

	s.log.Info("plan updated", "id", plan.ID, "slug", plan.Slug)
	return toPlanResponse(plan), nil
}

// DeletePlan removes a plan.
func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePlan(ctx, id); err != nil {
		return err
	}
	s.log.Info("plan deleted", "id", id)
	return nil
}

// ListAddons retrieves add-ons. Public callers see active add-ons only.
func (s *Service) ListAddons(ctx context.Context, onlyActive bool) (transport.AddonListResponse, error) {
	addons, err := s.repo.ListAddons(ctx, onlyActive)
	if err != nil {
		return transport.AddonListResponse{}, err
	}
	return toAddonListResponse(addons), nil
}

// CreateAddon creates a new add-on.
func (s *Service) CreateAddon(ctx context.Context, req transport.CreateAddonRequest) (transport.AddonResponse, error) {
	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	if !slugPattern.MatchString(slug) {
		return transport.AddonResponse{}, apperr.Validation("el slug debe ser kebab-case en minusculas")
	}
	if req.PriceMax != nil && *req.PriceMax < req.Price {
		return transport.AddonResponse{}, apperr.Validation("el precio maximo no puede ser menor al precio base")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	addon, err := s.repo.CreateAddon(ctx, repository.CreateAddonParams{
		Slug:         slug,
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		PriceMax:     req.PriceMax,
		BillingType:  req.BillingType,
		IsActive:     isActive,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return transport.AddonResponse{}, err
	}

	s.log.Info("addon created", "id", addon.ID, "slug", addon.Slug)
	return toAddonResponse(addon), nil
}

// UpdateAddon updates an existing add-on.
func (s *Service) UpdateAddon(ctx context.Context, id uuid.UUID, req transport.UpdateAddonRequest) (transport.AddonResponse, error) {
	slug := req.Slug
	if slug != nil {
		normalized := strings.TrimSpace(strings.ToLower(*slug))
		if !slugPattern.MatchString(normalized) {
			return transport.AddonResponse{}, apperr.Validation("el slug debe ser kebab-case en minusculas")
		}
		slug = &normalized
	}

	addon, err := s.repo.UpdateAddon(ctx, repository.UpdateAddonParams{
		ID:           id,
		Slug:         slug,
		Name:         req.Name,
		Price:        req.Price,
		PriceMax:     req.PriceMax,
		BillingType:  req.BillingType,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return transport.AddonResponse{}, err
	}

	s.log.Info("addon updated", "id", addon.ID, "slug", addon.Slug)
	return toAddonResponse(addon), nil
}

// DeleteAddon removes an add-on.
func (s *Service) DeleteAddon(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAddon(ctx, id); err != nil {
		return err
	}
	s.log.Info("addon deleted", "id", id)
	return nil
}

// ListRushFees retrieves all rush-fee rows for the admin panel.
func (s *Service) ListRushFees(ctx context.Context) (transport.RushFeeListResponse, error) {
	fees, err := s.repo.ListRushFees(ctx)
	if err != nil {
		return transport.RushFeeListResponse{}, err
	}
	return toRushFeeListResponse(fees), nil
}

// CreateRushFee creates a rush-fee row.
func (s *Service) CreateRushFee(ctx context.Context, req transport.CreateRushFeeRequest) (transport.RushFeeResponse, error) {
	if req.DeliveryDaysMin != nil && req.DeliveryDaysMax != nil && *req.DeliveryDaysMin > *req.DeliveryDaysMax {
		return transport.RushFeeResponse{}, apperr.Validation("el rango de dias de entrega es invalido")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	fee, err := s.repo.CreateRushFee(ctx, repository.CreateRushFeeParams{
		PlanSlug:        strings.TrimSpace(strings.ToLower(req.PlanSlug)),
		TimelineID:      req.TimelineID,
		DisplayName:     strings.TrimSpace(req.DisplayName),
		MarkupPercent:   req.MarkupPercent,
		MarkupFixed:     req.MarkupFixed,
		DeliveryDaysMin: req.DeliveryDaysMin,
		DeliveryDaysMax: req.DeliveryDaysMax,
		IsActive:        isActive,
		DisplayOrder:    req.DisplayOrder,
	})
	if err != nil {
		return transport.RushFeeResponse{}, err
	}

	s.log.Info("rush fee created", "id", fee.ID, "plan", fee.PlanSlug, "timeline", fee.TimelineID)
	return toRushFeeResponse(fee), nil
}

// UpdateRushFee updates a rush-fee row.
func (s *Service) UpdateRushFee(ctx context.Context, id uuid.UUID, req transport.UpdateRushFeeRequest) (transport.RushFeeResponse, error) {
	if req.DeliveryDaysMin != nil && req.DeliveryDaysMax != nil && *req.DeliveryDaysMin > *req.DeliveryDaysMax {
		return transport.RushFeeResponse{}, apperr.Validation("el rango de dias de entrega es invalido")
	}

	fee, err := s.repo.UpdateRushFee(ctx, repository.UpdateRushFeeParams{
		ID:              id,
		DisplayName:     req.DisplayName,
		MarkupPercent:   req.MarkupPercent,
		MarkupFixed:     req.MarkupFixed,
		DeliveryDaysMin: req.DeliveryDaysMin,
		DeliveryDaysMax: req.DeliveryDaysMax,
		IsActive:        req.IsActive,
		DisplayOrder:    req.DisplayOrder,
	})
	if err != nil {
		return transport.RushFeeResponse{}, err
	}

	s.log.Info("rush fee updated", "id", fee.ID, "plan", fee.PlanSlug, "timeline", fee.TimelineID)
	return toRushFeeResponse(fee), nil
}

// DeleteRushFee removes a rush-fee row.
func (s *Service) DeleteRushFee(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteRushFee(ctx, id); err != nil {
		return err
	}
	s.log.Info("rush fee deleted", "id", id)
	return nil
}

// ResolveTimelines builds the delivery options offered for a plan at step 2 of
// the wizard.
func (s *Service) ResolveTimelines(ctx context.Context, planSlug string) (transport.TimelineListResponse, error) {
	plan, err := s.repo.GetPlanBySlug(ctx, planSlug)
	if err != nil {
		return transport.TimelineListResponse{}, err
	}
	fees, err := s.repo.ListRushFeesForPlan(ctx, planSlug)
	if err != nil {
		return transport.TimelineListResponse{}, err
	}

	pricingPlan := pricing.Plan{Slug: plan.Slug, Name: plan.Name, Price: plan.Price}
	options := pricing.ResolveTimelines(&pricingPlan, toPricingFees(fees))

	items := make([]transport.TimelineOptionResponse, 0, len(options))
	for _, opt := range options {
		items = append(items, transport.TimelineOptionResponse{
			TimelineID:      opt.TimelineID,
			DisplayName:     opt.DisplayName,
			RushAmount:      opt.RushAmount,
			MarkupPercent:   opt.MarkupPercent,
			MarkupFixed:     opt.MarkupFixed,
			DeliveryDaysMin: opt.DeliveryDaysMin,
			DeliveryDaysMax: opt.DeliveryDaysMax,
			IsExpress:       opt.IsExpress,
		})
	}
	return transport.TimelineListResponse{PlanSlug: plan.Slug, Items: items}, nil
}

func toPricingFees(fees []repository.RushFee) []pricing.RushFee {
	out := make([]pricing.RushFee, 0, len(fees))
	for _, fee := range fees {
		out = append(out, pricing.RushFee{
			TimelineID:      fee.TimelineID,
			DisplayName:     fee.DisplayName,
			MarkupPercent:   fee.MarkupPercent,
			MarkupFixed:     fee.MarkupFixed,
			DeliveryDaysMin: fee.DeliveryDaysMin,
			DeliveryDaysMax: fee.DeliveryDaysMax,
			DisplayOrder:    fee.DisplayOrder,
		})
	}
	return out
}

func toPlanResponse(plan repository.Plan) transport.PlanResponse {
	features := plan.Features
	if features == nil {
		features = []string{}
	}
	return transport.PlanResponse{
		ID:           plan.ID,
		Slug:         plan.Slug,
		Name:         plan.Name,
		Price:        plan.Price,
		Features:     features,
		IsPopular:    plan.IsPopular,
		IsActive:     plan.IsActive,
		DisplayOrder: plan.DisplayOrder,
		CreatedAt:    plan.CreatedAt,
		UpdatedAt:    plan.UpdatedAt,
	}
}

func toPlanListResponse(plans []repository.Plan) transport.PlanListResponse {
	items := make([]transport.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		items = append(items, toPlanResponse(plan))
	}
	return transport.PlanListResponse{Items: items, Total: len(items)}
}

func toAddonResponse(addon repository.Addon) transport.AddonResponse {
	return transport.AddonResponse{
		ID:           addon.ID,
		Slug:         addon.Slug,
		Name:         addon.Name,
		Price:        addon.Price,
		PriceMax:     addon.PriceMax,
		BillingType:  addon.BillingType,
		IsActive:     addon.IsActive,
		DisplayOrder: addon.DisplayOrder,
		CreatedAt:    addon.CreatedAt,
		UpdatedAt:    addon.UpdatedAt,
	}
}

func toAddonListResponse(addons []repository.Addon) transport.AddonListResponse {
	items := make([]transport.AddonResponse, 0, len(addons))
	for _, addon := range addons {
		items = append(items, toAddonResponse(addon))
	}
	return transport.AddonListResponse{Items: items, Total: len(items)}
}

func toRushFeeResponse(fee repository.RushFee) transport.RushFeeResponse {
	return transport.RushFeeResponse{
		ID:              fee.ID,
		PlanSlug:        fee.PlanSlug,
		TimelineID:      fee.TimelineID,
		DisplayName:     fee.DisplayName,
		MarkupPercent:   fee.MarkupPercent,
		MarkupFixed:     fee.MarkupFixed,
		DeliveryDaysMin: fee.DeliveryDaysMin,
		DeliveryDaysMax: fee.DeliveryDaysMax,
		IsActive:        fee.IsActive,
		DisplayOrder:    fee.DisplayOrder,
		CreatedAt:       fee.CreatedAt,
		UpdatedAt:       fee.UpdatedAt,
	}
}

func toRushFeeListResponse(fees []repository.RushFee) transport.RushFeeListResponse {
	items := make([]transport.RushFeeResponse, 0, len(fees))
	for _, fee := range fees {
		items = append(items, toRushFeeResponse(fee))
	}
	return transport.RushFeeListResponse{Items: items, Total: len(items)}
}
