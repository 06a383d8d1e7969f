// Package service provides business logic for campaigns.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"webexpress_backend/internal/campaigns/repository"
	"webexpress_backend/internal/campaigns/transport"
	appevents "webexpress_backend/internal/events"
	"webexpress_backend/platform/apperr"
	"webexpress_backend/platform/logger"
)

// Service provides business logic for campaigns. The currently active
// campaign is cached process-locally for a short TTL; every admin mutation
// invalidates the cache so discount changes take effect immediately.
type Service struct {
	repo  repository.Repository
	bus   appevents.Bus
	log   *logger.Logger
	cache *activeCache
	now   func() time.Time
}

// New creates a new campaign service.
func New(repo repository.Repository, bus appevents.Bus, log *logger.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		repo:  repo,
		bus:   bus,
		log:   log,
		cache: newActiveCache(cacheTTL, time.Now),
		now:   time.Now,
	}
}

// ActiveCampaign resolves the promotion applying right now. Returns nil when
// no campaign is running. The result is served from cache within the TTL.
func (s *Service) ActiveCampaign(ctx context.Context) (*transport.ActiveCampaignResponse, error) {
	if campaign, ok := s.cache.get(); ok {
		return toActiveResponse(campaign), nil
	}

	campaign, err := s.repo.ActiveAt(ctx, s.now())
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.cache.set(nil)
			return nil, nil
		}
		return nil, err
	}

	s.cache.set(&campaign)
	return toActiveResponse(&campaign), nil
}

// ActiveDiscountPercent returns the sitewide discount percent in effect, zero
// when no campaign runs. Pricing calls this on every quote.
func (s *Service) ActiveDiscountPercent(ctx context.Context) (int, error) {
	active, err := s.ActiveCampaign(ctx)
	if err != nil {
		return 0, err
	}
	if active == nil {
		return 0, nil
	}
	return active.DiscountPercent, nil
}

// List retrieves all campaigns for the admin panel.
func (s *Service) List(ctx context.Context) (transport.CampaignListResponse, error) {
	campaigns, err := s.repo.List(ctx)
	if err != nil {
		return transport.CampaignListResponse{}, err
	}

	items := make([]transport.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, toResponse(campaign))
	}
	return transport.CampaignListResponse{Items: items, Total: len(items)}, nil
}

// Create creates a campaign.
func (s *Service) Create(ctx context.Context, req transport.CreateCampaignRequest) (transport.CampaignResponse, error) {
	if !req.StartDate.Before(req.EndDate) {
		return transport.CampaignResponse{}, apperr.Validation("la fecha de inicio debe ser anterior a la de fin")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	campaign, err := s.repo.Create(ctx, repository.CreateCampaignParams{
		Name:            strings.TrimSpace(req.Name),
		DiscountPercent: req.DiscountPercent,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        isActive,
		Priority:        req.Priority,
	})
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	s.afterMutation(ctx, campaign.ID, "created")
	s.log.Info("campaign created", "id", campaign.ID, "name", campaign.Name, "discount", campaign.DiscountPercent)
	return toResponse(campaign), nil
}

// Update updates a campaign.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCampaignRequest) (transport.CampaignResponse, error) {
	if req.StartDate != nil && req.EndDate != nil && !req.StartDate.Before(*req.EndDate) {
		return transport.CampaignResponse{}, apperr.Validation("la fecha de inicio debe ser anterior a la de fin")
	}

	campaign, err := s.repo.Update(ctx, repository.UpdateCampaignParams{
		ID:              id,
		Name:            req.Name,
		DiscountPercent: req.DiscountPercent,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        req.IsActive,
		Priority:        req.Priority,
	})
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	s.afterMutation(ctx, campaign.ID, "updated")
	s.log.Info("campaign updated", "id", campaign.ID, "name", campaign.Name)
	return toResponse(campaign), nil
}

// Delete removes a campaign.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.afterMutation(ctx, id, "deleted")
	s.log.Info("campaign deleted", "id", id)
	return nil
}

// End closes a running campaign immediately.
func (s *Service) End(ctx context.Context, id uuid.UUID) (transport.CampaignResponse, error) {
	campaign, err := s.repo.EndNow(ctx, id, s.now())
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	s.afterMutation(ctx, campaign.ID, "ended")
	s.log.Info("campaign ended", "id", campaign.ID, "name", campaign.Name)
	return toResponse(campaign), nil
}

func (s *Service) afterMutation(ctx context.Context, id uuid.UUID, action string) {
	s.cache.invalidate()
	s.bus.Publish(ctx, appevents.CampaignChanged{
		BaseEvent:  appevents.NewBaseEvent(),
		CampaignID: id,
		Action:     action,
	})
}

func toResponse(c repository.Campaign) transport.CampaignResponse {
	return transport.CampaignResponse{
		ID:              c.ID,
		Name:            c.Name,
		DiscountPercent: c.DiscountPercent,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		IsActive:        c.IsActive,
		Priority:        c.Priority,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toActiveResponse(c *repository.Campaign) *transport.ActiveCampaignResponse {
	if c == nil {
		return nil
	}
	return &transport.ActiveCampaignResponse{
		ID:              c.ID,
		Name:            c.Name,
		DiscountPercent: c.DiscountPercent,
		EndDate:         c.EndDate,
	}
}
