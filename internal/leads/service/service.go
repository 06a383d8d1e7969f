// Package service provides business logic for leads.
package service

import (
	"context"

	"github.com/google/uuid"

	"webexpress_backend/internal/leads/domain"
	"webexpress_backend/internal/leads/repository"
	"webexpress_backend/internal/leads/transport"
	"webexpress_backend/platform/logger"
)

// Started sessions undercount actual page views because only visitors who
// open the wizard create a session. The 1.3 factor matches the historical
// ratio observed in analytics and is reported as non-authoritative.
const pageViewFactor = 1.3

// Service provides business logic for leads.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new lead service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Record merges a lead snapshot into the stored record for its session.
func (s *Service) Record(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	saved, err := s.repo.UpsertBySession(ctx, lead)
	if err != nil {
		return domain.Lead{}, err
	}

	s.log.Debug("lead recorded",
		"session", saved.SessionID,
		"step", saved.StepReached,
		"completed", saved.Completed,
		"score", domain.Score(saved))
	return saved, nil
}

// GetBySessionID retrieves the lead recorded for a session.
func (s *Service) GetBySessionID(ctx context.Context, sessionID string) (domain.Lead, error) {
	return s.repo.GetBySessionID(ctx, sessionID)
}

// List retrieves leads for the admin panel.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	leads, total, err := s.repo.List(ctx, repository.ListLeadsParams{
		OnlyCompleted: req.OnlyCompleted,
		Offset:        (page - 1) * pageSize,
		Limit:         pageSize,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toResponse(lead))
	}
	return transport.LeadListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toResponse(lead), nil
}

// Delete removes a lead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("lead deleted", "id", id)
	return nil
}

// FunnelStats aggregates wizard progress for the admin dashboard.
func (s *Service) FunnelStats(ctx context.Context) (transport.FunnelStatsResponse, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return transport.FunnelStatsResponse{}, err
	}

	var conversion float64
	if stats.Started > 0 {
		conversion = float64(stats.Completed) / float64(stats.Started)
	}

	return transport.FunnelStatsResponse{
		Started:            stats.Started,
		ReachedStep2:       stats.ReachedStep2,
		ReachedStep3:       stats.ReachedStep3,
		ReachedStep4:       stats.ReachedStep4,
		Completed:          stats.Completed,
		ConversionRate:     conversion,
		EstimatedPageViews: int(float64(stats.Started) * pageViewFactor),
		Authoritative:      false,
	}, nil
}

func toResponse(lead domain.Lead) transport.LeadResponse {
	addonIDs := lead.AddonIDs
	if addonIDs == nil {
		addonIDs = []uuid.UUID{}
	}
	return transport.LeadResponse{
		ID:           lead.ID,
		SessionID:    lead.SessionID,
		Fingerprint:  lead.Fingerprint,
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Message:      lead.Message,
		PlanID:       lead.PlanID,
		AddonIDs:     addonIDs,
		TimelineID:   lead.TimelineID,
		StepReached:  lead.StepReached,
		Completed:    lead.Completed,
		Score:        domain.Score(lead),
		InitialTotal: lead.InitialTotal,
		MonthlyTotal: lead.MonthlyTotal,
		CreatedAt:    lead.CreatedAt,
		UpdatedAt:    lead.UpdatedAt,
	}
}
