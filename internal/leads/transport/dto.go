// Package transport contains request and response DTOs for leads.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// LeadResponse is the admin API representation of a lead.
type LeadResponse struct {
	ID           uuid.UUID   `json:"id"`
	SessionID    string      `json:"sessionId"`
	Fingerprint  string      `json:"fingerprint,omitempty"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Message      string      `json:"message,omitempty"`
	PlanID       *uuid.UUID  `json:"planId,omitempty"`
	AddonIDs     []uuid.UUID `json:"addonIds"`
	TimelineID   string      `json:"timelineId,omitempty"`
	StepReached  int         `json:"stepReached"`
	Completed    bool        `json:"completed"`
	Score        int         `json:"score"`
	InitialTotal int64       `json:"initialTotal"`
	MonthlyTotal int64       `json:"monthlyTotal"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// LeadListResponse wraps a paginated list of leads.
type LeadListResponse struct {
	Items    []LeadResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// ListLeadsRequest filters the admin lead list.
type ListLeadsRequest struct {
	OnlyCompleted bool `form:"completed"`
	Page          int  `form:"page" validate:"omitempty,gte=1"`
	PageSize      int  `form:"pageSize" validate:"omitempty,gte=1,lte=100"`
}

// FunnelStatsResponse reports wizard progress counts. EstimatedPageViews is a
// heuristic derived from started sessions and is marked non-authoritative.
type FunnelStatsResponse struct {
	Started            int     `json:"started"`
	ReachedStep2       int     `json:"reachedStep2"`
	ReachedStep3       int     `json:"reachedStep3"`
	ReachedStep4       int     `json:"reachedStep4"`
	Completed          int     `json:"completed"`
	ConversionRate     float64 `json:"conversionRate"`
	EstimatedPageViews int     `json:"estimatedPageViews"`
	Authoritative      bool    `json:"authoritative"`
}
