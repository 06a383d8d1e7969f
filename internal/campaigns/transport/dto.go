// Package transport contains request and response DTOs for campaigns.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CampaignResponse is the admin API representation of a campaign.
type CampaignResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	DiscountPercent int       `json:"discountPercent"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	IsActive        bool      `json:"isActive"`
	Priority        int       `json:"priority"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CampaignListResponse wraps a list of campaigns.
type CampaignListResponse struct {
	Items []CampaignResponse `json:"items"`
	Total int                `json:"total"`
}

// ActiveCampaignResponse is the public view of the currently running
// promotion. It deliberately omits priority and the active flag.
type ActiveCampaignResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	DiscountPercent int       `json:"discountPercent"`
	EndDate         time.Time `json:"endDate"`
}

// CreateCampaignRequest creates a campaign.
type CreateCampaignRequest struct {
	Name            string    `json:"name" validate:"required,min=2,max=120"`
	DiscountPercent int       `json:"discountPercent" validate:"gte=0,lte=50"`
	StartDate       time.Time `json:"startDate" validate:"required"`
	EndDate         time.Time `json:"endDate" validate:"required"`
	IsActive        *bool     `json:"isActive"`
	Priority        int       `json:"priority" validate:"gte=0"`
}

// UpdateCampaignRequest updates a campaign. Nil fields are left unchanged.
type UpdateCampaignRequest struct {
	Name            *string    `json:"name" validate:"omitempty,min=2,max=120"`
	DiscountPercent *int       `json:"discountPercent" validate:"omitempty,gte=0,lte=50"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	IsActive        *bool      `json:"isActive"`
	Priority        *int       `json:"priority" validate:"omitempty,gte=0"`
}
