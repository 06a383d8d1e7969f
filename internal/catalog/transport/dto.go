// Package transport contains request and response DTOs for catalog.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// PlanResponse is the API representation of a plan.
type PlanResponse struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	Features     []string  `json:"features"`
	IsPopular    bool      `json:"isPopular"`
	IsActive     bool      `json:"isActive"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PlanListResponse wraps a list of plans.
type PlanListResponse struct {
	Items []PlanResponse `json:"items"`
	Total int            `json:"total"`
}

// CreatePlanRequest creates a plan.
type CreatePlanRequest struct {
	Slug         string   `json:"slug" validate:"required,min=2,max=60"`
	Name         string   `json:"name" validate:"required,min=2,max=120"`
	Price        int64    `json:"price" validate:"gte=0"`
	Features     []string `json:"features" validate:"required,min=1,dive,min=1"`
	IsPopular    bool     `json:"isPopular"`
	IsActive     *bool    `json:"isActive"`
	DisplayOrder int      `json:"displayOrder" validate:"gte=0"`
}

// UpdatePlanRequest updates a plan. Nil fields are left unchanged.
type UpdatePlanRequest struct {
	Slug         *string  `json:"slug" validate:"omitempty,min=2,max=60"`
	Name         *string  `json:"name" validate:"omitempty,min=2,max=120"`
	Price        *int64   `json:"price" validate:"omitempty,gte=0"`
	Features     []string `json:"features" validate:"omitempty,min=1,dive,min=1"`
	IsPopular    *bool    `json:"isPopular"`
	IsActive     *bool    `json:"isActive"`
	DisplayOrder *int     `json:"displayOrder" validate:"omitempty,gte=0"`
}

// AddonResponse is the API representation of an add-on.
type AddonResponse struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	PriceMax     *int64    `json:"priceMax,omitempty"`
	BillingType  *string   `json:"billingType,omitempty"`
	IsActive     bool      `json:"isActive"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AddonListResponse wraps a list of add-ons.
type AddonListResponse struct {
	Items []AddonResponse `json:"items"`
	Total int             `json:"total"`
}

// CreateAddonRequest creates an add-on.
type CreateAddonRequest struct {
	Slug         string  `json:"slug" validate:"required,min=2,max=60"`
	Name         string  `json:"name" validate:"required,min=2,max=120"`
	Price        int64   `json:"price" validate:"gte=0"`
	PriceMax     *int64  `json:"priceMax" validate:"omitempty,gte=0"`
	BillingType  *string `json:"billingType" validate:"omitempty,oneof=one-time monthly yearly"`
	IsActive     *bool   `json:"isActive"`
	DisplayOrder int     `json:"displayOrder" validate:"gte=0"`
}

// UpdateAddonRequest updates an add-on. Nil fields are left unchanged.
type UpdateAddonRequest struct {
	Slug         *string `json:"slug" validate:"omitempty,min=2,max=60"`
	Name         *string `json:"name" validate:"omitempty,min=2,max=120"`
	Price        *int64  `json:"price" validate:"omitempty,gte=0"`
	PriceMax     *int64  `json:"priceMax" validate:"omitempty,gte=0"`
	BillingType  *string `json:"billingType" validate:"omitempty,oneof=one-time monthly yearly"`
	IsActive     *bool   `json:"isActive"`
	DisplayOrder *int    `json:"displayOrder" validate:"omitempty,gte=0"`
}

// RushFeeResponse is the API representation of a rush-fee row.
type RushFeeResponse struct {
	ID              uuid.UUID `json:"id"`
	PlanSlug        string    `json:"planSlug"`
	TimelineID      string    `json:"timelineId"`
	DisplayName     string    `json:"displayName"`
	MarkupPercent   int       `json:"markupPercent"`
	MarkupFixed     *int64    `json:"markupFixed,omitempty"`
	DeliveryDaysMin *int      `json:"deliveryDaysMin,omitempty"`
	DeliveryDaysMax *int      `json:"deliveryDaysMax,omitempty"`
	IsActive        bool      `json:"isActive"`
	DisplayOrder    int       `json:"displayOrder"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// RushFeeListResponse wraps a list of rush-fee rows.
type RushFeeListResponse struct {
	Items []RushFeeResponse `json:"items"`
	Total int               `json:"total"`
}

// CreateRushFeeRequest creates a rush-fee row.
type CreateRushFeeRequest struct {
	PlanSlug        string `json:"planSlug" validate:"required,min=2,max=60"`
	TimelineID      string `json:"timelineId" validate:"required,oneof=urgent week month flexible"`
	DisplayName     string `json:"displayName" validate:"max=120"`
	MarkupPercent   int    `json:"markupPercent" validate:"gte=0,lte=50"`
	MarkupFixed     *int64 `json:"markupFixed" validate:"omitempty,gte=0"`
	DeliveryDaysMin *int   `json:"deliveryDaysMin" validate:"omitempty,gt=0"`
	DeliveryDaysMax *int   `json:"deliveryDaysMax" validate:"omitempty,gt=0"`
	IsActive        *bool  `json:"isActive"`
	DisplayOrder    int    `json:"displayOrder" validate:"gte=0"`
}

// UpdateRushFeeRequest updates a rush-fee row. Nil fields are left unchanged.
type UpdateRushFeeRequest struct {
	DisplayName     *string `json:"displayName" validate:"omitempty,max=120"`
	MarkupPercent   *int    `json:"markupPercent" validate:"omitempty,gte=0,lte=50"`
	MarkupFixed     *int64  `json:"markupFixed" validate:"omitempty,gte=0"`
	DeliveryDaysMin *int    `json:"deliveryDaysMin" validate:"omitempty,gt=0"`
	DeliveryDaysMax *int    `json:"deliveryDaysMax" validate:"omitempty,gt=0"`
	IsActive        *bool   `json:"isActive"`
	DisplayOrder    *int    `json:"displayOrder" validate:"omitempty,gte=0"`
}

// TimelineOptionResponse is one delivery option shown at step 2 of the wizard.
type TimelineOptionResponse struct {
	TimelineID      string `json:"timelineId"`
	DisplayName     string `json:"displayName"`
	RushAmount      int64  `json:"rushAmount"`
	MarkupPercent   int    `json:"markupPercent"`
	MarkupFixed     int64  `json:"markupFixed"`
	DeliveryDaysMin int    `json:"deliveryDaysMin"`
	DeliveryDaysMax int    `json:"deliveryDaysMax"`
	IsExpress       bool   `json:"isExpress"`
}

// TimelineListResponse wraps the resolved timeline options for a plan.
type TimelineListResponse struct {
	PlanSlug string                   `json:"planSlug"`
	Items    []TimelineOptionResponse `json:"items"`
}
