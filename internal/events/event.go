// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"webexpress_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// FunnelContext is the standard payload shared by all funnel events.
type FunnelContext struct {
	SessionID   string     `json:"sessionId"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	Step        int        `json:"step"`
	PlanID      *uuid.UUID `json:"planId,omitempty"`
	AddonIDs    []string   `json:"addonIds,omitempty"`
	TimelineID  string     `json:"timelineId,omitempty"`
}

// =============================================================================
// Funnel Domain Events
// =============================================================================

// QuoteStarted is published when a visitor opens the quote wizard.
type QuoteStarted struct {
	BaseEvent
	FunnelContext
}

func (e QuoteStarted) EventName() string { return "funnel.quote.started" }

// PlanSelected is published when a plan is chosen at step 1.
type PlanSelected struct {
	BaseEvent
	FunnelContext
	PlanSlug string `json:"planSlug"`
}

func (e PlanSelected) EventName() string { return "funnel.plan.selected" }

// AddonChanged is published when the add-on selection changes at step 3.
type AddonChanged struct {
	BaseEvent
	FunnelContext
}

func (e AddonChanged) EventName() string { return "funnel.addon.changed" }

// TimelineSelected is published when a delivery timeline is chosen at step 2.
type TimelineSelected struct {
	BaseEvent
	FunnelContext
}

func (e TimelineSelected) EventName() string { return "funnel.timeline.selected" }

// StepChanged is published on every successful forward transition.
type StepChanged struct {
	BaseEvent
	FunnelContext
	FromStep int `json:"fromStep"`
}

func (e StepChanged) EventName() string { return "funnel.step.changed" }

// QuoteCompleted is published when the wizard is submitted successfully.
type QuoteCompleted struct {
	BaseEvent
	FunnelContext
	LeadID       uuid.UUID `json:"leadId"`
	PlanName     string    `json:"planName"`
	ContactName  string    `json:"contactName"`
	ContactEmail string    `json:"contactEmail"`
	ContactPhone string    `json:"contactPhone"`
	InitialTotal int64     `json:"initialTotal"`
	MonthlyTotal int64     `json:"monthlyTotal"`
	WhatsAppLink string    `json:"whatsappLink"`
	Message      string    `json:"message"`
}

func (e QuoteCompleted) EventName() string { return "funnel.quote.completed" }

// QuoteAbandoned is published by the page-hide beacon. Advisory telemetry
// only, never authoritative state.
type QuoteAbandoned struct {
	BaseEvent
	FunnelContext
}

func (e QuoteAbandoned) EventName() string { return "funnel.quote.abandoned" }

// =============================================================================
// Campaign Domain Events
// =============================================================================

// CampaignChanged is published whenever a campaign is created, updated,
// deleted, activated or ended by an administrator.
type CampaignChanged struct {
	BaseEvent
	CampaignID uuid.UUID `json:"campaignId"`
	Action     string    `json:"action"` // "created", "updated", "deleted", "activated", "ended"
}

func (e CampaignChanged) EventName() string { return "campaigns.campaign.changed" }
