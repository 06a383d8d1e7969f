// Package transport contains request and response DTOs for the funnel.
package transport

import (
	"github.com/google/uuid"

	"webexpress_backend/internal/funnel/domain"
	"webexpress_backend/internal/pricing"
)

// StateRequest is the client-held wizard state sent with every funnel call.
type StateRequest struct {
	SessionID   string      `json:"sessionId" validate:"required,min=8,max=128"`
	Fingerprint string      `json:"fingerprint" validate:"max=128"`
	Step        int         `json:"step" validate:"gte=1,lte=4"`
	PlanID      *uuid.UUID  `json:"planId"`
	AddonIDs    []uuid.UUID `json:"addonIds" validate:"max=20"`
	TimelineID  string      `json:"timelineId" validate:"omitempty,oneof=urgent week month flexible"`
	Phone       string      `json:"phone" validate:"max=32"`
	Name        string      `json:"name" validate:"max=120"`
	Email       string      `json:"email" validate:"max=254"`
	Message     string      `json:"message" validate:"max=2000"`
}

// ToDomain converts the request into the wizard state model.
func (r StateRequest) ToDomain() domain.QuoteState {
	return domain.QuoteState{
		SessionID:   r.SessionID,
		Fingerprint: r.Fingerprint,
		Step:        r.Step,
		PlanID:      r.PlanID,
		AddonIDs:    r.AddonIDs,
		TimelineID:  r.TimelineID,
		Phone:       r.Phone,
		Name:        r.Name,
		Email:       r.Email,
		Message:     r.Message,
	}.Normalize()
}

// PriceRequest recalculates the quote without moving the wizard.
type PriceRequest struct {
	PlanID     *uuid.UUID  `json:"planId"`
	AddonIDs   []uuid.UUID `json:"addonIds" validate:"max=20"`
	TimelineID string      `json:"timelineId" validate:"omitempty,oneof=urgent week month flexible"`
}

// QuoteResponse is the shared price breakdown returned by funnel endpoints.
type QuoteResponse struct {
	Totals   pricing.Totals          `json:"totals"`
	Timeline *pricing.TimelineOption `json:"timeline,omitempty"`
}

// StepResponse is returned by advance and back: the new state plus a fresh
// price breakdown for what is selected so far.
type StepResponse struct {
	State domain.QuoteState `json:"state"`
	Quote QuoteResponse     `json:"quote"`
}

// SubmitResponse closes the wizard with the WhatsApp hand-off.
type SubmitResponse struct {
	LeadID       uuid.UUID     `json:"leadId"`
	WhatsAppLink string        `json:"whatsappLink"`
	Message      string        `json:"message"`
	Quote        QuoteResponse `json:"quote"`
}

// RecoverResponse restores a previous session.
type RecoverResponse struct {
	State domain.QuoteState `json:"state"`
	Quote QuoteResponse     `json:"quote"`
}
