// Package domain implements the quote wizard state machine: a strictly
// ordered four-step funnel with per-step validation gates. The state itself
// travels with the client; this package is the single authority on which
// transitions are legal.
package domain

import (
	"strings"

	"webexpress_backend/platform/apperr"
	"webexpress_backend/platform/phone"

	"github.com/google/uuid"
)

// Wizard steps, in order.
const (
	StepPlan     = 1
	StepTimeline = 2
	StepAddons   = 3
	StepContact  = 4
)

const minPhoneDigits = 10

// QuoteState is the session-scoped wizard state. It is never persisted as-is;
// completion turns it into a Lead, abandonment leaves only telemetry.
type QuoteState struct {
	SessionID   string      `json:"sessionId"`
	Fingerprint string      `json:"fingerprint,omitempty"`
	Step        int         `json:"step"`
	PlanID      *uuid.UUID  `json:"planId,omitempty"`
	AddonIDs    []uuid.UUID `json:"addonIds,omitempty"`
	TimelineID  string      `json:"timelineId,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Name        string      `json:"name,omitempty"`
	Email       string      `json:"email,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// Normalize clamps the step into range and removes duplicate add-on ids. The
// add-on selection is a set; order carries no meaning.
func (s QuoteState) Normalize() QuoteState {
	if s.Step < StepPlan {
		s.Step = StepPlan
	}
	if s.Step > StepContact {
		s.Step = StepContact
	}

	if len(s.AddonIDs) > 1 {
		seen := make(map[uuid.UUID]struct{}, len(s.AddonIDs))
		deduped := s.AddonIDs[:0]
		for _, id := range s.AddonIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			deduped = append(deduped, id)
		}
		s.AddonIDs = deduped
	}

	return s
}

// Advance validates the gate for the current step and returns the state moved
// one step forward. On gate failure the returned error carries the
// user-visible message and the state is unchanged.
func Advance(s QuoteState) (QuoteState, error) {
	s = s.Normalize()

	switch s.Step {
	case StepPlan:
		if s.PlanID == nil || *s.PlanID == uuid.Nil {
			return s, apperr.Validation("Selecciona un plan para continuar")
		}
	case StepTimeline:
		if strings.TrimSpace(s.TimelineID) == "" {
			return s, apperr.Validation("Selecciona un tiempo de entrega")
		}
		if phone.DigitCount(s.Phone) < minPhoneDigits {
			return s, apperr.Validation("Ingresa un teléfono válido (mínimo 10 dígitos)")
		}
	case StepAddons:
		// Add-ons are optional; step 3 has no gate.
	case StepContact:
		return s, apperr.Validation("Envía el formulario para terminar tu cotización")
	}

	s.Step++
	return s, nil
}

// Back moves one step backwards without validation and without clearing
// later-step data. Going back from step 1 is rejected.
func Back(s QuoteState) (QuoteState, error) {
	s = s.Normalize()
	if s.Step <= StepPlan {
		return s, apperr.Validation("Ya estás en el primer paso")
	}
	s.Step--
	return s, nil
}

// ValidateSubmit checks the step-4 gate: the wizard must be on the contact
// step with a plausible name and email.
func ValidateSubmit(s QuoteState) error {
	s = s.Normalize()
	if s.Step != StepContact {
		return apperr.Validation("Completa los pasos anteriores antes de enviar")
	}
	if s.PlanID == nil || *s.PlanID == uuid.Nil {
		return apperr.Validation("Selecciona un plan para continuar")
	}
	if len(strings.TrimSpace(s.Name)) < 2 {
		return apperr.Validation("Ingresa tu nombre completo")
	}
	if !PlausibleEmail(s.Email) {
		return apperr.Validation("Ingresa un correo válido")
	}
	return nil
}

// IsAbandonable reports whether a page-hide signal for this state is worth
// recording: past step 1 with at least one field filled in.
func IsAbandonable(s QuoteState) bool {
	if s.Normalize().Step <= StepPlan {
		return false
	}
	return s.PlanID != nil || len(s.AddonIDs) > 0 || s.TimelineID != "" ||
		s.Phone != "" || s.Name != "" || s.Email != "" || s.Message != ""
}

// PlausibleEmail applies the same loose shape check the wizard uses: an "@"
// with a "." somewhere after it.
func PlausibleEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 {
		return false
	}
	return strings.Contains(email[at:], ".")
}
