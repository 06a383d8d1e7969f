package domain

import (
	"testing"

	"webexpress_backend/platform/apperr"

	"github.com/google/uuid"
)

func planID() *uuid.UUID {
	id := uuid.New()
	return &id
}

func TestAdvance_Step1RequiresPlan(t *testing.T) {
	state := QuoteState{SessionID: "s1", Step: StepPlan}

	result, err := Advance(state)
	if err == nil {
		t.Fatal("expected validation error for missing plan")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if result.Step != StepPlan {
		t.Fatalf("step must not change on rejection, got %d", result.Step)
	}
}

func TestAdvance_Step1WithPlanSucceeds(t *testing.T) {
	state := QuoteState{SessionID: "s1", Step: StepPlan, PlanID: planID()}

	result, err := Advance(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Step != StepTimeline {
		t.Fatalf("expected step 2, got %d", result.Step)
	}
}

func TestAdvance_Step2PhoneGate(t *testing.T) {
	base := QuoteState{SessionID: "s1", Step: StepTimeline, PlanID: planID(), TimelineID: "week"}

	short := base
	short.Phone = "123456789" // 9 digits
	if result, err := Advance(short); err == nil {
		t.Fatal("expected rejection for 9-digit phone")
	} else if result.Step != StepTimeline {
		t.Fatalf("step must remain 2, got %d", result.Step)
	}

	ok := base
	ok.Phone = "55 1234 5678" // 10 digits with formatting
	result, err := Advance(ok)
	if err != nil {
		t.Fatalf("unexpected error for 10-digit phone: %v", err)
	}
	if result.Step != StepAddons {
		t.Fatalf("expected step 3, got %d", result.Step)
	}
}

func TestAdvance_Step2RequiresTimeline(t *testing.T) {
	state := QuoteState{SessionID: "s1", Step: StepTimeline, PlanID: planID(), Phone: "5512345678"}

	if _, err := Advance(state); err == nil {
		t.Fatal("expected rejection for missing timeline")
	}
}

func TestAdvance_Step3HasNoGate(t *testing.T) {
	state := QuoteState{SessionID: "s1", Step: StepAddons, PlanID: planID()}

	result, err := Advance(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Step != StepContact {
		t.Fatalf("expected step 4, got %d", result.Step)
	}
}

func TestBack_AlwaysPermittedAboveStep1AndKeepsData(t *testing.T) {
	state := QuoteState{
		SessionID: "s1",
		Step:      StepContact,
		PlanID:    planID(),
		Phone:     "5512345678",
		Name:      "Ana",
		Email:     "ana@example.com",
	}

	result, err := Back(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Step != StepAddons {
		t.Fatalf("expected step 3, got %d", result.Step)
	}
	if result.Name != "Ana" || result.Email != "ana@example.com" {
		t.Fatal("going back must not clear later-step data")
	}
}

func TestBack_RejectedAtStep1(t *testing.T) {
	if _, err := Back(QuoteState{Step: StepPlan}); err == nil {
		t.Fatal("expected rejection at step 1")
	}
}

func TestValidateSubmit(t *testing.T) {
	valid := QuoteState{
		SessionID: "s1",
		Step:      StepContact,
		PlanID:    planID(),
		Name:      "Ana López",
		Email:     "ana@example.com",
	}
	if err := ValidateSubmit(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shortName := valid
	shortName.Name = "A"
	if err := ValidateSubmit(shortName); err == nil {
		t.Fatal("expected rejection for single-char name")
	}

	badEmail := valid
	badEmail.Email = "ana@example"
	if err := ValidateSubmit(badEmail); err == nil {
		t.Fatal("expected rejection for email without dot after @")
	}

	wrongStep := valid
	wrongStep.Step = StepAddons
	if err := ValidateSubmit(wrongStep); err == nil {
		t.Fatal("expected rejection when not on contact step")
	}
}

func TestNormalize_DedupesAddons(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	state := QuoteState{Step: StepAddons, AddonIDs: []uuid.UUID{a, b, a, a, b}}

	result := state.Normalize()
	if len(result.AddonIDs) != 2 {
		t.Fatalf("expected 2 unique addons, got %d", len(result.AddonIDs))
	}
}

func TestIsAbandonable(t *testing.T) {
	if IsAbandonable(QuoteState{Step: StepPlan, PlanID: planID()}) {
		t.Fatal("step 1 is never abandonable")
	}
	if !IsAbandonable(QuoteState{Step: StepTimeline, PlanID: planID()}) {
		t.Fatal("step 2 with a plan should be abandonable")
	}
	if IsAbandonable(QuoteState{Step: StepTimeline}) {
		t.Fatal("empty state should not be abandonable")
	}
}
