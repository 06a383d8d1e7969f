package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name string
		lead Lead
		want int
	}{
		{"empty", Lead{}, 0},
		{"step only", Lead{StepReached: 3}, 6},
		{"phone", Lead{Phone: "5512345678"}, 10},
		{"real email", Lead{Email: "ana@example.com"}, 5},
		{"placeholder email", Lead{Email: "anonimo@webexpress.mx"}, 0},
		{"real name", Lead{Name: "Ana"}, 5},
		{"full step 4", Lead{StepReached: 4, Phone: "5512345678", Email: "ana@example.com", Name: "Ana"}, 28},
	}

	for _, tc := range cases {
		if got := Score(tc.lead); got != tc.want {
			t.Fatalf("%s: expected score %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestMerge_HigherScoreWins(t *testing.T) {
	partial := Lead{SessionID: "s1", StepReached: 2, Phone: "5512345678"}
	complete := Lead{SessionID: "s1", StepReached: 4, Phone: "5512345678", Name: "Ana", Email: "ana@example.com"}

	merged := Merge(complete, partial)
	if merged.Name != "Ana" || merged.StepReached != 4 {
		t.Fatalf("expected the complete record to win, got %+v", merged)
	}
}

func TestMerge_UnionOfProgressivelyProvidedFields(t *testing.T) {
	first := Lead{SessionID: "s1", StepReached: 2, Phone: "5512345678", TimelineID: "week"}
	second := Lead{SessionID: "s1", StepReached: 4, Name: "Ana", Email: "ana@example.com"}

	merged := Merge(first, second)

	if merged.Phone != "5512345678" {
		t.Fatal("phone from the first write must be retained")
	}
	if merged.TimelineID != "week" {
		t.Fatal("timeline from the first write must be retained")
	}
	if merged.Name != "Ana" || merged.Email != "ana@example.com" {
		t.Fatal("contact fields from the second write must be retained")
	}
	if merged.StepReached != 4 {
		t.Fatalf("expected max step 4, got %d", merged.StepReached)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	lead := Lead{
		SessionID:   "s1",
		StepReached: 4,
		Phone:       "5512345678",
		Name:        "Ana",
		Email:       "ana@example.com",
		Completed:   true,
	}

	merged := Merge(lead, lead)
	if Score(merged) != Score(lead) {
		t.Fatalf("merging a record with itself changed its score: %d vs %d", Score(merged), Score(lead))
	}
	if !merged.Completed {
		t.Fatal("completed flag must survive the merge")
	}
}

func TestMerge_CompletedIsSticky(t *testing.T) {
	done := Lead{SessionID: "s1", StepReached: 4, Completed: true}
	later := Lead{SessionID: "s1", StepReached: 4, Phone: "5512345678"}

	if merged := Merge(done, later); !merged.Completed {
		t.Fatal("a completed session must stay completed")
	}
	if merged := Merge(later, done); !merged.Completed {
		t.Fatal("a completed session must stay completed regardless of order")
	}
}

func TestMerge_FieldPresenceCombinations(t *testing.T) {
	// Every combination of phone/email/name presence split across two writes
	// must survive the merge.
	phone, email, name := "5512345678", "ana@example.com", "Ana"

	for mask := 0; mask < 8; mask++ {
		a := Lead{SessionID: "s1", StepReached: 2}
		b := Lead{SessionID: "s1", StepReached: 3}

		if mask&1 != 0 {
			a.Phone = phone
		} else {
			b.Phone = phone
		}
		if mask&2 != 0 {
			a.Email = email
		} else {
			b.Email = email
		}
		if mask&4 != 0 {
			a.Name = name
		} else {
			b.Name = name
		}

		merged := Merge(a, b)
		if merged.Phone != phone || merged.Email != email || merged.Name != name {
			t.Fatalf("mask %d: lost fields in merge: %+v", mask, merged)
		}
	}
}

func TestMerge_KeepsExistingIDAndSession(t *testing.T) {
	id := uuid.New()
	stored := Lead{ID: id, SessionID: "s1", StepReached: 2, Phone: "5512345678"}
	incoming := Lead{SessionID: "s1", StepReached: 4, Name: "Ana", Email: "ana@example.com", Phone: "5512345678"}

	merged := Merge(stored, incoming)
	if merged.ID != id {
		t.Fatalf("expected stored row id to be kept, got %s", merged.ID)
	}
	if merged.SessionID != "s1" {
		t.Fatalf("expected session id s1, got %s", merged.SessionID)
	}
}
