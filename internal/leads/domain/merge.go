// Package domain holds the lead completeness model: scoring and the
// deterministic merge used for idempotent upserts by session id.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead is a prospective customer record derived from a quote session. At most
// one Lead exists per session id.
type Lead struct {
	ID           uuid.UUID
	SessionID    string
	Fingerprint  string
	Name         string
	Email        string
	Phone        string
	Message      string
	PlanID       *uuid.UUID
	AddonIDs     []uuid.UUID
	TimelineID   string
	StepReached  int
	Completed    bool
	InitialTotal int64
	MonthlyTotal int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Score rates how complete a lead record is. Used to pick the winner when the
// same session writes twice: has phone +10, real email +5, real name +5, step
// reached x2.
func Score(l Lead) int {
	score := l.StepReached * 2
	if strings.TrimSpace(l.Phone) != "" {
		score += 10
	}
	if isRealEmail(l.Email) {
		score += 5
	}
	if isRealName(l.Name) {
		score += 5
	}
	return score
}

// Merge resolves two writes for the same session into one record. The
// higher-scoring side wins (ties go to b, the later write); empty fields on
// the winner are filled from the loser so progressively-provided data is
// never lost. Merge is deterministic: the outcome depends only on the two
// inputs, which makes retried submissions idempotent.
func Merge(a, b Lead) Lead {
	winner, loser := b, a
	if Score(a) > Score(b) {
		winner, loser = a, b
	}

	if strings.TrimSpace(winner.Name) == "" {
		winner.Name = loser.Name
	}
	if strings.TrimSpace(winner.Email) == "" {
		winner.Email = loser.Email
	}
	if strings.TrimSpace(winner.Phone) == "" {
		winner.Phone = loser.Phone
	}
	if strings.TrimSpace(winner.Message) == "" {
		winner.Message = loser.Message
	}
	if strings.TrimSpace(winner.Fingerprint) == "" {
		winner.Fingerprint = loser.Fingerprint
	}
	if winner.PlanID == nil {
		winner.PlanID = loser.PlanID
	}
	if len(winner.AddonIDs) == 0 {
		winner.AddonIDs = loser.AddonIDs
	}
	if winner.TimelineID == "" {
		winner.TimelineID = loser.TimelineID
	}
	if loser.StepReached > winner.StepReached {
		winner.StepReached = loser.StepReached
	}
	winner.Completed = a.Completed || b.Completed
	if winner.InitialTotal == 0 {
		winner.InitialTotal = loser.InitialTotal
	}
	if winner.MonthlyTotal == 0 {
		winner.MonthlyTotal = loser.MonthlyTotal
	}

	if winner.ID == uuid.Nil {
		winner.ID = loser.ID
	}
	if winner.SessionID == "" {
		winner.SessionID = loser.SessionID
	}
	if winner.CreatedAt.IsZero() || (!loser.CreatedAt.IsZero() && loser.CreatedAt.Before(winner.CreatedAt)) {
		winner.CreatedAt = loser.CreatedAt
	}

	return winner
}

func isRealEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	at := strings.Index(email, "@")
	if at < 1 || !strings.Contains(email[at:], ".") {
		return false
	}
	// Placeholder addresses the widget fills in for anonymous sessions.
	return !strings.HasPrefix(email, "anonimo@") && !strings.HasPrefix(email, "test@")
}

func isRealName(name string) bool {
	name = strings.TrimSpace(strings.ToLower(name))
	return len(name) >= 2 && name != "anonimo" && name != "test"
}
