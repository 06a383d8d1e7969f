// Package recovery persists wizard snapshots in Redis so a visitor who comes
// back within a week can resume the quote where they left it.
package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"webexpress_backend/internal/funnel/domain"
	"webexpress_backend/platform/apperr"
)

const keyPrefix = "funnel:recovery:"

// Store reads and writes recovery snapshots. Snapshots are best-effort: the
// funnel keeps working when Redis is down, callers decide how loudly to log.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a recovery store with the given snapshot TTL.
func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Save stores the wizard state under its session id, refreshing the TTL.
func (s *Store) Save(ctx context.Context, state domain.QuoteState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode recovery snapshot: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+state.SessionID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save recovery snapshot: %w", err)
	}
	return nil
}

// Load retrieves the wizard state for a session. Returns not found when the
// snapshot is missing or expired.
func (s *Store) Load(ctx context.Context, sessionID string) (domain.QuoteState, error) {
	payload, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.QuoteState{}, apperr.NotFound("no hay una cotización guardada para esta sesión")
		}
		return domain.QuoteState{}, fmt.Errorf("load recovery snapshot: %w", err)
	}

	var state domain.QuoteState
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.QuoteState{}, fmt.Errorf("decode recovery snapshot: %w", err)
	}
	return state.Normalize(), nil
}

// Delete removes the snapshot for a session, typically after completion.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete recovery snapshot: %w", err)
	}
	return nil
}
