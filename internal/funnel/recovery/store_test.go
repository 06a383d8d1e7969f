package recovery

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"webexpress_backend/internal/funnel/domain"
	"webexpress_backend/platform/apperr"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, 7*24*time.Hour), mr
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)
	planID := uuid.New()

	state := domain.QuoteState{
		SessionID:  "s1",
		Step:       3,
		PlanID:     &planID,
		TimelineID: "week",
		Phone:      "5512345678",
	}

	if err := store.Save(context.Background(), state); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Step != 3 || loaded.TimelineID != "week" || loaded.Phone != "5512345678" {
		t.Fatalf("unexpected snapshot: %+v", loaded)
	}
	if loaded.PlanID == nil || *loaded.PlanID != planID {
		t.Fatalf("plan id lost in round trip: %+v", loaded.PlanID)
	}
}

func TestStore_LoadMissingIsNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "nope")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStore_SnapshotExpires(t *testing.T) {
	store, mr := newTestStore(t)

	if err := store.Save(context.Background(), domain.QuoteState{SessionID: "s1", Step: 2}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	mr.FastForward(7*24*time.Hour + time.Second)

	_, err := store.Load(context.Background(), "s1")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected snapshot to expire, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Save(context.Background(), domain.QuoteState{SessionID: "s1", Step: 2}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, err := store.Load(context.Background(), "s1")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
