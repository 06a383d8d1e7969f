package service

import (
	"testing"
	"time"

	"webexpress_backend/internal/campaigns/repository"
)

func TestActiveCache_FreshHit(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	cache := newActiveCache(5*time.Minute, clock)

	cache.set(&repository.Campaign{Name: "Buen Fin"})

	got, ok := cache.get()
	if !ok {
		t.Fatal("expected a fresh cache hit")
	}
	if got == nil || got.Name != "Buen Fin" {
		t.Fatalf("unexpected cached campaign: %+v", got)
	}
}

func TestActiveCache_ExpiresAfterTTL(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	cache := newActiveCache(5*time.Minute, clock)

	cache.set(&repository.Campaign{Name: "Buen Fin"})
	now = now.Add(5 * time.Minute)

	if _, ok := cache.get(); ok {
		t.Fatal("expected the entry to expire at the TTL boundary")
	}
}

func TestActiveCache_CachesAbsence(t *testing.T) {
	now := time.Now()
	cache := newActiveCache(5*time.Minute, func() time.Time { return now })

	cache.set(nil)

	got, ok := cache.get()
	if !ok {
		t.Fatal("a cached miss must count as a hit until the TTL expires")
	}
	if got != nil {
		t.Fatalf("expected nil campaign, got %+v", got)
	}
}

func TestActiveCache_InvalidateDropsEntry(t *testing.T) {
	now := time.Now()
	cache := newActiveCache(5*time.Minute, func() time.Time { return now })

	cache.set(&repository.Campaign{Name: "Buen Fin"})
	cache.invalidate()

	if _, ok := cache.get(); ok {
		t.Fatal("expected the entry to be gone after invalidation")
	}
}
