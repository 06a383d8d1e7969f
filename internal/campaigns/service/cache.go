package service

import (
	"sync"
	"time"

	"webexpress_backend/internal/campaigns/repository"
)

// activeCache holds the resolved active campaign for a short TTL so the public
// pricing endpoints do not hit the database on every quote recalculation.
// Admin mutations invalidate it immediately.
type activeCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	cachedAt time.Time
	valid    bool
	campaign *repository.Campaign
}

func newActiveCache(ttl time.Duration, now func() time.Time) *activeCache {
	if now == nil {
		now = time.Now
	}
	return &activeCache{ttl: ttl, now: now}
}

// get returns the cached campaign and whether the entry is still fresh. A nil
// campaign with ok=true means "no campaign active" was cached, so a miss in
// the database is not re-queried until the TTL expires.
func (c *activeCache) get() (*repository.Campaign, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid || c.now().Sub(c.cachedAt) >= c.ttl {
		return nil, false
	}
	return c.campaign, true
}

func (c *activeCache) set(campaign *repository.Campaign) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.campaign = campaign
	c.cachedAt = c.now()
	c.valid = true
}

func (c *activeCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.campaign = nil
	c.valid = false
}
