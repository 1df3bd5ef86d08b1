package cache

import (
	"context"
	"time"

	"loan-engine/internal/domain/loan"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is the in-process fallback used when redis is disabled. It
// holds at most maxEntries schedules, evicting the least recently used, and
// drops entries older than ttl. Rows are copied on the way in and out, so
// callers may modify what they get back.
type MemoryCache struct {
	entries *expirable.LRU[string, []loan.ScheduleRow]
}

// NewMemoryCache returns a cache bounded to maxEntries (at least one). A
// non-positive ttl disables expiry.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &MemoryCache{
		entries: expirable.NewLRU[string, []loan.ScheduleRow](maxEntries, nil, ttl),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]loan.ScheduleRow, bool, error) {
	rows, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	return cloneRows(rows), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, rows []loan.ScheduleRow) error {
	c.entries.Add(key, cloneRows(rows))
	return nil
}

// Len counts stored entries, including expired ones not yet swept.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

func cloneRows(rows []loan.ScheduleRow) []loan.ScheduleRow {
	out := make([]loan.ScheduleRow, len(rows))
	copy(out, rows)
	return out
}
