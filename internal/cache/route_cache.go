package cache

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"

	"github.com/fieldops/fieldtrack/internal/clients/osrm"
)

// RouteCache provides thread-safe in-memory caching of computed routes with
// TTL derived from the refresh interval.
type RouteCache struct {
	entries map[string]*RouteEntry
	mutex   sync.RWMutex
}

// RouteEntry is a cached route with freshness metadata.
type RouteEntry struct {
	Key             string           `json:"key"`
	Route           osrm.RouteResult `json:"route"`
	CreatedAt       time.Time        `json:"created_at"`
	ExpiresAt       time.Time        `json:"expires_at"`
	RefreshInterval time.Duration    `json:"refresh_interval"`
}

// NewRouteCache creates an empty route cache.
func NewRouteCache() *RouteCache {
	return &RouteCache{
		entries: make(map[string]*RouteEntry),
	}
}

// Set stores a route under key with TTL based on the refresh interval.
func (c *RouteCache) Set(key string, route osrm.RouteResult, refreshInterval time.Duration) {
	now := time.Now()
	entry := &RouteEntry{
		Key:             key,
		Route:           route,
		CreatedAt:       now,
		ExpiresAt:       now.Add(refreshInterval),
		RefreshInterval: refreshInterval,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry
}

// Get retrieves a route if the entry exists and is not stale.
func (c *RouteCache) Get(key string) (osrm.RouteResult, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists || time.Now().After(entry.ExpiresAt) {
		return osrm.RouteResult{}, false
	}
	return entry.Route, true
}

// GetStale retrieves a route that is past its TTL but not yet very stale.
// Used as a fallback when a refresh fails: a slightly old ETA beats none.
func (c *RouteCache) GetStale(key string) (osrm.RouteResult, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists || c.IsVeryStale(key) {
		return osrm.RouteResult{}, false
	}
	return entry.Route, true
}

// IsStale checks if an entry is past its expiration.
func (c *RouteCache) IsStale(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return true
	}
	return time.Now().After(entry.ExpiresAt)
}

// IsVeryStale checks if an entry is past twice its refresh interval, the
// point at which it is no longer acceptable even as a fallback.
func (c *RouteCache) IsVeryStale(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return true
	}
	return time.Now().After(entry.CreatedAt.Add(entry.RefreshInterval * 2))
}

// Delete removes an entry, if present.
func (c *RouteCache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// CleanupStale removes all entries past their expiration and returns how
// many were removed.
func (c *RouteCache) CleanupStale() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	removed := 0

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// Size returns the number of cached entries, fresh or stale.
func (c *RouteCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// StartPeriodicCleanup starts a goroutine that periodically removes stale entries.
func (c *RouteCache) StartPeriodicCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		defer func() {
			// Recover from any panics in the cleanup goroutine
			if r := recover(); r != nil {
				err, _ := errors.ParseStack(debug.Stack())
				skipFrames := 3
				numFrames := 5
				logging.Errorw(ctx, "Route cache cleanup: recovered from panic",
					"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.CleanupStale()
			}
		}
	}()
}
