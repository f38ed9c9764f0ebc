package tracking

import (
	"sync"
	"time"
)

// Registry owns one PositionTracker per tracked entity. It replaces any
// ambient package-level marker map: the component that owns session
// lifecycle holds a Registry and clears entries as sessions end.
type Registry struct {
	mutex    sync.RWMutex
	trackers map[string]*PositionTracker
	now      func() time.Time
}

// NewRegistry creates an empty tracker registry.
func NewRegistry() *Registry {
	return NewRegistryWithClock(time.Now)
}

// NewRegistryWithClock creates a registry whose trackers share an injected clock.
func NewRegistryWithClock(now func() time.Time) *Registry {
	return &Registry{
		trackers: make(map[string]*PositionTracker),
		now:      now,
	}
}

// Tracker returns the tracker for an entity, creating it on first use.
func (r *Registry) Tracker(entityID string) *PositionTracker {
	r.mutex.RLock()
	tracker, exists := r.trackers[entityID]
	r.mutex.RUnlock()
	if exists {
		return tracker
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if tracker, exists := r.trackers[entityID]; exists {
		return tracker
	}
	tracker = NewPositionTrackerWithClock(r.now)
	r.trackers[entityID] = tracker
	return tracker
}

// Remove clears and drops the tracker for an entity, if any.
func (r *Registry) Remove(entityID string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if tracker, exists := r.trackers[entityID]; exists {
		tracker.Clear()
		delete(r.trackers, entityID)
	}
}

// Size returns the number of tracked entities.
func (r *Registry) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.trackers)
}
