package tracking

import (
	"math"
	"sync"
	"time"

	"github.com/fieldops/fieldtrack/internal/lib/geo"
)

const (
	// maxHistorySize bounds the per-entity sample history; the oldest sample
	// is evicted on overflow.
	maxHistorySize = 5

	// maxStaleGapSeconds is the silence threshold past which prediction is
	// suppressed and the last raw fix is returned instead.
	maxStaleGapSeconds = 30.0

	// maxExtrapolationSeconds caps how far ahead of the last fix a position
	// may be projected, bounding drift during radio silences.
	maxExtrapolationSeconds = 10.0
)

// PositionSample is a single raw GPS report for a tracked entity.
// Immutable once created.
type PositionSample struct {
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lng"`
	CapturedAtMs int64   `json:"captured_at_ms"`
}

// Position returns the sample's coordinate.
func (s PositionSample) Position() geo.Point {
	return geo.Point{Latitude: s.Latitude, Longitude: s.Longitude}
}

// PositionTracker keeps a bounded history of samples for one entity and
// derives speed, heading, and a dead-reckoned current position from it.
// Instances are single-owner: one producer pushes samples, readers may query
// between animation frames.
type PositionTracker struct {
	mutex    sync.Mutex
	history  []PositionSample
	geoUtils geo.GeoUtils
	now      func() time.Time
}

// NewPositionTracker creates a tracker using the wall clock.
func NewPositionTracker() *PositionTracker {
	return NewPositionTrackerWithClock(time.Now)
}

// NewPositionTrackerWithClock creates a tracker with an injected clock so
// staleness and extrapolation behavior can be tested deterministically.
func NewPositionTrackerWithClock(now func() time.Time) *PositionTracker {
	return &PositionTracker{
		history:  make([]PositionSample, 0, maxHistorySize),
		geoUtils: geo.NewGeoUtils(),
		now:      now,
	}
}

// AddPosition appends a sample to the history, evicting the oldest sample
// once the history exceeds its bound. Samples are applied in arrival order;
// out-of-order timestamps are not re-sorted.
func (t *PositionTracker) AddPosition(sample PositionSample) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	// Shift down in place when full so the backing array never regrows
	if len(t.history) == maxHistorySize {
		copy(t.history, t.history[1:])
		t.history[maxHistorySize-1] = sample
		return
	}
	t.history = append(t.history, sample)
}

// History returns a copy of the current sample history, oldest first.
func (t *PositionTracker) History() []PositionSample {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	out := make([]PositionSample, len(t.history))
	copy(out, t.history)
	return out
}

// GetEstimatedPosition returns the dead-reckoned current position. With no
// samples it reports ok=false. With one sample it returns that sample's
// position unchanged. With two or more samples it projects the latest fix
// forward along the velocity derived from the last two samples, unless the
// data is stale or non-monotonic.
func (t *PositionTracker) GetEstimatedPosition() (geo.Point, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if len(t.history) == 0 {
		return geo.Point{}, false
	}

	current := t.history[len(t.history)-1]
	if len(t.history) == 1 {
		return current.Position(), true
	}

	prev := t.history[len(t.history)-2]
	historyDt := float64(current.CapturedAtMs-prev.CapturedAtMs) / 1000
	nowDt := float64(t.now().UnixMilli()-current.CapturedAtMs) / 1000

	// Non-monotonic timestamps or a long silence: do not extrapolate,
	// report the last confirmed fix.
	if historyDt <= 0 || nowDt > maxStaleGapSeconds {
		return current.Position(), true
	}

	latVelocity := (current.Latitude - prev.Latitude) / historyDt
	lngVelocity := (current.Longitude - prev.Longitude) / historyDt

	projection := math.Min(nowDt, maxExtrapolationSeconds)

	return geo.Point{
		Latitude:  current.Latitude + latVelocity*projection,
		Longitude: current.Longitude + lngVelocity*projection,
	}, true
}

// GetSpeedKmh returns the speed derived from the last two samples in km/h,
// or 0 when fewer than two samples exist or their time delta is not positive.
func (t *PositionTracker) GetSpeedKmh() float64 {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if len(t.history) < 2 {
		return 0
	}

	current := t.history[len(t.history)-1]
	prev := t.history[len(t.history)-2]

	hours := float64(current.CapturedAtMs-prev.CapturedAtMs) / 1000 / 3600
	if hours <= 0 {
		return 0
	}

	distance, err := t.geoUtils.DistanceKm(prev.Position(), current.Position())
	if err != nil {
		return 0
	}

	return distance / hours
}

// GetHeadingDegrees returns the bearing between the last two samples in
// [0, 360), or 0 when fewer than two samples exist.
func (t *PositionTracker) GetHeadingDegrees() float64 {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if len(t.history) < 2 {
		return 0
	}

	current := t.history[len(t.history)-1]
	prev := t.history[len(t.history)-2]

	bearing, err := t.geoUtils.BearingDegrees(prev.Position(), current.Position())
	if err != nil {
		return 0
	}
	return bearing
}

// Clear empties the history; subsequent calls behave as freshly constructed.
func (t *PositionTracker) Clear() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.history = t.history[:0]
}
