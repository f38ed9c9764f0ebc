package tracking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a clock function pinned to the given unix milliseconds.
func fixedClock(unixMs int64) func() time.Time {
	return func() time.Time {
		return time.UnixMilli(unixMs)
	}
}

func TestPositionTracker_Empty(t *testing.T) {
	tracker := NewPositionTracker()

	_, ok := tracker.GetEstimatedPosition()
	assert.False(t, ok, "no samples means no position")
	assert.Equal(t, 0.0, tracker.GetSpeedKmh())
	assert.Equal(t, 0.0, tracker.GetHeadingDegrees())
}

func TestPositionTracker_SingleSample(t *testing.T) {
	tracker := NewPositionTrackerWithClock(fixedClock(1000))
	tracker.AddPosition(PositionSample{Latitude: -34.6037, Longitude: -58.3816, CapturedAtMs: 0})

	position, ok := tracker.GetEstimatedPosition()
	require.True(t, ok)
	assert.Equal(t, -34.6037, position.Latitude, "single sample is returned unchanged")
	assert.Equal(t, -58.3816, position.Longitude)

	assert.Equal(t, 0.0, tracker.GetSpeedKmh())
	assert.Equal(t, 0.0, tracker.GetHeadingDegrees())
}

func TestPositionTracker_SpeedAndHeading(t *testing.T) {
	// Two samples 10 seconds and ~1km apart, heading due north
	tracker := NewPositionTrackerWithClock(fixedClock(15000))
	tracker.AddPosition(PositionSample{Latitude: 0, Longitude: 0, CapturedAtMs: 0})
	tracker.AddPosition(PositionSample{Latitude: 0.009, Longitude: 0, CapturedAtMs: 10000})

	// 1km in 10s is 360 km/h
	assert.InDelta(t, 360, tracker.GetSpeedKmh(), 2)
	assert.InDelta(t, 0, tracker.GetHeadingDegrees(), 0.01)
}

func TestPositionTracker_Extrapolation(t *testing.T) {
	start := PositionSample{Latitude: 0, Longitude: 0, CapturedAtMs: 0}
	current := PositionSample{Latitude: 0.009, Longitude: 0, CapturedAtMs: 10000}

	t.Run("projects forward proportionally", func(t *testing.T) {
		// 5s after the second sample: half the observed 10s delta again
		tracker := NewPositionTrackerWithClock(fixedClock(15000))
		tracker.AddPosition(start)
		tracker.AddPosition(current)

		position, ok := tracker.GetEstimatedPosition()
		require.True(t, ok)
		assert.InDelta(t, 0.0135, position.Latitude, 1e-9)
		assert.InDelta(t, 0, position.Longitude, 1e-9)
	})

	t.Run("caps the projection horizon at 10s", func(t *testing.T) {
		// 20s of silence is under the staleness cutoff but over the cap
		tracker := NewPositionTrackerWithClock(fixedClock(30000))
		tracker.AddPosition(start)
		tracker.AddPosition(current)

		position, ok := tracker.GetEstimatedPosition()
		require.True(t, ok)
		assert.InDelta(t, 0.018, position.Latitude, 1e-9)
	})

	t.Run("suppresses prediction after 30s of silence", func(t *testing.T) {
		tracker := NewPositionTrackerWithClock(fixedClock(50000))
		tracker.AddPosition(start)
		tracker.AddPosition(current)

		position, ok := tracker.GetEstimatedPosition()
		require.True(t, ok)
		assert.Equal(t, 0.009, position.Latitude, "returns the raw last fix")
	})

	t.Run("suppresses prediction on non-monotonic timestamps", func(t *testing.T) {
		tracker := NewPositionTrackerWithClock(fixedClock(15000))
		tracker.AddPosition(PositionSample{Latitude: 0.009, Longitude: 0, CapturedAtMs: 10000})
		tracker.AddPosition(PositionSample{Latitude: 0.010, Longitude: 0, CapturedAtMs: 10000})

		position, ok := tracker.GetEstimatedPosition()
		require.True(t, ok)
		assert.Equal(t, 0.010, position.Latitude)
		assert.Equal(t, 0.0, tracker.GetSpeedKmh(), "zero time delta yields zero speed")
	})
}

func TestPositionTracker_HistoryEviction(t *testing.T) {
	tracker := NewPositionTracker()

	for i := 0; i < 6; i++ {
		tracker.AddPosition(PositionSample{
			Latitude:     float64(i),
			Longitude:    float64(i),
			CapturedAtMs: int64(i * 1000),
		})
	}

	history := tracker.History()
	require.Len(t, history, 5, "history is bounded at 5 samples")
	assert.Equal(t, 1.0, history[0].Latitude, "oldest sample evicted first")
	assert.Equal(t, 5.0, history[4].Latitude)
}

func TestPositionTracker_EvictionKeepsBackingArrayStable(t *testing.T) {
	tracker := NewPositionTracker()

	for i := 0; i < 100; i++ {
		tracker.AddPosition(PositionSample{Latitude: float64(i), CapturedAtMs: int64(i * 1000)})
	}

	assert.Equal(t, maxHistorySize, cap(tracker.history), "long sessions do not regrow the history")

	history := tracker.History()
	require.Len(t, history, maxHistorySize)
	assert.Equal(t, 95.0, history[0].Latitude)
	assert.Equal(t, 99.0, history[4].Latitude)
}

func TestPositionTracker_Clear(t *testing.T) {
	tracker := NewPositionTracker()
	tracker.AddPosition(PositionSample{Latitude: 1, Longitude: 1, CapturedAtMs: 0})
	tracker.AddPosition(PositionSample{Latitude: 2, Longitude: 2, CapturedAtMs: 1000})

	tracker.Clear()

	_, ok := tracker.GetEstimatedPosition()
	assert.False(t, ok)
	assert.Equal(t, 0.0, tracker.GetSpeedKmh())
	assert.Empty(t, tracker.History())
}

func TestRegistry_Lifecycle(t *testing.T) {
	registry := NewRegistry()

	first := registry.Tracker("tech-42")
	second := registry.Tracker("tech-42")
	assert.Same(t, first, second, "one tracker per entity")

	for i := 0; i < 3; i++ {
		registry.Tracker(fmt.Sprintf("tech-%d", i)).AddPosition(PositionSample{CapturedAtMs: int64(i)})
	}
	assert.Equal(t, 4, registry.Size())

	registry.Remove("tech-42")
	assert.Equal(t, 3, registry.Size())

	// Removing an unknown entity is a no-op
	registry.Remove("tech-42")
	assert.Equal(t, 3, registry.Size())
}
