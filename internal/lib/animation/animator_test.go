package animation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/fieldtrack/internal/lib/geo"
)

// manualScheduler drives animation loops with synthetic ticks.
type manualScheduler struct {
	mu    sync.Mutex
	ticks map[int]func(now time.Time) bool
	next  int
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{ticks: make(map[int]func(now time.Time) bool)}
}

func (s *manualScheduler) Schedule(tick func(now time.Time) bool) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.ticks[id] = tick
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.ticks, id)
	}
}

// Step delivers one frame at the given time to every active loop.
func (s *manualScheduler) Step(now time.Time) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.ticks))
	for id := range s.ticks {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.mu.Lock()
		tick, ok := s.ticks[id]
		s.mu.Unlock()
		if !ok {
			continue
		}
		if !tick(now) {
			s.mu.Lock()
			delete(s.ticks, id)
			s.mu.Unlock()
		}
	}
}

func (s *manualScheduler) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ticks)
}

var animStart = time.UnixMilli(0)

func newTestAnimator(s FrameScheduler) *Animator {
	return NewAnimatorWithScheduler(s, func() time.Time { return animStart })
}

func TestEasingKernels(t *testing.T) {
	for _, e := range []EasingFunc{Linear, EaseOut, EaseInOut} {
		assert.InDelta(t, 0, e(0), 1e-9, "easing starts at 0")
		assert.InDelta(t, 1, e(1), 1e-9, "easing ends at 1")
	}

	assert.InDelta(t, 0.5, Linear(0.5), 1e-9)
	assert.InDelta(t, 0.875, EaseOut(0.5), 1e-9)
	assert.InDelta(t, 0.5, EaseInOut(0.5), 1e-9)
	assert.InDelta(t, 0.0625, EaseInOut(0.25), 1e-9)
}

func TestInterpolate_LinearMidpoint(t *testing.T) {
	a := geo.Point{Latitude: -34.60, Longitude: -58.38}
	b := geo.Point{Latitude: -34.61, Longitude: -58.40}

	mid := Interpolate(a, b, 0.5, Linear)
	assert.InDelta(t, -34.605, mid.Latitude, 1e-12, "progress 0.5 is the exact midpoint")
	assert.InDelta(t, -58.39, mid.Longitude, 1e-12)

	// Out-of-range progress is clamped
	assert.Equal(t, a, Interpolate(a, b, -0.5, Linear))
	assert.Equal(t, b, Interpolate(a, b, 1.5, Linear))
}

func TestAnimate_FramesAndCompletion(t *testing.T) {
	scheduler := newManualScheduler()
	animator := newTestAnimator(scheduler)

	start := geo.Point{Latitude: 0, Longitude: 0}
	end := geo.Point{Latitude: 0.01, Longitude: 0}

	var positions []geo.Point
	var bearings []float64
	completions := 0

	cancel := animator.Animate(start, end,
		func(p geo.Point, bearing float64) {
			positions = append(positions, p)
			bearings = append(bearings, bearing)
		},
		func() { completions++ },
		Options{Duration: 1000 * time.Millisecond, Easing: EasingLinear},
	)
	defer cancel()

	scheduler.Step(animStart.Add(250 * time.Millisecond))
	scheduler.Step(animStart.Add(500 * time.Millisecond))
	scheduler.Step(animStart.Add(1000 * time.Millisecond))
	// Past the end: the loop already unscheduled itself
	scheduler.Step(animStart.Add(1200 * time.Millisecond))

	require.Len(t, positions, 3)
	assert.InDelta(t, 0.0025, positions[0].Latitude, 1e-12)
	assert.InDelta(t, 0.005, positions[1].Latitude, 1e-12)
	assert.InDelta(t, 0.01, positions[2].Latitude, 1e-12)
	assert.Equal(t, 1, completions, "onComplete fires exactly once")

	// Bearing is computed once from start toward end (due north) and
	// repeated on every frame
	for _, b := range bearings {
		assert.InDelta(t, 0, b, 0.01)
	}
}

func TestAnimate_CancelSuppressesCallbacks(t *testing.T) {
	scheduler := newManualScheduler()
	animator := newTestAnimator(scheduler)

	updates := 0
	completions := 0

	cancel := animator.Animate(
		geo.Point{}, geo.Point{Latitude: 1},
		func(geo.Point, float64) { updates++ },
		func() { completions++ },
		Options{Duration: 1000 * time.Millisecond},
	)

	scheduler.Step(animStart.Add(100 * time.Millisecond))
	cancel()
	scheduler.Step(animStart.Add(2000 * time.Millisecond))

	assert.Equal(t, 1, updates, "no updates after cancellation")
	assert.Equal(t, 0, completions, "onComplete never fires after cancellation")
	assert.Equal(t, 0, scheduler.active())

	// Cancellation is idempotent
	cancel()
	cancel()
}

func TestAnimate_NewestAnimationWins(t *testing.T) {
	scheduler := newManualScheduler()
	animator := newTestAnimator(scheduler)

	var observed []string

	first := animator.Animate(
		geo.Point{}, geo.Point{Latitude: 1},
		func(geo.Point, float64) { observed = append(observed, "first") },
		nil,
		Options{Duration: 1000 * time.Millisecond},
	)

	// Caller discipline: cancel the prior handle before starting the next
	first()
	second := animator.Animate(
		geo.Point{Latitude: 1}, geo.Point{Latitude: 2},
		func(geo.Point, float64) { observed = append(observed, "second") },
		nil,
		Options{Duration: 1000 * time.Millisecond},
	)
	defer second()

	scheduler.Step(animStart.Add(500 * time.Millisecond))

	require.NotEmpty(t, observed)
	for _, source := range observed {
		assert.Equal(t, "second", source, "only the latest animation's updates are observed")
	}
}

func TestPulse_Oscillation(t *testing.T) {
	scheduler := newManualScheduler()
	animator := newTestAnimator(scheduler)

	var scales, opacities []float64

	cancel := animator.Pulse(func(scale, opacity float64) {
		scales = append(scales, scale)
		opacities = append(opacities, opacity)
	}, 1500)

	scheduler.Step(animStart)                               // cycle start
	scheduler.Step(animStart.Add(750 * time.Millisecond))   // cycle peak
	scheduler.Step(animStart.Add(1500 * time.Millisecond))  // wraps to next cycle
	scheduler.Step(animStart.Add(2250 * time.Millisecond))  // second peak

	require.Len(t, scales, 4)
	assert.InDelta(t, 1.0, scales[0], 1e-9)
	assert.InDelta(t, 1.5, scales[1], 1e-9)
	assert.InDelta(t, 1.0, scales[2], 1e-9)
	assert.InDelta(t, 1.5, scales[3], 1e-9)

	assert.InDelta(t, 1.0, opacities[0], 1e-9)
	assert.InDelta(t, 0.3, opacities[1], 1e-9)

	for i := range scales {
		assert.GreaterOrEqual(t, scales[i], 1.0)
		assert.LessOrEqual(t, scales[i], 1.5)
		assert.GreaterOrEqual(t, opacities[i], 0.3)
		assert.LessOrEqual(t, opacities[i], 1.0)
	}

	cancel()
	scheduler.Step(animStart.Add(3000 * time.Millisecond))
	assert.Len(t, scales, 4, "pulse stops after cancellation")
}
