package animation

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/fieldops/fieldtrack/internal/lib/geo"
)

const (
	// defaultDuration is the marker transition length when none is given.
	defaultDuration = 1000 * time.Millisecond

	// defaultPulseInterval is the period of one pulse cycle.
	defaultPulseInterval = 1500 * time.Millisecond
)

// UpdateFunc receives the interpolated marker position once per frame, along
// with the transition's bearing.
type UpdateFunc func(position geo.Point, bearingDegrees float64)

// PulseFunc receives the highlight scale and opacity once per frame.
type PulseFunc func(scale, opacity float64)

// CancelFunc stops an in-flight animation. It is idempotent and safe to call
// after natural completion.
type CancelFunc func()

// Options tunes one marker transition.
type Options struct {
	Duration time.Duration
	Easing   Easing
}

// Animator produces frame-paced marker transitions and pulse highlights.
// It enforces nothing about concurrent transitions for the same marker:
// a caller starting a new transition must cancel the previous handle first.
type Animator struct {
	scheduler FrameScheduler
	geoUtils  geo.GeoUtils
	now       func() time.Time
}

// NewAnimator creates an animator paced by a real ~60fps ticker.
func NewAnimator() *Animator {
	return NewAnimatorWithScheduler(NewTickerScheduler(defaultFrameInterval), time.Now)
}

// NewAnimatorWithScheduler creates an animator with an injected tick source
// and clock, for deterministic tests.
func NewAnimatorWithScheduler(scheduler FrameScheduler, now func() time.Time) *Animator {
	return &Animator{
		scheduler: scheduler,
		geoUtils:  geo.NewGeoUtils(),
		now:       now,
	}
}

// Interpolate applies the easing kernel to progress and then linearly
// interpolates between the two positions component-wise.
func Interpolate(start, end geo.Point, progress float64, easing EasingFunc) geo.Point {
	if easing == nil {
		easing = EaseOut
	}
	eased := easing(clamp01(progress))

	return geo.Point{
		Latitude:  start.Latitude + eased*(end.Latitude-start.Latitude),
		Longitude: start.Longitude + eased*(end.Longitude-start.Longitude),
	}
}

// Animate schedules a frame-paced transition from start to end. onUpdate is
// invoked once per frame with the interpolated position and the transition
// bearing; the bearing is computed once, from start toward end, not per
// frame. onComplete (optional) fires once when progress reaches 1. The
// returned CancelFunc stops further frames; after cancellation neither
// callback fires again.
func (a *Animator) Animate(start, end geo.Point, onUpdate UpdateFunc, onComplete func(), opts Options) CancelFunc {
	duration := opts.Duration
	if duration <= 0 {
		duration = defaultDuration
	}
	easing := opts.Easing.Func()

	// Precomputed once for the whole transition.
	bearing, err := a.geoUtils.BearingDegrees(start, end)
	if err != nil {
		bearing = 0
	}

	startTime := a.now()
	var cancelled atomic.Bool

	tick := func(now time.Time) bool {
		if cancelled.Load() {
			return false
		}

		progress := float64(now.Sub(startTime)) / float64(duration)
		if progress > 1 {
			progress = 1
		}

		onUpdate(Interpolate(start, end, progress, easing), bearing)

		if progress >= 1 {
			cancelled.Store(true)
			if onComplete != nil {
				onComplete()
			}
			return false
		}
		return true
	}

	stop := a.scheduler.Schedule(tick)

	return func() {
		if cancelled.CompareAndSwap(false, true) {
			stop()
		}
	}
}

// Pulse schedules a non-terminating highlight oscillator. Each frame derives
// a scale in [1, 1.5] and an opacity in [0.3, 1] from the position within the
// current cycle and hands them to onPulse. It runs until cancelled.
func (a *Animator) Pulse(onPulse PulseFunc, intervalMs int) CancelFunc {
	interval := time.Duration(intervalMs) * time.Millisecond
	if interval <= 0 {
		interval = defaultPulseInterval
	}

	startTime := a.now()
	var cancelled atomic.Bool

	tick := func(now time.Time) bool {
		if cancelled.Load() {
			return false
		}

		elapsed := now.Sub(startTime) % interval
		progress := float64(elapsed) / float64(interval)

		scale := 1 + math.Sin(progress*math.Pi)*0.5
		opacity := 1 - math.Sin(progress*math.Pi)*0.7

		onPulse(scale, opacity)
		return true
	}

	stop := a.scheduler.Schedule(tick)

	return func() {
		if cancelled.CompareAndSwap(false, true) {
			stop()
		}
	}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
