package animation

import (
	"sync"
	"time"
)

// defaultFrameInterval approximates a 60fps display-refresh cadence.
const defaultFrameInterval = 16 * time.Millisecond

// FrameScheduler is the tick source driving animation loops. Injecting it
// keeps the animator testable: tests feed synthetic ticks instead of relying
// on a real display-refresh clock.
type FrameScheduler interface {
	// Schedule invokes tick once per frame until tick returns false or the
	// returned cancel function is called. Ticks for one schedule are
	// delivered sequentially, never concurrently.
	Schedule(tick func(now time.Time) bool) (cancel func())
}

// tickerScheduler implements FrameScheduler on a time.Ticker.
type tickerScheduler struct {
	interval time.Duration
}

// NewTickerScheduler creates a FrameScheduler that ticks at the given
// interval. A non-positive interval falls back to ~60fps.
func NewTickerScheduler(interval time.Duration) FrameScheduler {
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	return &tickerScheduler{interval: interval}
}

// Schedule runs the tick loop in a background goroutine until cancelled or
// the callback signals completion.
func (s *tickerScheduler) Schedule(tick func(now time.Time) bool) func() {
	stop := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() { close(stop) })
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				if !tick(now) {
					return
				}
			}
		}
	}()

	return cancel
}
