package timer

import (
	"sync/atomic"
	"time"
)

// tickInterval is the countdown resolution shown to learners.
const tickInterval = time.Second

// StartCountdown ticks toward deadline and fires onExpire when it passes.
//
// onTick receives the remaining duration, clamped to >= 0, once per second.
// onExpire fires exactly once; no onTick follows it. The returned cancel
// function stops the countdown and guarantees onExpire will not fire after it
// wins — required for clean teardown when the learner navigates away.
//
// A deadline already in the past expires on the first tick rather than
// synchronously, so callers have one consistent code path for "time's up".
func StartCountdown(clock Clock, deadline time.Time, onTick func(remaining time.Duration), onExpire func()) (cancel func()) {
	if clock == nil {
		clock = NewClock()
	}

	var done atomic.Bool
	stop := make(chan struct{})
	ticker := clock.NewTicker(tickInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				if done.Load() {
					return
				}
				remaining := deadline.Sub(clock.Now())
				if remaining <= 0 {
					// The CAS makes expiry and cancellation mutually
					// exclusive: whichever flips done first wins.
					if done.CompareAndSwap(false, true) {
						onExpire()
					}
					return
				}
				if onTick != nil {
					onTick(remaining)
				}
			}
		}
	}()

	return func() {
		if done.CompareAndSwap(false, true) {
			close(stop)
		}
	}
}
