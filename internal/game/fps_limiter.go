package game

import (
	"time"

	"mini-render/internal/config"
)

// spinWindow is the stretch before a deadline that is busy-waited rather
// than slept, since Sleep overshoots by up to a scheduler tick.
const spinWindow = 200 * time.Microsecond

// FPSLimiter paces Run to config.GetFPSLimit frames per second.
type FPSLimiter struct {
	next time.Time
}

func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// Wait blocks until the next frame is due. The limit is read on every call;
// 0 disables pacing.
func (f *FPSLimiter) Wait() {
	interval := frameInterval(config.GetFPSLimit())
	if interval == 0 {
		f.next = time.Time{}
		return
	}

	if f.next.IsZero() {
		f.next = time.Now()
	}
	f.next = f.next.Add(interval)
	sleepUntil(f.next)

	// More than a frame behind: start over from now.
	if time.Since(f.next) > interval {
		f.next = time.Now().Add(interval)
	}
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

func sleepUntil(deadline time.Time) {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if remaining > spinWindow {
			time.Sleep(remaining - spinWindow)
		}
	}
}
