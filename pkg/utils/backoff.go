package utils

import (
	"context"
	"math"
	"time"
)

// Backoff computes exponential retry delays: BaseDelay, 2*BaseDelay,
// 4*BaseDelay ... capped at MaxDelay. A zero BaseDelay disables waiting.
type Backoff struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// NewBackoff creates a Backoff with a one minute cap.
func NewBackoff(base time.Duration) Backoff {
	return Backoff{BaseDelay: base, MaxDelay: time.Minute}
}

// Delay returns the wait before retry number retry (1 for the first retry).
func (b Backoff) Delay(retry int) time.Duration {
	if b.BaseDelay <= 0 || retry < 1 {
		return 0
	}
	return b.capDelay(time.Duration(float64(b.BaseDelay) * math.Pow(2, float64(retry-1))))
}

func (b Backoff) capDelay(delay time.Duration) time.Duration {
	if b.MaxDelay > 0 && (delay > b.MaxDelay || delay < 0) {
		return b.MaxDelay
	}
	return delay
}

// Wait sleeps for Delay(retry) or until ctx is done, whichever comes first.
func (b Backoff) Wait(ctx context.Context, retry int) error {
	d := b.Delay(retry)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
