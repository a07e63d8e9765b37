package service

import (
	"context"
	"time"
)

// Scheduler paces the phase drivers. Injected so tests can run
// simulations with zero delay.
type Scheduler interface {
	// Wait blocks for d or until ctx is cancelled, returning ctx.Err()
	// in the latter case.
	Wait(ctx context.Context, d time.Duration) error
}

// TimerScheduler is the production Scheduler backed by time.Timer.
type TimerScheduler struct{}

// Wait implements Scheduler.
func (TimerScheduler) Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
