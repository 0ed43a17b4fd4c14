package suite

import (
	"context"
	"time"
)

// Clock provides the current time and a cancellable sleep
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done. A non-positive d returns immediately.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is the wall clock
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
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
