package utils

import (
	"context"
	"time"
)

// Wait blocks for d or until ctx is done. A nil sleep waits on a timer that
// is stopped on cancellation; an injected sleep (tests) runs in a goroutine
// that is left to finish on its own.
func Wait(ctx context.Context, d time.Duration, sleep func(time.Duration)) error {
	if d <= 0 {
		return ctx.Err()
	}

	if sleep == nil {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
