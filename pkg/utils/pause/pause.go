// Package pause provides context-aware politeness delays between outbound requests.
package pause

import (
	"context"
	"math/rand/v2"
	"time"
)

// Range is a randomized delay between Min and Max. The zero value does not wait.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Fixed returns a Range that always waits d
func Fixed(d time.Duration) Range {
	return Range{Min: d, Max: d}
}

// Between returns a Range that waits a random duration in [min, max]
func Between(min, max time.Duration) Range {
	return Range{Min: min, Max: max}
}

// Duration picks the delay to wait
func (r Range) Duration() time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rand.N(r.Max-r.Min+1)
}

// Wait sleeps for a picked delay or until ctx is done
func (r Range) Wait(ctx context.Context) error {
	d := r.Duration()
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
