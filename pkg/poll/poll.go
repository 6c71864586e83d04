// Package poll provides a fixed-interval retry combinator for operations
// that become ready asynchronously, such as judge verdict lookups.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the attempt budget is exhausted before the
// polled operation reports a terminal value.
var ErrTimeout = errors.New("poll: attempts exhausted")

// Func produces a candidate value. done reports whether the value is
// terminal; a non-nil error aborts polling immediately.
type Func[T any] func(ctx context.Context) (value T, done bool, err error)

// Poller repeats an operation at a fixed interval. The interval is not
// adaptive and does not back off.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	// Sleep waits between attempts; tests inject a no-op to avoid
	// real delays. Defaults to a context-aware timer sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Poller with the default context-aware sleep.
func New(interval time.Duration, maxAttempts int) Poller {
	return Poller{Interval: interval, MaxAttempts: maxAttempts, Sleep: SleepContext}
}

// SleepContext blocks for d or until the context is cancelled.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Until polls fn every interval until it reports done, the attempt budget
// runs out, fn fails, or the context is cancelled. Each attempt waits the
// interval before calling fn, so the wall-clock ceiling is roughly
// MaxAttempts times Interval.
func Until[T any](ctx context.Context, p Poller, fn Func[T]) (T, error) {
	var zero T

	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := sleep(ctx, p.Interval); err != nil {
			return zero, err
		}

		value, done, err := fn(ctx)
		if err != nil {
			return zero, err
		}
		if done {
			return value, nil
		}
	}

	return zero, ErrTimeout
}
