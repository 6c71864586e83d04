package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestUntilReturnsTerminalValue(t *testing.T) {
	p := Poller{Interval: time.Second, MaxAttempts: 10, Sleep: noSleep}

	calls := 0
	value, err := Until(context.Background(), p, func(ctx context.Context) (int, bool, error) {
		calls++
		return 42, calls == 3, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, value)
	require.Equal(t, 3, calls)
}

func TestUntilExhaustsAttempts(t *testing.T) {
	p := Poller{Interval: time.Second, MaxAttempts: 10, Sleep: noSleep}

	calls := 0
	_, err := Until(context.Background(), p, func(ctx context.Context) (int, bool, error) {
		calls++
		return 0, false, nil
	})
	require.ErrorIs(t, err, ErrTimeout)
	require.Equal(t, 10, calls)
}

func TestUntilPropagatesError(t *testing.T) {
	p := Poller{Interval: time.Second, MaxAttempts: 10, Sleep: noSleep}

	boom := errors.New("boom")
	calls := 0
	_, err := Until(context.Background(), p, func(ctx context.Context) (int, bool, error) {
		calls++
		return 0, false, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestUntilHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(time.Second, 10)
	_, err := Until(ctx, p, func(ctx context.Context) (int, bool, error) {
		t.Fatal("fn must not run after cancellation")
		return 0, false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestUntilSleepsBeforeEachAttempt(t *testing.T) {
	var slept []time.Duration
	p := Poller{
		Interval:    time.Second,
		MaxAttempts: 2,
		Sleep: func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}

	_, err := Until(context.Background(), p, func(ctx context.Context) (int, bool, error) {
		return 0, false, nil
	})
	require.ErrorIs(t, err, ErrTimeout)
	require.Equal(t, []time.Duration{time.Second, time.Second}, slept)
}
