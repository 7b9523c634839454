package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() *Policy {
	return &Policy{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	r := New(fastPolicy(), nil)
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttemptsAndReturnsFinalError(t *testing.T) {
	r := New(fastPolicy(), nil)
	sentinel := errors.New("permanent failure")
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return sentinel
	})
	assert.Equal(t, 3, calls)
	// the final error comes back unchanged, not wrapped
	assert.Same(t, sentinel, err)
}

func TestDoWithResultReturnsValue(t *testing.T) {
	r := New(fastPolicy(), nil)
	got, err := r.DoWithResult(context.Background(), func() (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestDoTyped(t *testing.T) {
	r := New(fastPolicy(), nil)
	calls := 0
	got, err := DoTyped(r, context.Background(), func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestContextCancelAbortsBackoff(t *testing.T) {
	r := New(&Policy{MaxAttempts: 5, InitialDelay: time.Hour, Multiplier: 2.0}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- r.Do(ctx, func() error { return errors.New("always") })
	}()
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not abort on context cancellation")
	}
}

func TestSingleAttemptNeverSleeps(t *testing.T) {
	r := New(&Policy{MaxAttempts: 1, InitialDelay: time.Hour, Multiplier: 2.0}, nil)
	start := time.Now()
	err := r.Do(context.Background(), func() error { return errors.New("fail") })
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestOnRetryObservesEachFailure(t *testing.T) {
	var attempts []int
	p := fastPolicy()
	p.OnRetry = func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
	}
	r := New(p, nil)
	_ = r.Do(context.Background(), func() error { return errors.New("fail") })
	// the final attempt has no retry after it
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestNewNormalizesPolicy(t *testing.T) {
	r := New(&Policy{MaxAttempts: -2, InitialDelay: -time.Second, Multiplier: 0}, nil)
	calls := 0
	_ = r.Do(context.Background(), func() error {
		calls++
		return errors.New("fail")
	})
	assert.Equal(t, 1, calls)
}
