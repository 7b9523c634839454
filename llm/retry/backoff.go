// Package retry provides the bounded exponential backoff applied around
// every adapter's network call.
//
// Worst-case latency of a wrapped call is the sum of the per-attempt network
// latencies plus sum(initial * multiplier^i) of sleeps: with the default
// policy (3 attempts, 1s initial, 2x) that is ~3s of sleeping on top of
// three round trips, before jitter.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Policy configures the backoff behavior.
type Policy struct {
	// MaxAttempts is the total number of invocations, not the number of
	// retries after the first failure. Values below 1 are treated as 1.
	MaxAttempts int

	// InitialDelay is the sleep before the second attempt.
	InitialDelay time.Duration

	// Multiplier grows the delay after each failed attempt.
	Multiplier float64

	// Jitter scales each sleep by a uniform factor in [0.5, 1.5) so
	// concurrent callers do not retry in lockstep.
	Jitter bool

	// OnRetry, when set, observes each failed attempt before the sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultPolicy matches the historical behavior: 3 attempts, 1s initial
// delay, 2x growth, jitter on.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Retryer executes functions under a Policy.
//
// It retries blindly on any error, including ones that cannot succeed on a
// second attempt.
// TODO: classify authentication errors as non-retryable so a bad key fails
// fast instead of burning the full backoff budget.
type Retryer struct {
	policy *Policy
	logger *zap.Logger
}

// New creates a Retryer, normalizing out-of-range policy fields.
func New(policy *Policy, logger *zap.Logger) *Retryer {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = 1 * time.Second
	}
	if policy.Multiplier < 1.0 {
		policy.Multiplier = 2.0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retryer{policy: policy, logger: logger}
}

// Do runs fn until it succeeds or attempts are exhausted. The final error is
// propagated unchanged; nothing is swallowed or wrapped.
func (r *Retryer) Do(ctx context.Context, fn func() error) error {
	_, err := r.DoWithResult(ctx, func() (any, error) {
		return nil, fn()
	})
	return err
}

// DoWithResult is Do for functions that return a value.
func (r *Retryer) DoWithResult(ctx context.Context, fn func() (any, error)) (any, error) {
	delay := r.policy.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			if attempt > 1 {
				r.logger.Info("call succeeded after retry", zap.Int("attempt", attempt))
			}
			return result, nil
		}
		lastErr = err

		if attempt == r.policy.MaxAttempts {
			break
		}

		sleep := delay
		if r.policy.Jitter {
			sleep = time.Duration(float64(delay) * (0.5 + rand.Float64()))
		}

		r.logger.Warn("attempt failed, backing off",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.policy.MaxAttempts),
			zap.Duration("delay", sleep),
			zap.Error(err),
		)
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(attempt, err, sleep)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry canceled: %w", ctx.Err())
		case <-time.After(sleep):
		}

		delay = time.Duration(float64(delay) * r.policy.Multiplier)
	}

	r.logger.Warn("attempts exhausted",
		zap.Int("attempts", r.policy.MaxAttempts),
		zap.Error(lastErr),
	)
	return nil, lastErr
}

// DoTyped is a type-safe wrapper around DoWithResult that avoids the type
// assertion at the call site.
func DoTyped[T any](r *Retryer, ctx context.Context, fn func() (T, error)) (T, error) {
	result, err := r.DoWithResult(ctx, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
