package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// RetryPolicy decides how many times a completion is attempted and how long
// to wait between attempts.
type RetryPolicy struct {
	MaxAttempts int
	// Backoff returns the wait after the given zero-based failed attempt.
	Backoff func(attempt int) time.Duration
	// Wait blocks for d or until ctx is done. Defaults to WaitFor.
	Wait func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy retries five times waiting 1s, 2s, 4s, 8s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     ExponentialBackoff(DefaultBaseDelay),
	}
}

// ExponentialBackoff waits base * 2^attempt.
func ExponentialBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base << attempt
	}
}

// Do runs fn until it succeeds, returns a permanent error, the context ends
// or the attempts are exhausted. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	wait := p.Wait
	if wait == nil {
		wait = WaitFor
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx, attempt); err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) || attempt == attempts-1 {
			break
		}
		if p.Backoff == nil {
			continue
		}
		if werr := wait(ctx, p.Backoff(attempt)); werr != nil {
			return fmt.Errorf("waiting for retry: %w", werr)
		}
	}

	return err
}

// WaitFor blocks for d or until the context is done.
func WaitFor(ctx context.Context, d time.Duration) error {
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

// Retrying wraps a Completer with a retry policy.
type Retrying struct {
	next   Completer
	policy RetryPolicy
	logger *zap.Logger
}

// WithRetry decorates next with the policy.
func WithRetry(next Completer, policy RetryPolicy, logger *zap.Logger) *Retrying {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{next: next, policy: policy, logger: logger}
}

func (r *Retrying) Complete(ctx context.Context, req Request) (string, error) {
	var out string
	err := r.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		text, err := r.next.Complete(ctx, req)
		if err != nil {
			r.logger.Warn("completion attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", r.policy.MaxAttempts),
				zap.Error(err),
			)
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return out, nil
}
