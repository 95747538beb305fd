// Package resilience provides retry with backoff for the outbound API calls
// the search depends on.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls retry behavior with exponential backoff and jitter.
type Policy struct {
	// Attempts is the total number of tries including the first. 1 means
	// no retries.
	Attempts int

	// BaseDelay is the pause before the first retry; each later retry
	// doubles it, capped at MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Jitter widens each delay by a random fraction of itself, so parallel
	// runs don't retry in lockstep. 0.25 means up to ±25%.
	Jitter float64

	// Retryable overrides the default transient-error check when set.
	Retryable func(err error) bool
}

// DefaultPolicy suits the directory API: short, few attempts, because a page
// token expires if the caller dawdles too long between pages.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:  3,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  5 * time.Second,
		Jitter:    0.25,
	}
}

// Do runs fn, retrying transient failures per the policy. The last error is
// returned when every attempt fails. Context cancellation stops retries
// immediately.
func Do(ctx context.Context, p Policy, op string, fn func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil || attempt == p.Attempts || !retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}

		delay := p.delay(attempt)
		zap.L().Warn("retrying after transient failure",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return err
		}
	}
}

func (p Policy) delay(attempt int) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	if limit := float64(p.MaxDelay); p.MaxDelay > 0 && d > limit {
		d = limit
	}
	if p.Jitter > 0 {
		d += d * p.Jitter * (2*rand.Float64() - 1)
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
