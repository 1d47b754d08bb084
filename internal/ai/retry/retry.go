// Package retry wraps an LLM client with bounded exponential backoff.
// Only quota and transport failures are retried; configuration and prompt
// errors fail fast because another attempt cannot change the outcome.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/myrjola/hotseat/internal/ai"
	"github.com/myrjola/hotseat/internal/ai/aierrors"
	"github.com/myrjola/hotseat/internal/errors"
)

type Config struct {
	// MaxAttempts counts the initial request. Values below 2 disable
	// retrying.
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// Jitter spreads delays by up to ±25% to avoid synchronized retries.
	Jitter bool
}

var DefaultConfig = Config{
	MaxAttempts:   3,
	InitialDelay:  500 * time.Millisecond,
	MaxDelay:      8 * time.Second,
	BackoffFactor: 2.0,
	Jitter:        true,
}

// Middleware returns retry middleware for cfg.
func Middleware(cfg Config) ai.Middleware {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	return func(next ai.Client) ai.Client {
		return ai.WrapClient(
			func(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error) {
				var lastErr error

				for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
					if attempt > 1 {
						select {
						case <-ctx.Done():
							return ai.CompletionResponse{}, errors.Wrap(ctx.Err(), "retry cancelled")
						case <-time.After(cfg.delay(attempt)):
						}
					}

					resp, err := next.Complete(ctx, req)
					if err == nil {
						return resp, nil
					}

					lastErr = err

					if !shouldRetry(err) {
						break
					}
				}

				return ai.CompletionResponse{}, lastErr
			},
			next.ModelName,
		)
	}
}

// shouldRetry allows another attempt for retryable gateway errors unless the
// caller already gave up.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return aierrors.IsRetryable(err)
}

// delay computes the backoff before the given attempt. The first retry
// (attempt 2) waits InitialDelay.
func (cfg Config) delay(attempt int) time.Duration {
	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt-2)))

	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	if cfg.Jitter && delay > 0 {
		jitter := time.Duration((rand.Float64()*0.5 - 0.25) * float64(delay))
		delay += jitter
	}

	if delay < 0 {
		delay = cfg.InitialDelay
	}

	return delay
}
