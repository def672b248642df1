package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	BackoffMultiple float64
}

// DefaultRetryConfig returns sensible defaults for retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     4,
		InitialBackoff:  1 * time.Second,
		MaxBackoff:      30 * time.Second,
		BackoffMultiple: 2.0,
	}
}

// RateLimitBackoff is the wait applied when GitHub reports a rate limit.
// GitHub recommends waiting "a few minutes"; 60s is a reasonable floor.
const RateLimitBackoff = 60 * time.Second

// Retryer executes operations with exponential backoff. Only transient
// errors retry; 4xx client errors return immediately.
type Retryer struct {
	config RetryConfig
	logger *slog.Logger
}

// NewRetryer creates a new retryer.
func NewRetryer(config RetryConfig, logger *slog.Logger) *Retryer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retryer{config: config, logger: logger}
}

// RetryFunc is a function that can be retried.
type RetryFunc func(ctx context.Context) error

// Do executes a function with retry logic.
func (r *Retryer) Do(ctx context.Context, operation string, fn RetryFunc) error {
	var lastErr error
	backoff := r.config.InitialBackoff

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				r.logger.Info("operation succeeded after retry",
					"operation", operation,
					"attempt", attempt)
			}
			return nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			r.logger.Debug("non-retryable error",
				"operation", operation,
				"attempt", attempt,
				"error", err)
			return err
		}

		if attempt == r.config.MaxAttempts {
			break
		}

		wait := backoff
		if IsRateLimitError(err) {
			wait = RateLimitBackoff
			r.logger.Warn("rate limit hit, waiting before retry",
				"operation", operation,
				"attempt", attempt,
				"wait", wait)
		} else {
			r.logger.Info("retryable error, backing off",
				"operation", operation,
				"attempt", attempt,
				"backoff", wait,
				"error", err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-time.After(wait):
			backoff = min(time.Duration(float64(backoff)*r.config.BackoffMultiple), r.config.MaxBackoff)
		}
	}

	return fmt.Errorf("operation %s failed after %d attempts: %w",
		operation, r.config.MaxAttempts, lastErr)
}

// DoWithRetry executes a function that returns a value with retry logic.
func DoWithRetry[T any](
	ctx context.Context,
	retryer *Retryer,
	operation string,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	var result T
	var lastErr error

	err := retryer.Do(ctx, operation, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		if err != nil {
			lastErr = err
			return err
		}
		return nil
	})

	if err != nil {
		return result, lastErr
	}
	return result, nil
}
