package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	apperrors "github.com/gobarber/gobarber-client/pkg/errors"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"github.com/gobarber/gobarber-client/pkg/metrics"
	"go.uber.org/zap"
)

// Config is an exponential backoff policy
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter spreads each delay by up to 25% in either direction
	Jitter bool
	// RetryableErrors decides whether a failed attempt is repeated
	RetryableErrors func(error) bool
}

// DefaultConfig retries every error three times starting at 100ms
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		Multiplier:      2.0,
		Jitter:          true,
		RetryableErrors: func(error) bool { return true },
	}
}

// ProvidersConfig is the policy for GET /providers.
// Profile and avatar writes are never retried.
func ProvidersConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = 2
	cfg.InitialDelay = 250 * time.Millisecond
	cfg.MaxDelay = 2 * time.Second
	cfg.RetryableErrors = IsRetryable
	return cfg
}

// DoWithResult calls fn until it succeeds, returns a non-retryable error,
// or the policy runs out of attempts. ctx is checked before every attempt
// and interrupts the wait between attempts.
func DoWithResult[T any](ctx context.Context, cfg Config, operation string, fn func() (T, error)) (T, error) {
	var zero T
	var err error

	for attempt := 0; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		var res T
		res, err = fn()
		if err == nil {
			if attempt > 0 {
				logger.Info("API call recovered",
					zap.String("operation", operation),
					zap.Int("retries", attempt))
			}
			return res, nil
		}

		if !cfg.RetryableErrors(err) {
			logger.Debug("API call failed with a final error",
				zap.String("operation", operation),
				zap.Error(err))
			return zero, err
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		delay := calculateDelay(attempt, cfg)
		logger.Warn("API call failed, retrying",
			zap.String("operation", operation),
			zap.Int("retry", attempt+1),
			zap.Int("max_retries", cfg.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))
		metrics.APIRetries.WithLabelValues(operation).Inc()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	logger.Error("API call failed after retries",
		zap.String("operation", operation),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Error(err))

	return zero, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, err)
}

// calculateDelay returns InitialDelay * Multiplier^attempt, capped at MaxDelay
func calculateDelay(attempt int, cfg Config) time.Duration {
	delay := math.Min(
		float64(cfg.InitialDelay)*math.Pow(cfg.Multiplier, float64(attempt)),
		float64(cfg.MaxDelay),
	)

	if cfg.Jitter {
		//nolint:gosec // jitter does not need crypto/rand
		delay += delay * 0.25 * (2*rand.Float64() - 1)
	}

	return time.Duration(delay)
}

// IsRetryable reports whether err is worth another attempt: transport
// failures and 5xx/429 responses are, client errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *apperrors.StatusError
	if apperrors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}

	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
