package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultFetchPolicy retries source downloads a few times with short backoff.
// retryable decides which failures are transient; nil retries everything.
func DefaultFetchPolicy(log *zap.Logger, retryable func(error) bool) Policy {
	if retryable == nil {
		retryable = func(err error) bool { return err != nil }
	}
	return Policy{
		Name:      "source_fetch",
		Attempts:  3,
		Backoff:   ExpoJitter{Base: 500 * time.Millisecond, Max: 5 * time.Second, Jitter: 0.2},
		Retryable: retryable,
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("fetch retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("fetch retries exhausted", zap.Error(err))
			}
		},
	}
}
