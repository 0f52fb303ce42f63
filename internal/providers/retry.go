package providers

import (
	"context"
	"errors"
	"time"

	"waugzee/internal/providererr"
)

const (
	maxRetries          = 10
	retryBackoffStart   = 3 * time.Second
	retryBackoffPerStep = 3 * time.Second
)

// WithRetry runs fn up to maxRetries+1 times, retrying only on
// providererr.ErrTransient with linearly increasing backoff starting at
// retryBackoffStart (§4.1). NotFound/Forbidden/Permanent results return
// immediately — the caller treats them as authoritative.
func WithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, providererr.ErrTransient) {
			return lastErr
		}
		if attempt == maxRetries {
			break
		}

		backoff := retryBackoffStart + time.Duration(attempt)*retryBackoffPerStep
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return lastErr
}
