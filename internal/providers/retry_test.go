package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"waugzee/internal/providererr"
)

func TestWithRetry_SucceedsImmediately(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_NonTransientErrorReturnsImmediately(t *testing.T) {
	calls := 0
	wantErr := fmt.Errorf("%w: nope", providererr.ErrNotFound)

	err := WithRetry(context.Background(), func(ctx context.Context) error {
		calls++
		return wantErr
	})

	assert.ErrorIs(t, err, providererr.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RetriesTransientUntilContextExpires(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	err := WithRetry(ctx, func(ctx context.Context) error {
		calls++
		return fmt.Errorf("%w: upstream hiccup", providererr.ErrTransient)
	})

	assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, providererr.ErrTransient))
	assert.GreaterOrEqual(t, calls, 1)
}
