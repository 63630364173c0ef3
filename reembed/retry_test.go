package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		}, 3, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after retries", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		lastErr := errors.New("persistent failure")
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return lastErr
		}, 3, time.Millisecond)

		assert.ErrorIs(t, err, lastErr)
		assert.Equal(t, 3, calls)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		err := RetryWithBackoff(cancelCtx, func() error {
			return errors.New("should not matter")
		}, 3, time.Millisecond)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects non-positive attempts", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})
}
