package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/newsflow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &StatusError{StatusCode: 503}
			}
			return nil
		}, fastRetry(3))

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		calls := 0
		permanent := &StatusError{StatusCode: 404}
		err := WithRetry(context.Background(), func() error {
			calls++
			return permanent
		}, fastRetry(5))

		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return ErrGatewayTimeout
		}, fastRetry(2))

		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, ErrGatewayTimeout)
		assert.Equal(t, 2, calls)
	})

	t.Run("single attempt returns the raw error", func(t *testing.T) {
		err := WithRetry(context.Background(), func() error {
			return ErrGatewayTimeout
		}, fastRetry(1))

		assert.ErrorIs(t, err, ErrGatewayTimeout)
		assert.False(t, errors.Is(err, ErrMaxRetries))
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			cancel()
			return ErrGatewayTimeout
		}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
