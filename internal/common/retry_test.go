package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vedant-dewangan/RegexFlow/internal/service"
)

var fastRetry = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     2 * time.Millisecond,
}

func TestWithRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("connection reset"), Retryable: true}

	tests := []struct {
		wantErr   error
		failures  []error
		name      string
		wantCalls int
	}{
		{
			name:      "succeeds first time",
			wantCalls: 1,
		},
		{
			name:      "recovers after transient failures",
			failures:  []error{transient, transient},
			wantCalls: 3,
		},
		{
			name:      "gives up after max attempts",
			failures:  []error{transient, transient, transient},
			wantCalls: 3,
			wantErr:   ErrMaxRetries,
		},
		{
			name:      "permanent failure is not retried",
			failures:  []error{&RetryableError{Err: ErrInvalidConfig, Retryable: false}},
			wantCalls: 1,
			wantErr:   ErrInvalidConfig,
		},
		{
			name:      "plain error is not retried",
			failures:  []error{ErrNotFound},
			wantCalls: 1,
			wantErr:   ErrNotFound,
		},
		{
			name:      "deadline is retried",
			failures:  []error{context.DeadlineExceeded},
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, fastRetry)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return &RetryableError{Err: errors.New("timeout"), Retryable: true}
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(ErrNotFound))
	assert.False(t, IsRetryable(ErrForbidden))
	assert.False(t, IsRetryable(&RetryableError{Err: ErrInvalidTransition, Retryable: true}))
	assert.False(t, IsRetryable(context.Canceled))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("busy"), Retryable: true}))
}
