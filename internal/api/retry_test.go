package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"eadmin/internal/apierr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_NextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffFactor: 2}

	assert.Equal(t, 100*time.Millisecond, p.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, p.NextDelay(2))
	assert.Equal(t, 400*time.Millisecond, p.NextDelay(3))
	assert.Equal(t, time.Second, p.NextDelay(10))
	assert.Equal(t, 100*time.Millisecond, p.NextDelay(0))
}

func TestRetryPolicy_Attempts(t *testing.T) {
	assert.Equal(t, 1, RetryPolicy{}.attempts())
	assert.Equal(t, 3, DefaultRetryPolicy.attempts())
}

func TestRetryable(t *testing.T) {
	ctx := context.Background()
	canceled, cancel := context.WithCancel(ctx)
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{"Transport", ctx, errors.New("connection refused"), true},
		{"ServerError", ctx, &apierr.APIError{Status: http.StatusBadGateway, Code: apierr.CodeDomainError}, true},
		{"ServerDomainCode", ctx, &apierr.APIError{Status: http.StatusInternalServerError, Code: apierr.CodeSpaceNotFound}, false},
		{"ClientError", ctx, &apierr.APIError{Status: http.StatusBadRequest, Code: apierr.CodeDomainError}, false},
		{"Unauthorized", ctx, apierr.ErrUnauthorized, false},
		{"SchemaMismatch", ctx, apierr.ErrSchemaMismatch, false},
		{"Deadline", ctx, context.DeadlineExceeded, false},
		{"CanceledContext", canceled, errors.New("connection reset"), false},
		{"Nil", ctx, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.ctx, tt.err))
		})
	}
}

func TestSleepCtx(t *testing.T) {
	require.NoError(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
}

func TestRateLimiter(t *testing.T) {
	var nilLimiter *rateLimiter
	require.NoError(t, nilLimiter.wait(context.Background(), "/x"))

	l := newRateLimiter(1, 1)
	require.NoError(t, l.wait(context.Background(), "/a"))
	require.NoError(t, l.wait(context.Background(), "/b"))
	assert.Same(t, l.getLimiter("/a"), l.getLimiter("/a"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.wait(ctx, "/a"))
}
