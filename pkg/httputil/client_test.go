package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astro/pkg/logger"
)

func TestNew(t *testing.T) {
	client := New(5*time.Second, logger.Nop())
	require.NotNil(t, client)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 3, client.retryConfig.MaxRetries)
	assert.True(t, client.retryConfig.Enabled)
	assert.Nil(t, client.limiter)
}

func TestWithRetryAndDisable(t *testing.T) {
	client := New(time.Second, logger.Nop()).WithRetry(5, 2*time.Second)
	assert.Equal(t, 5, client.retryConfig.MaxRetries)
	assert.Equal(t, 2*time.Second, client.retryConfig.InitialDelay)

	client.DisableRetry()
	assert.False(t, client.retryConfig.Enabled)
}

func TestWithRateLimit(t *testing.T) {
	client := New(time.Second, logger.Nop()).WithRateLimit(0.5)
	require.NotNil(t, client.limiter)
	assert.Equal(t, 1, client.limiter.Burst())

	client.WithRateLimit(0)
	assert.Nil(t, client.limiter)
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"longitude": 15.5}`))
	}))
	defer server.Close()

	client := New(time.Second, logger.Nop()).WithHeader("X-API-Key", "secret")

	var out struct {
		Longitude float64 `json:"longitude"`
	}
	require.NoError(t, client.GetJSON(context.Background(), server.URL, &out))
	assert.Equal(t, 15.5, out.Longitude)
}

func TestGetJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(time.Second, logger.Nop())

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL, &out)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestRetryOn5xx(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(time.Second, logger.Nop()).WithRetry(3, 10*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestRetry_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(time.Second, logger.Nop()).WithRetry(5, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, server.URL)
	assert.Error(t, err)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{200, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryableError(tt.code), "status %d", tt.code)
	}
}
