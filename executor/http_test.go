package executor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
	"github.com/prabhakarm7/sn-graph-sub002/pkg/retry"
)

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func executionRequest() *ExecutionRequest {
	return &ExecutionRequest{
		RequestID: "req-1",
		Region:    "NAI",
		AppliedFilters: map[string]any{
			"consultant.name": []string{"Jane Doe"},
		},
	}
}

func TestHTTPBackendRun(t *testing.T) {
	var gotPath string
	var gotReq ExecutionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(ExecutionResult{
			Rows:        []map[string]any{{"name": "Acme Corp"}},
			ResultField: "companies",
		})
	}))
	defer srv.Close()

	backend, err := NewHTTPBackend(HTTPConfig{BaseURL: srv.URL, Retry: fastRetry()}, nil)
	require.NoError(t, err)

	result, err := backend.Run(context.Background(), executionRequest())
	require.NoError(t, err)

	assert.Equal(t, "/query/execute", gotPath)
	assert.Equal(t, "NAI", gotReq.Region)
	assert.Equal(t, "companies", result.ResultField)
	require.Len(t, result.Rows, 1)
}

func TestHTTPBackendRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(ExecutionResult{ResultField: "companies"})
	}))
	defer srv.Close()

	backend, err := NewHTTPBackend(HTTPConfig{BaseURL: srv.URL, Retry: fastRetry()}, nil)
	require.NoError(t, err)

	result, err := backend.Run(context.Background(), executionRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "companies", result.ResultField)
}

func TestHTTPBackendDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	backend, err := NewHTTPBackend(HTTPConfig{BaseURL: srv.URL, Retry: fastRetry()}, nil)
	require.NoError(t, err)

	_, err = backend.Run(context.Background(), executionRequest())
	assert.ErrorIs(t, err, errors.ErrExecutionFailed)
	assert.Equal(t, int32(1), calls.Load())

	// A backend rejection is the caller's fault, not an outage.
	assert.True(t, errors.IsInvalid(err))
	assert.False(t, errors.IsTransient(err))
}

func TestHTTPBackendExhaustedRetriesAreTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	backend, err := NewHTTPBackend(HTTPConfig{BaseURL: srv.URL, Retry: fastRetry()}, nil)
	require.NoError(t, err)

	_, err = backend.Run(context.Background(), executionRequest())
	assert.ErrorIs(t, err, errors.ErrExecutionFailed)
	assert.True(t, errors.IsTransient(err))
}

func TestHTTPBackendConfigValidation(t *testing.T) {
	_, err := NewHTTPBackend(HTTPConfig{}, nil)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)
}
