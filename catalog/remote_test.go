package catalog

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

	"github.com/prabhakarm7/sn-graph-sub002/pkg/retry"
)

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRemoteSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/smart-queries", r.URL.Path)
		_ = json.NewEncoder(w).Encode(twoQueryCatalog())
	}))
	defer srv.Close()

	rs, err := NewRemoteSource(RemoteConfig{BaseURL: srv.URL, Retry: fastRetry()}, nil)
	require.NoError(t, err)

	loaded, err := rs.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded.Queries, 2)
	assert.Equal(t, "test-1", loaded.Metadata.Version)
}

func TestRemoteSource_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(twoQueryCatalog())
	}))
	defer srv.Close()

	rs, err := NewRemoteSource(RemoteConfig{BaseURL: srv.URL, Retry: fastRetry()}, nil)
	require.NoError(t, err)

	loaded, err := rs.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded.Queries, 2)
	assert.Equal(t, int32(3), hits.Load())
}

func TestRemoteSource_ClientErrorsDoNotRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	rs, err := NewRemoteSource(RemoteConfig{BaseURL: srv.URL, Retry: fastRetry()}, nil)
	require.NoError(t, err)

	_, err = rs.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "4xx responses must not retry")
}

func TestRemoteSource_Mutations(t *testing.T) {
	type seen struct {
		method, path string
	}
	var calls []seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, seen{r.Method, r.URL.Path})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rs, err := NewRemoteSource(RemoteConfig{BaseURL: srv.URL, Retry: fastRetry()}, nil)
	require.NoError(t, err)

	require.NoError(t, rs.Upsert(context.Background(), admissibleQuery()))
	require.NoError(t, rs.Delete(context.Background(), "client-product-holdings"))

	require.Len(t, calls, 2)
	assert.Equal(t, seen{http.MethodPut, "/smart-queries/client-product-holdings"}, calls[0])
	assert.Equal(t, seen{http.MethodDelete, "/smart-queries/client-product-holdings"}, calls[1])
}

func TestRemoteSource_MutationFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	}))
	defer srv.Close()

	rs, err := NewRemoteSource(RemoteConfig{BaseURL: srv.URL, Retry: fastRetry()}, nil)
	require.NoError(t, err)

	assert.Error(t, rs.Upsert(context.Background(), admissibleQuery()))
}

func TestRemoteSource_RequiresBaseURL(t *testing.T) {
	_, err := NewRemoteSource(RemoteConfig{}, nil)
	assert.Error(t, err)
}
