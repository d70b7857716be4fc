package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_InvalidatesOnChangeEvent(t *testing.T) {
	upgrader := websocket.Upgrader{}
	send := make(chan []byte, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		for payload := range send {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))
		}
	}))
	defer srv.Close()
	defer close(send)

	src := &countingCatalogSource{catalog: twoQueryCatalog()}
	m := newTestManager(t, Deps{Source: src})

	_, err := m.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, src.fetches)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	watcher, err := NewWatcher(wsURL, m, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	send <- []byte(`{"type":"catalog_changed","query_id":"at-risk-mandates","version":"2"}`)

	// The invalidation forces the next read to reload from the source
	require.Eventually(t, func() bool {
		if _, err := m.List(context.Background()); err != nil {
			return false
		}
		return src.fetches >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean shutdown")
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func TestWatcher_MalformedEventIgnored(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"catalog_changed"}`)))
		// Hold the connection open briefly so the client drains both frames
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	src := &countingCatalogSource{catalog: twoQueryCatalog()}
	m := newTestManager(t, Deps{Source: src})
	_, err := m.List(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	watcher, err := NewWatcher("ws"+strings.TrimPrefix(srv.URL, "http"), m, nil)
	require.NoError(t, err)
	go func() { _ = watcher.Run(ctx) }()

	require.Eventually(t, func() bool {
		if _, err := m.List(context.Background()); err != nil {
			return false
		}
		return src.fetches >= 2
	}, 2*time.Second, 10*time.Millisecond, "the valid event still invalidates")
}

func TestWatcher_RequiresConfig(t *testing.T) {
	m := newTestManager(t, Deps{Source: &countingCatalogSource{catalog: twoQueryCatalog()}})

	_, err := NewWatcher("", m, nil)
	assert.Error(t, err)

	_, err = NewWatcher("ws://localhost:1/feed", nil, nil)
	assert.Error(t, err)
}
