package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
)

// ChangeEvent is the hot-swap notification the catalog service publishes when
// an administrator mutates the query list out of band.
type ChangeEvent struct {
	Type    string `json:"type"`
	QueryID string `json:"query_id,omitempty"`
	Version string `json:"version,omitempty"`
}

// Watcher subscribes to the catalog change feed over websocket and eagerly
// invalidates the manager's cache on every event, so hot-swapped catalogs
// become visible before the TTL expires.
type Watcher struct {
	url     string
	manager *Manager
	dialer  *websocket.Dialer
	logger  *slog.Logger
}

// NewWatcher creates a change-feed watcher for the manager.
func NewWatcher(url string, manager *Manager, logger *slog.Logger) (*Watcher, error) {
	if url == "" {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "CatalogWatcher", "NewWatcher",
			"feed url required")
	}
	if manager == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "CatalogWatcher", "NewWatcher",
			"manager dependency required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		url:     url,
		manager: manager,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logger:  logger,
	}, nil
}

// Run connects and processes events until ctx is cancelled or the connection
// drops. Reconnection policy belongs to the caller; a dropped feed only costs
// invalidation eagerness, the TTL still bounds staleness.
func (w *Watcher) Run(ctx context.Context) error {
	conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return errors.WrapTransient(err, "CatalogWatcher", "Run", "feed dial")
	}
	defer func() { _ = conn.Close() }()

	w.logger.Info("catalog change feed connected", "url", w.url)

	// Unblock ReadMessage when the context ends
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.WrapTransient(err, "CatalogWatcher", "Run", "feed read")
		}

		var event ChangeEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			w.logger.Warn("unparseable change event ignored", "error", err)
			continue
		}

		w.logger.Debug("catalog change event",
			"type", event.Type,
			"query_id", event.QueryID,
			"version", event.Version)
		w.manager.Invalidate()
	}
}
