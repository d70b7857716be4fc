// Package telemetry publishes fire-and-forget usage events for query
// executions. Publishing never blocks a query and a broken sink never fails
// one: errors are logged and dropped.
package telemetry

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
)

// Event describes one query execution.
type Event struct {
	SessionID    string    `json:"session_id"`
	RequestID    string    `json:"request_id"`
	QueryID      string    `json:"query_id"`
	Region       string    `json:"region"`
	Mode         string    `json:"mode"`
	ModeChanged  bool      `json:"mode_changed"`
	FilterCount  int       `json:"filter_count"`
	DroppedEmpty int       `json:"dropped_empty"`
	DurationMS   int64     `json:"duration_ms"`
	Failed       bool      `json:"failed"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Sink accepts execution events.
type Sink interface {
	Record(event Event)
}

// Publisher is an optional NATS-backed connection the sink publishes
// through. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// NATSSink publishes events to a NATS subject. All events from one sink
// share a session ID so a stream consumer can group a user's activity.
type NATSSink struct {
	conn      Publisher
	subject   string
	sessionID string
	logger    *slog.Logger
}

// NATSDeps holds the dependencies for a NATSSink.
type NATSDeps struct {
	Conn    Publisher
	Subject string
	Logger  *slog.Logger
}

// NewNATSSink creates a sink publishing to the given subject.
func NewNATSSink(deps NATSDeps) (*NATSSink, error) {
	if deps.Conn == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "NATSSink", "NewNATSSink",
			"connection is required")
	}
	if deps.Subject == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "NATSSink", "NewNATSSink",
			"subject is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSSink{
		conn:      deps.Conn,
		subject:   deps.Subject,
		sessionID: uuid.NewString(),
		logger:    logger.With("component", "telemetry"),
	}, nil
}

// SessionID returns the session identifier stamped onto every event.
func (s *NATSSink) SessionID() string { return s.sessionID }

// Record publishes the event. Failures are logged, never returned.
func (s *NATSSink) Record(event Event) {
	event.SessionID = s.sessionID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("dropping telemetry event",
			"query_id", event.QueryID, "error", err)
		return
	}
	if err := s.conn.Publish(s.subject, payload); err != nil {
		s.logger.Warn("telemetry publish failed",
			"subject", s.subject, "query_id", event.QueryID, "error", err)
	}
}

// Noop discards every event.
type Noop struct{}

// Record implements Sink.
func (Noop) Record(Event) {}
