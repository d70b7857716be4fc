package telemetry

import (
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *capturingConn) Publish(subject string, data []byte) error {
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return c.err
}

func TestNewNATSSinkValidation(t *testing.T) {
	_, err := NewNATSSink(NATSDeps{Subject: "events.queries"})
	assert.Error(t, err)

	_, err = NewNATSSink(NATSDeps{Conn: &capturingConn{}})
	assert.Error(t, err)
}

func TestRecordStampsSession(t *testing.T) {
	conn := &capturingConn{}
	sink, err := NewNATSSink(NATSDeps{
		Conn:    conn,
		Subject: "events.queries",
		Logger:  slog.Default(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, sink.SessionID())

	sink.Record(Event{QueryID: "consultant-coverage", Region: "NAI", Mode: "standard"})
	sink.Record(Event{QueryID: "at-risk-mandates", Region: "NAI", Mode: "recommendations"})

	require.Len(t, conn.payloads, 2)
	assert.Equal(t, []string{"events.queries", "events.queries"}, conn.subjects)

	var first, second Event
	require.NoError(t, json.Unmarshal(conn.payloads[0], &first))
	require.NoError(t, json.Unmarshal(conn.payloads[1], &second))

	assert.Equal(t, sink.SessionID(), first.SessionID)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "consultant-coverage", first.QueryID)
	assert.False(t, first.OccurredAt.IsZero())
}

func TestRecordSwallowsPublishErrors(t *testing.T) {
	conn := &capturingConn{err: errors.New("broker unavailable")}
	sink, err := NewNATSSink(NATSDeps{Conn: conn, Subject: "events.queries"})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		sink.Record(Event{QueryID: "consultant-coverage"})
	})
}

func TestNoopAcceptsEvents(t *testing.T) {
	assert.NotPanics(t, func() {
		Noop{}.Record(Event{QueryID: "anything"})
	})
}
