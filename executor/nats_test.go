package executor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
)

type fakeRequester struct {
	subject string
	data    []byte
	reply   replyEnvelope
	err     error
}

func (fr *fakeRequester) RequestWithContext(_ context.Context, subject string, data []byte) (*nats.Msg, error) {
	fr.subject = subject
	fr.data = data
	if fr.err != nil {
		return nil, fr.err
	}
	payload, err := json.Marshal(fr.reply)
	if err != nil {
		return nil, err
	}
	return &nats.Msg{Subject: subject, Data: payload}, nil
}

func TestNATSBackendRun(t *testing.T) {
	requester := &fakeRequester{reply: replyEnvelope{
		Result: &ExecutionResult{
			Rows:        []map[string]any{{"name": "Acme Corp"}},
			ResultField: "companies",
		},
	}}

	backend, err := NewNATSBackend(requester, NATSConfig{}, nil)
	require.NoError(t, err)

	result, err := backend.Run(context.Background(), executionRequest())
	require.NoError(t, err)

	assert.Equal(t, "query.execute", requester.subject)
	assert.Equal(t, "companies", result.ResultField)

	var sent ExecutionRequest
	require.NoError(t, json.Unmarshal(requester.data, &sent))
	assert.Equal(t, "NAI", sent.Region)
}

func TestNATSBackendErrorReply(t *testing.T) {
	requester := &fakeRequester{reply: replyEnvelope{Error: "template rejected"}}

	backend, err := NewNATSBackend(requester, NATSConfig{Subject: "graph.query"}, nil)
	require.NoError(t, err)

	_, err = backend.Run(context.Background(), executionRequest())
	assert.ErrorIs(t, err, errors.ErrExecutionFailed)
	assert.Contains(t, err.Error(), "template rejected")
	assert.Equal(t, "graph.query", requester.subject)
}

func TestNATSBackendTransportFailure(t *testing.T) {
	requester := &fakeRequester{err: nats.ErrNoResponders}

	backend, err := NewNATSBackend(requester, NATSConfig{}, nil)
	require.NoError(t, err)

	_, err = backend.Run(context.Background(), executionRequest())
	assert.True(t, errors.IsTransient(err))
}

func TestNATSBackendRequiresConnection(t *testing.T) {
	_, err := NewNATSBackend(nil, NATSConfig{}, nil)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)
}
