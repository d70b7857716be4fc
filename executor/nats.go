package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
)

// Requester issues a request/reply exchange. *nats.Conn satisfies it.
type Requester interface {
	RequestWithContext(ctx context.Context, subject string, data []byte) (*nats.Msg, error)
}

var _ Requester = (*nats.Conn)(nil)

// NATSBackend dispatches execution requests over NATS request/reply. No
// retry layer here: the NATS client reconnects on its own, and a timed-out
// request is surfaced to the caller as transient.
type NATSBackend struct {
	conn    Requester
	subject string
	timeout time.Duration
	logger  *slog.Logger
}

// NATSConfig configures the NATS query-service backend.
type NATSConfig struct {
	Subject string        `json:"subject" yaml:"subject"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// SetDefaults fills unset fields.
func (c *NATSConfig) SetDefaults() {
	if c.Subject == "" {
		c.Subject = "query.execute"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// NewNATSBackend creates a NATS query-service client.
func NewNATSBackend(conn Requester, cfg NATSConfig, logger *slog.Logger) (*NATSBackend, error) {
	if conn == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "NATSBackend", "NewNATSBackend",
			"connection is required")
	}
	cfg.SetDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	return &NATSBackend{
		conn:    conn,
		subject: cfg.Subject,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// replyEnvelope is the reply wire format: either a result or an error
// message, never both.
type replyEnvelope struct {
	Result *ExecutionResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Run implements QueryService.
func (nb *NATSBackend) Run(ctx context.Context, req *ExecutionRequest) (*ExecutionResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.WrapInvalid(err, "NATSBackend", "Run", "request encode")
	}

	ctx, cancel := context.WithTimeout(ctx, nb.timeout)
	defer cancel()

	msg, err := nb.conn.RequestWithContext(ctx, nb.subject, payload)
	if err != nil {
		return nil, errors.WrapTransient(errors.ErrExecutionFailed, "NATSBackend", "Run",
			fmt.Sprintf("request on %s: %v", nb.subject, err))
	}

	var reply replyEnvelope
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return nil, errors.WrapInvalid(err, "NATSBackend", "Run", "reply decode")
	}
	if reply.Error != "" {
		return nil, errors.WrapInvalid(errors.ErrExecutionFailed, "NATSBackend", "Run", reply.Error)
	}
	if reply.Result == nil {
		return nil, errors.WrapInvalid(errors.ErrExecutionFailed, "NATSBackend", "Run", "empty reply")
	}
	return reply.Result, nil
}
