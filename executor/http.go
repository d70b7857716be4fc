package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
	"github.com/prabhakarm7/sn-graph-sub002/pkg/retry"
)

// HTTPBackend dispatches execution requests to the query service over HTTP.
// Transient failures retry; client errors and validation rejections do not.
type HTTPBackend struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
	logger     *slog.Logger
}

// HTTPConfig configures the HTTP query-service backend.
type HTTPConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	Retry   retry.Config  `json:"-" yaml:"-"`
}

// SetDefaults fills unset fields.
func (c *HTTPConfig) SetDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = retry.DefaultConfig()
	}
}

// Validate checks the configuration.
func (c *HTTPConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, "HTTPBackend", "Validate", "base_url required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return errors.WrapFatal(err, "HTTPBackend", "Validate", "base_url parse")
	}
	return nil
}

// NewHTTPBackend creates an HTTP query-service client.
func NewHTTPBackend(cfg HTTPConfig, logger *slog.Logger) (*HTTPBackend, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPBackend{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retryCfg:   cfg.Retry,
		logger:     logger,
	}, nil
}

// Run implements QueryService.
func (hb *HTTPBackend) Run(ctx context.Context, req *ExecutionRequest) (*ExecutionResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.WrapInvalid(err, "HTTPBackend", "Run", "request encode")
	}

	result, err := retry.DoWithResult(ctx, hb.retryCfg, func() (*ExecutionResult, error) {
		return hb.runOnce(ctx, payload)
	})
	if err != nil {
		message := fmt.Sprintf("query dispatch to %s: %v", hb.baseURL, err)
		// Client-side rejections stay invalid so callers do not map them
		// to a retryable 5xx.
		if retry.IsNonRetryable(err) {
			return nil, errors.WrapInvalid(errors.ErrExecutionFailed, "HTTPBackend", "Run", message)
		}
		return nil, errors.WrapTransient(errors.ErrExecutionFailed, "HTTPBackend", "Run", message)
	}
	return result, nil
}

func (hb *HTTPBackend) runOnce(ctx context.Context, payload []byte) (*ExecutionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		hb.baseURL+"/query/execute", bytes.NewReader(payload))
	if err != nil {
		return nil, retry.NonRetryable(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hb.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("query service returned %d: %s", resp.StatusCode, body)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.NonRetryable(err)
		}
		return nil, err
	}

	var result ExecutionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, retry.NonRetryable(fmt.Errorf("result decode: %w", err))
	}
	return &result, nil
}
