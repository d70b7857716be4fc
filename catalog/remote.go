package catalog

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

// RemoteSource loads and mutates the catalog over HTTP. Reads retry on
// transient failure before the caller falls back; mutations do not retry.
type RemoteSource struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
	logger     *slog.Logger
}

// RemoteConfig configures the remote catalog source.
type RemoteConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	Retry   retry.Config  `json:"-" yaml:"-"`
}

// SetDefaults fills unset fields.
func (c *RemoteConfig) SetDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = retry.DefaultConfig()
	}
}

// Validate checks the configuration.
func (c *RemoteConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, "RemoteSource", "Validate", "base_url required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return errors.WrapFatal(err, "RemoteSource", "Validate", "base_url parse")
	}
	return nil
}

// NewRemoteSource creates an HTTP-backed catalog source.
func NewRemoteSource(cfg RemoteConfig, logger *slog.Logger) (*RemoteSource, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RemoteSource{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retryCfg:   cfg.Retry,
		logger:     logger,
	}, nil
}

// Fetch loads the catalog list with retry on transient failure.
func (rs *RemoteSource) Fetch(ctx context.Context) (*Catalog, error) {
	loaded, err := retry.DoWithResult(ctx, rs.retryCfg, func() (*Catalog, error) {
		return rs.fetchOnce(ctx)
	})
	if err != nil {
		return nil, errors.WrapTransient(errors.ErrSourceUnavailable, "RemoteSource", "Fetch",
			fmt.Sprintf("catalog load from %s: %v", rs.baseURL, err))
	}
	return loaded, nil
}

func (rs *RemoteSource) fetchOnce(ctx context.Context) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rs.baseURL+"/smart-queries", nil)
	if err != nil {
		return nil, retry.NonRetryable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("catalog endpoint returned %d: %s", resp.StatusCode, body)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.NonRetryable(err)
		}
		return nil, err
	}

	var loaded Catalog
	if err := json.NewDecoder(resp.Body).Decode(&loaded); err != nil {
		return nil, retry.NonRetryable(fmt.Errorf("catalog decode: %w", err))
	}
	return &loaded, nil
}

// Upsert stores a definition via PUT. No retry: the manager surfaces the
// failure and keeps its cache intact.
func (rs *RemoteSource) Upsert(ctx context.Context, q *SmartQuery) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return errors.WrapInvalid(err, "RemoteSource", "Upsert", "definition encode")
	}

	endpoint := rs.baseURL + "/smart-queries/" + url.PathEscape(q.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.WrapInvalid(err, "RemoteSource", "Upsert", "request build")
	}
	req.Header.Set("Content-Type", "application/json")

	return rs.doMutation(req, "Upsert")
}

// Delete removes a definition via DELETE.
func (rs *RemoteSource) Delete(ctx context.Context, id string) error {
	endpoint := rs.baseURL + "/smart-queries/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return errors.WrapInvalid(err, "RemoteSource", "Delete", "request build")
	}

	return rs.doMutation(req, "Delete")
}

func (rs *RemoteSource) doMutation(req *http.Request, op string) error {
	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return errors.WrapTransient(err, "RemoteSource", op, "catalog mutation")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.WrapTransient(
			fmt.Errorf("catalog endpoint returned %d: %s", resp.StatusCode, body),
			"RemoteSource", op, "catalog mutation")
	}

	rs.logger.Info("catalog mutation accepted", "operation", op, "url", req.URL.String())
	return nil
}
