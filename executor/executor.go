// Package executor runs smart queries end to end: catalog resolution,
// prerequisite validation, mode detection and best-effort switching, filter
// cleaning and translation, then dispatch to the backend query service.
package executor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prabhakarm7/sn-graph-sub002/catalog"
	"github.com/prabhakarm7/sn-graph-sub002/errors"
	"github.com/prabhakarm7/sn-graph-sub002/graph"
	"github.com/prabhakarm7/sn-graph-sub002/metric"
	"github.com/prabhakarm7/sn-graph-sub002/telemetry"
	"github.com/prabhakarm7/sn-graph-sub002/translator"
)

// CatalogReader resolves smart queries by ID. *catalog.Manager satisfies it.
type CatalogReader interface {
	Get(ctx context.Context, id string) (*catalog.SmartQuery, error)
}

// QueryService runs a prepared execution request against the backend.
type QueryService interface {
	Run(ctx context.Context, req *ExecutionRequest) (*ExecutionResult, error)
}

// ModeSwitcher flips the explorer's operating mode. Switching is best
// effort: the executor logs failures and proceeds with the query.
type ModeSwitcher interface {
	SwitchMode(ctx context.Context, mode catalog.Mode) error
}

// ExecutionRequest is the wire payload sent to the query service. The
// template already has the region substituted in.
type ExecutionRequest struct {
	RequestID           string             `json:"request_id"`
	Query               catalog.SmartQuery `json:"smart_query"`
	AppliedFilters      map[string]any     `json:"applied_filters"`
	Region              string             `json:"region"`
	RecommendationsMode bool               `json:"recommendations_mode"`
	UserIntent          string             `json:"user_intent,omitempty"`
}

// ExecutionResult is what the query service returns.
type ExecutionResult struct {
	Rows        []map[string]any `json:"rows"`
	ResultField string           `json:"result_field"`
}

// Provenance records how a request was transformed before dispatch, so the
// UI can explain the result it is showing.
//
// ModeChanged reports that the operating mode was actually switched, not
// merely that the detected mode differs from the current one: it stays
// false when no switcher is configured or the switch fails, because in both
// cases the caller's mode state did not change. Mode always carries the
// detected mode the query ran in.
type Provenance struct {
	RequestID           string            `json:"request_id"`
	Mode                catalog.Mode      `json:"mode"`
	ModeChanged         bool              `json:"mode_changed"`
	RenamedKeys         map[string]string `json:"renamed_keys,omitempty"`
	DroppedEmptyFilters int               `json:"dropped_empty_filters"`
	Duration            time.Duration     `json:"duration"`
}

// Response is a completed query execution.
type Response struct {
	QueryID     string           `json:"query_id"`
	Rows        []map[string]any `json:"rows"`
	ResultField string           `json:"result_field"`
	Provenance  Provenance       `json:"provenance"`
}

// Request describes one execution ask from the UI.
type Request struct {
	QueryID     string
	Region      string
	Criteria    *graph.FilterCriteria
	UserIntent  string
	CurrentMode catalog.Mode
}

// Executor orchestrates smart-query execution.
type Executor struct {
	catalog   CatalogReader
	backend   QueryService
	switcher  ModeSwitcher
	telemetry telemetry.Sink
	metrics   *execMetrics
	logger    *slog.Logger
}

// Deps holds the executor's dependencies. Switcher, Telemetry, Registry,
// and Logger are optional.
type Deps struct {
	Catalog   CatalogReader
	Backend   QueryService
	Switcher  ModeSwitcher
	Telemetry telemetry.Sink
	Registry  *metric.Registry
	Logger    *slog.Logger
}

// New creates an Executor.
func New(deps Deps) (*Executor, error) {
	if deps.Catalog == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Executor", "New",
			"catalog reader is required")
	}
	if deps.Backend == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Executor", "New",
			"backend query service is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := deps.Telemetry
	if sink == nil {
		sink = telemetry.Noop{}
	}
	return &Executor{
		catalog:   deps.Catalog,
		backend:   deps.Backend,
		switcher:  deps.Switcher,
		telemetry: sink,
		metrics:   newExecMetrics(deps.Registry),
		logger:    logger.With("component", "executor"),
	}, nil
}

// Execute runs one smart query. Unknown query IDs and unmet filter
// prerequisites fail fast without touching the backend; a mode-switch
// failure is logged and the query proceeds in the detected mode anyway.
func (e *Executor) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if req.Region == "" {
		return nil, errors.WrapInvalid(errors.ErrRegionRequired, "Executor", "Execute",
			"region selection")
	}

	query, err := e.catalog.Get(ctx, req.QueryID)
	if err != nil {
		e.metrics.recordFailure("resolve")
		return nil, err
	}

	if result := catalog.ValidateFilters(query, req.Criteria); !result.IsValid {
		e.metrics.recordFailure("validation")
		return nil, &errors.ValidationError{
			QueryID:       req.QueryID,
			MissingKeys:   result.MissingFilterKeys,
			AvailableKeys: result.AvailableFilterKeys,
		}
	}

	mode := catalog.DetectMode(query, req.UserIntent)
	modeChanged := e.switchMode(ctx, mode, req.CurrentMode)

	prepared := translator.Prepare(req.Criteria)

	outbound := query.Clone()
	outbound.Template = strings.ReplaceAll(outbound.Template, catalog.RegionPlaceholder, req.Region)

	execReq := &ExecutionRequest{
		RequestID:           uuid.NewString(),
		Query:               *outbound,
		AppliedFilters:      prepared.Filters,
		Region:              req.Region,
		RecommendationsMode: mode == catalog.ModeRecommendations,
		UserIntent:          req.UserIntent,
	}

	result, err := e.backend.Run(ctx, execReq)
	duration := time.Since(start)
	e.recordTelemetry(req, execReq, prepared, mode, modeChanged, duration, err)
	if err != nil {
		e.metrics.recordFailure("backend")
		return nil, errors.Wrap(err, "executor", "Execute", "backend dispatch failed")
	}

	resultField := result.ResultField
	if resultField == "" {
		resultField = query.ResultField
	}

	e.metrics.recordExecution(mode, duration)
	return &Response{
		QueryID:     req.QueryID,
		Rows:        result.Rows,
		ResultField: resultField,
		Provenance: Provenance{
			RequestID:           execReq.RequestID,
			Mode:                mode,
			ModeChanged:         modeChanged,
			RenamedKeys:         prepared.Renamed,
			DroppedEmptyFilters: prepared.DroppedEmpty,
			Duration:            duration,
		},
	}, nil
}

// switchMode flips the UI mode when the detected mode differs from the
// current one. Reports whether the mode actually changed.
func (e *Executor) switchMode(ctx context.Context, detected, current catalog.Mode) bool {
	if detected == current || e.switcher == nil {
		return false
	}
	if err := e.switcher.SwitchMode(ctx, detected); err != nil {
		// The query still runs in the detected mode; only the UI toggle
		// is out of sync.
		e.logger.Warn("mode switch failed",
			"from", current, "to", detected,
			"error", errors.Wrap(err, "executor", "switchMode", "switch failed"))
		e.metrics.recordModeSwitchFailure()
		return false
	}
	return true
}

func (e *Executor) recordTelemetry(req Request, execReq *ExecutionRequest,
	prepared translator.Result, mode catalog.Mode, modeChanged bool,
	duration time.Duration, execErr error,
) {
	e.telemetry.Record(telemetry.Event{
		RequestID:    execReq.RequestID,
		QueryID:      req.QueryID,
		Region:       req.Region,
		Mode:         string(mode),
		ModeChanged:  modeChanged,
		FilterCount:  len(prepared.Filters),
		DroppedEmpty: prepared.DroppedEmpty,
		DurationMS:   duration.Milliseconds(),
		Failed:       execErr != nil,
	})
}
