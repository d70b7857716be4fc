// Package api exposes the explorer data layer over HTTP: snapshot retrieval
// with filtering, filter-option discovery, catalog management, and smart
// query execution.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/prabhakarm7/sn-graph-sub002/catalog"
	"github.com/prabhakarm7/sn-graph-sub002/errors"
	"github.com/prabhakarm7/sn-graph-sub002/executor"
	"github.com/prabhakarm7/sn-graph-sub002/filter"
	"github.com/prabhakarm7/sn-graph-sub002/graph"
	"github.com/prabhakarm7/sn-graph-sub002/metric"
	"github.com/prabhakarm7/sn-graph-sub002/snapshot"
)

const maxBodyBytes = 1 << 20

// CatalogService is the slice of catalog.Manager the API needs.
type CatalogService interface {
	List(ctx context.Context) ([]catalog.SmartQuery, error)
	Get(ctx context.Context, id string) (*catalog.SmartQuery, error)
	Metadata(ctx context.Context) (*catalog.Metadata, error)
	Upsert(ctx context.Context, q *catalog.SmartQuery) error
	Delete(ctx context.Context, id string) error
}

// QueryExecutor runs smart queries end to end.
type QueryExecutor interface {
	Execute(ctx context.Context, req executor.Request) (*executor.Response, error)
}

// Server routes explorer requests. It implements http.Handler.
type Server struct {
	mux      *http.ServeMux
	store    *snapshot.Store
	engine   *filter.Engine
	catalog  CatalogService
	executor QueryExecutor
	metrics  *apiMetrics
	logger   *slog.Logger
}

// Deps holds the server's dependencies. Registry and Logger are optional.
type Deps struct {
	Store    *snapshot.Store
	Engine   *filter.Engine
	Catalog  CatalogService
	Executor QueryExecutor
	Registry *metric.Registry
	Logger   *slog.Logger
}

// NewServer creates the API server and registers its routes.
func NewServer(deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Engine == nil || deps.Catalog == nil || deps.Executor == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Server", "NewServer",
			"store, engine, catalog, and executor are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		store:    deps.Store,
		engine:   deps.Engine,
		catalog:  deps.Catalog,
		executor: deps.Executor,
		metrics:  newAPIMetrics(deps.Registry),
		logger:   logger.With("component", "api"),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/v1/graph", s.handleGraph)
	s.mux.HandleFunc("POST /api/v1/graph/options", s.handleFilterOptions)
	s.mux.HandleFunc("GET /api/v1/queries", s.handleListQueries)
	s.mux.HandleFunc("GET /api/v1/queries/{id}", s.handleGetQuery)
	s.mux.HandleFunc("PUT /api/v1/queries/{id}", s.handleUpsertQuery)
	s.mux.HandleFunc("DELETE /api/v1/queries/{id}", s.handleDeleteQuery)
	s.mux.HandleFunc("POST /api/v1/queries/{id}/validate", s.handleValidateQuery)
	s.mux.HandleFunc("POST /api/v1/queries/{id}/execute", s.handleExecuteQuery)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// ServeHTTP implements http.Handler with request-ID propagation.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)

	start := time.Now()
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(recorder, r)

	s.metrics.recordRequest(r.Method, recorder.status, time.Since(start))
	s.logger.Debug("request handled",
		"method", r.Method, "path", r.URL.Path,
		"status", recorder.status, "request_id", requestID)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// graphRequest selects regions and optional filters for a snapshot fetch.
type graphRequest struct {
	Regions []string       `json:"regions"`
	Filters map[string]any `json:"filters,omitempty"`
}

// graphResponse carries the filtered snapshot plus the options derivable
// from it.
type graphResponse struct {
	Nodes         []graph.Node            `json:"nodes"`
	Relationships []graph.Relationship    `json:"relationships"`
	Options       *snapshot.FilterOptions `json:"filter_options"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !s.decode(w, r, &req) {
		return
	}

	snap, err := s.store.GetSnapshot(r.Context(), req.Regions)
	if err != nil {
		s.writeError(w, err)
		return
	}

	filtered := s.engine.Apply(snap, graph.CriteriaFromMap(req.Filters))
	s.writeJSON(w, http.StatusOK, graphResponse{
		Nodes:         filtered.Nodes,
		Relationships: filtered.Relationships,
		Options:       snapshot.ExtractOptions(filtered),
	})
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !s.decode(w, r, &req) {
		return
	}

	snap, err := s.store.GetSnapshot(r.Context(), req.Regions)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snapshot.ExtractOptions(snap))
}

func (s *Server) handleListQueries(w http.ResponseWriter, r *http.Request) {
	queries, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	meta, err := s.catalog.Metadata(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"smart_queries": queries,
		"metadata":      meta,
	})
}

func (s *Server) handleGetQuery(w http.ResponseWriter, r *http.Request) {
	q, err := s.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleUpsertQuery(w http.ResponseWriter, r *http.Request) {
	var q catalog.SmartQuery
	if !s.decode(w, r, &q) {
		return
	}
	q.ID = r.PathValue("id")

	if err := s.catalog.Upsert(r.Context(), &q); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": q.ID})
}

func (s *Server) handleDeleteQuery(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateRequest carries the filters to check against a query's
// prerequisites.
type validateRequest struct {
	Filters map[string]any `json:"filters"`
}

func (s *Server) handleValidateQuery(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !s.decode(w, r, &req) {
		return
	}

	q, err := s.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	result := catalog.ValidateFilters(q, graph.CriteriaFromMap(req.Filters))
	s.writeJSON(w, http.StatusOK, result)
}

// executeRequest is the execution ask from the UI.
type executeRequest struct {
	Region      string         `json:"region"`
	Filters     map[string]any `json:"filters,omitempty"`
	UserIntent  string         `json:"user_intent,omitempty"`
	CurrentMode string         `json:"current_mode,omitempty"`
}

func (s *Server) handleExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.executor.Execute(r.Context(), executor.Request{
		QueryID:     r.PathValue("id"),
		Region:      req.Region,
		Criteria:    graph.CriteriaFromMap(req.Filters),
		UserIntent:  req.UserIntent,
		CurrentMode: catalog.Mode(req.CurrentMode),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses with structured bodies
// the UI can render directly.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if ve, ok := errors.AsValidation(err); ok {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":                 "filter prerequisites not met",
			"query_id":              ve.QueryID,
			"missing_filter_keys":   ve.MissingKeys,
			"available_filter_keys": ve.AvailableKeys,
		})
		return
	}
	if te, ok := errors.AsTemplate(err); ok {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "query definition rejected",
			"query_id":   te.QueryID,
			"violations": te.Violations,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case stderrors.Is(err, errors.ErrQueryNotFound):
		status = http.StatusNotFound
	case errors.IsInvalid(err):
		status = http.StatusBadRequest
	case errors.IsTransient(err):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
