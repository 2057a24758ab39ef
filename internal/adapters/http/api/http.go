// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/pokeapi/internal/domain/model"
	"github.com/okian/pokeapi/pkg/logger"
	"github.com/okian/pokeapi/pkg/metrics"
)

// defaultMaxBodyBytes bounds JSON request bodies.
const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	List(ctx context.Context) ([]model.Record, error)
	Get(ctx context.Context, id int64) ([]model.Record, error)
	Create(ctx context.Context, fields model.Fields) (model.Result, error)
	Update(ctx context.Context, id int64, fields model.Fields) (model.Result, error)
	Delete(ctx context.Context, id int64) (model.Result, error)

	// Columns is the writable column allowlist request bodies are checked against.
	Columns() model.Columns
	// Ping reports store health for /healthz.
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps    Dependencies
	logger  logger.Logger
	maxBody int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes bounds request bodies. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, maxBody: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Register attaches the pokemon routes plus /healthz and /metrics to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	for _, rt := range routeTable {
		handle := rt.handle
		h := func(w http.ResponseWriter, r *http.Request) { handle(s, w, r) }
		mux.HandleFunc(rt.method+" "+rt.pattern, MetricsMiddleware(h, rt.endpoint))
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// Handler wraps next with the process-wide middleware chain.
func (s *Server) Handler(next http.Handler) http.Handler {
	return Chain(next,
		Recovery(s.logger),
		RequestID(),
		AccessLog(s.logger),
		CORS(),
		BodyLimit(s.maxBody),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
