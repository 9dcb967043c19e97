// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"github.com/okian/courtside/internal/adapters/chart"
	service "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
	"github.com/okian/courtside/internal/domain/view"
	"github.com/okian/courtside/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the dashboard service.
type Dependencies interface {
	// Render runs a full page pass; failures are reported as page notices.
	Render(ctx context.Context, in service.Input) *view.Page

	Summary(ctx context.Context) (model.Summary, error)
	Options(ctx context.Context) (model.Options, model.Limits, error)
	Filter(ctx context.Context, in service.Input) ([]model.Row, query.Selection, error)
	Countries(ctx context.Context) ([]model.CountryAggregate, error)
	TopByRank(ctx context.Context) ([]model.LeaderEntry, error)
	TopByPoints(ctx context.Context) ([]model.LeaderEntry, error)
	LeaderboardSize() int

	// Ready opens and releases one connection.
	Ready(ctx context.Context) error
}

// Mounter attaches extra routes, such as the API docs or static assets.
type Mounter func(r chi.Router)

// Server wires HTTP routes for the dashboard and its JSON API.
type Server struct {
	deps   Dependencies
	charts *chart.Renderer
	logger logger.Logger
	extra  []Mounter
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for handler failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChartRenderer replaces the default SVG renderer.
func WithChartRenderer(r *chart.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.charts = r
		}
	}
}

// WithMount registers additional routes on the router.
func WithMount(m Mounter) Option {
	return func(s *Server) {
		if m != nil {
			s.extra = append(s.extra, m)
		}
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, charts: chart.New(), logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the router with every route attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", MetricsMiddleware(s.handleDashboard, "dashboard"))
	r.Get("/healthz", MetricsMiddleware(handleMetrics, "healthz"))
	r.Get("/readyz", MetricsMiddleware(s.handleReady, "readyz"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", MetricsMiddleware(s.handleSummary, "summary"))
		r.Get("/options", MetricsMiddleware(s.handleOptions, "options"))
		r.Get("/competitors", MetricsMiddleware(s.handleCompetitors, "competitors"))
		r.Get("/competitors/{name}", MetricsMiddleware(s.handleCompetitor, "competitor"))
		r.Get("/countries", MetricsMiddleware(s.handleCountries, "countries"))
		r.Get("/leaderboard/rank", MetricsMiddleware(s.handleTopByRank, "leaderboard_rank"))
		r.Get("/leaderboard/points", MetricsMiddleware(s.handleTopByPoints, "leaderboard_points"))
	})

	r.Get("/charts/countries.svg", MetricsMiddleware(s.handleCountryChart, "chart_countries"))
	r.Get("/charts/top-points.svg", MetricsMiddleware(s.handlePointsChart, "chart_top_points"))

	for _, m := range s.extra {
		m(r)
	}
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail classifies err, logs server-side failures and writes the envelope.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", chimiddleware.GetReqID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}
