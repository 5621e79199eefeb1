// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/courtevo/vero/internal/domain/dedupe"
	"github.com/courtevo/vero/pkg/logger"
)

const maxJSONBody = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AthleteDependencies
	DecisionDependencies
	ClubDependencies
	ReportDependencies
	TransferDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	athletesHandler  *AthletesHandler
	decisionsHandler *DecisionsHandler
	clubsHandler     *ClubsHandler
	reportsHandler   *ReportsHandler
	transferHandler  *TransferHandler

	limiter *rate.Limiter
	logger  logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxLimit  int
	deduper   dedupe.Deduper
	rateLimit rate.Limit
	burst     int
	logger    logger.Logger
}

// WithMaxListLimit caps the limit query parameter of list endpoints.
func WithMaxListLimit(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxLimit = n
		}
	}
}

// WithDeduper sets the Idempotency-Key store used by create endpoints.
func WithDeduper(d dedupe.Deduper) ServerOption {
	return func(c *serverConfig) {
		if d != nil {
			c.deduper = d
		}
	}
}

// WithRateLimit throttles mutating requests to rps with the given burst.
// rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(c *serverConfig) {
		if rps > 0 {
			c.rateLimit = rate.Limit(rps)
			c.burst = max(burst, 1)
		}
	}
}

// WithServerLogger sets the logger used for handler failures.
func WithServerLogger(l logger.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	cfg := serverConfig{maxLimit: 500}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.deduper == nil {
		cfg.deduper = dedupe.NewInMemoryDeduper()
	}
	if cfg.logger == nil {
		cfg.logger = logger.Named("api")
	}

	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		athletesHandler:  NewAthletesHandler(deps, cfg.deduper, cfg.maxLimit),
		decisionsHandler: NewDecisionsHandler(deps, cfg.deduper, cfg.maxLimit),
		clubsHandler:     NewClubsHandler(deps, cfg.deduper, cfg.maxLimit),
		reportsHandler:   NewReportsHandler(deps),
		transferHandler:  NewTransferHandler(deps),
		logger:           cfg.logger,
	}
	if cfg.rateLimit > 0 {
		s.limiter = rate.NewLimiter(cfg.rateLimit, cfg.burst)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	read := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint, s.logger))
	}
	write := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(RateLimitMiddleware(s.limiter, h, endpoint), endpoint, s.logger))
	}

	read("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	read("GET /stats", "stats", s.statsHandler.HandleStats)

	a := s.athletesHandler
	read("GET /athletes", "athletes", a.HandleList)
	write("POST /athletes", "athletes", a.HandleCreate)
	read("GET /athletes/{id}", "athlete", a.HandleGet)
	write("PATCH /athletes/{id}", "athlete", a.HandleUpdate)
	write("DELETE /athletes/{id}", "athlete", a.HandleDelete)
	write("POST /athletes/{id}/watchlist", "athlete_watchlist", a.HandleToggleWatchlist)
	write("POST /athletes/{id}/notes", "athlete_notes", a.HandleAddNote)
	write("POST /athletes/{id}/heights", "athlete_heights", a.HandleAddHeight)
	write("POST /athletes/{id}/readiness", "athlete_readiness", a.HandleRecordReadiness)

	d := s.decisionsHandler
	read("GET /decisions", "decisions", d.HandleList)
	write("POST /decisions", "decisions", d.HandleCreate)
	read("GET /decisions/{id}", "decision", d.HandleGet)
	write("PATCH /decisions/{id}", "decision", d.HandleUpdate)
	write("DELETE /decisions/{id}", "decision", d.HandleDelete)

	c := s.clubsHandler
	read("GET /clubs", "clubs", c.HandleList)
	write("POST /clubs", "clubs", c.HandleCreate)
	read("GET /clubs/{id}", "club", c.HandleGet)
	write("PATCH /clubs/{id}", "club", c.HandleUpdate)
	write("DELETE /clubs/{id}", "club", c.HandleDelete)

	r := s.reportsHandler
	read("GET /reports/relative-age", "report_relative_age", r.HandleRelativeAge)
	read("GET /reports/growth", "report_growth", r.HandleGrowth)
	read("GET /reports/readiness", "report_readiness", r.HandleReadiness)
	read("GET /reports/compliance", "report_compliance", r.HandleCompliance)
	read("GET /reports/reputation", "report_reputation", r.HandleReputation)

	t := s.transferHandler
	read("GET /export/athletes.csv", "export", t.HandleExportAthletesCSV)
	read("GET /export/athletes.xlsx", "export", t.HandleExportAthletesXLSX)
	read("GET /export/decisions.csv", "export", t.HandleExportDecisionsCSV)
	write("POST /import/athletes", "import", t.HandleImportAthletes)

	s.logger.Debug(ctx, "api routes registered")
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure picks the status for err and writes it.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

// parseLimit reads ?limit=N. Missing means no limit; values above max are rejected.
func parseLimit(r *http.Request, op string, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid limit %q", raw))
	}
	if n > maxLimit {
		return 0, WrapKind(op, ErrBadRequest, fmt.Errorf("limit exceeds %d", maxLimit))
	}
	return n, nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
