// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/internal/domain/types"
	"github.com/okian/adlens/pkg/logger"
)

const (
	defaultMaxBatchSize = 100
	defaultMaxBodyBytes = 8 << 20
	defaultCORSMaxAge   = 300
	defaultTimeout      = 60 * time.Second
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Analyze(ctx context.Context, req model.CampaignRequest) (types.Report, error)
	AnalyzeBatch(ctx context.Context, reqs []model.CampaignRequest) (types.BatchReport, error)
	CrossPlatformBudget(ctx context.Context, reqs []model.CampaignRequest, total *float64) (types.CrossPlatformBudget, error)
	CrossPlatformInsights(ctx context.Context, reqs []model.CampaignRequest) (types.CrossPlatformInsights, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	analyzeHandler       *AnalyzeHandler
	crossPlatformHandler *CrossPlatformHandler

	allowedOrigins []string
	timeout        time.Duration
	logger         logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxBatchSize   int
	maxBodyBytes   int64
	allowedOrigins []string
	timeout        time.Duration
	logger         logger.Logger
}

// WithMaxBatchSize caps the number of campaigns per request.
func WithMaxBatchSize(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBatchSize = n
		}
	}
}

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithAllowedOrigins sets the CORS allow-list.
func WithAllowedOrigins(origins []string) ServerOption {
	return func(c *serverConfig) {
		if len(origins) > 0 {
			c.allowedOrigins = origins
		}
	}
}

// WithRequestTimeout bounds the handling time of a single request.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithServerLogger sets the request logger.
func WithServerLogger(l logger.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{
		maxBatchSize:   defaultMaxBatchSize,
		maxBodyBytes:   defaultMaxBodyBytes,
		allowedOrigins: []string{"*"},
		timeout:        defaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get().Named("http")
	}

	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		analyzeHandler:       NewAnalyzeHandler(deps, cfg.maxBatchSize, cfg.maxBodyBytes),
		crossPlatformHandler: NewCrossPlatformHandler(deps, cfg.maxBatchSize, cfg.maxBodyBytes),
		allowedOrigins:       cfg.allowedOrigins,
		timeout:              cfg.timeout,
		logger:               cfg.logger,
	}
}

// Router builds a chi router with the standard middleware stack and all API routes.
func (s *Server) Router(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           defaultCORSMaxAge,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "method_not_allowed", Message: "method not allowed"})
	})

	s.Register(ctx, r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
		r.Post("/analyze/batch", MetricsMiddleware(s.analyzeHandler.HandleAnalyzeBatch, "analyze_batch"))
		r.Route("/cross-platform", func(r chi.Router) {
			r.Post("/budget", MetricsMiddleware(s.crossPlatformHandler.HandleBudget, "cross_platform_budget"))
			r.Post("/insights", MetricsMiddleware(s.crossPlatformHandler.HandleInsights, "cross_platform_insights"))
		})
	})
}

// batchRequest mirrors the OpenAPI schema for the multi-campaign endpoints.
type batchRequest struct {
	Campaigns   []model.CampaignRequest `json:"campaigns"`
	TotalBudget *float64                `json:"total_budget,omitempty"`
}

func (b batchRequest) validate(op string, max int) error {
	switch {
	case len(b.Campaigns) == 0:
		return WrapKind(op, ErrBadRequest, errors.New("no campaigns"))
	case len(b.Campaigns) > max:
		return WrapKind(op, ErrBatchTooLarge, fmt.Errorf("%d campaigns exceeds the limit of %d", len(b.Campaigns), max))
	}
	return nil
}

func validateCampaign(op string, req model.CampaignRequest) error {
	switch {
	case req.Platform == "":
		return WrapKind(op, ErrBadRequest, errors.New("missing platform"))
	case len(req.Analytics) == 0:
		return WrapKind(op, ErrBadRequest, errors.New("missing analytics"))
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeBody reads a size-limited JSON body into dst.
func decodeBody(op string, w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return WrapKind(op, ErrBadRequest, errors.New("empty request body"))
		}
		return WrapKind(op, ErrBadRequest, fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}

// writeJSON encodes v before committing the status, so a value that cannot be
// encoded turns into a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		writeError(w, NewKind("encode response", ErrInternal))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeJSON(w, status, errorResponse{Code: code, Message: messageOf(err)})
}
