package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Resolver resolves a free-text address to a location.
type Resolver interface {
	Resolve(ctx context.Context, address, countryCode string) (domain.LocationResult, error)
}

// AddressParser splits a free-text address into its fields.
type AddressParser interface {
	Parse(address string) domain.ParsedAddress
}

// Server exposes the geocoding API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	resolver   Resolver
	parser     AddressParser
	validate   *validator.Validate
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /v1 geocoding routes.
func NewServer(addr string, resolver Resolver, parser AddressParser, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *zap.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		resolver: resolver,
		parser:   parser,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  metrics,
		logger:   logger,
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.router.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	s.router.HandleFunc("/readyz", sharedobs.ReadinessHandler(ready)).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/geocode", s.handleGeocode).Methods(http.MethodGet)
	api.HandleFunc("/parse", s.handleParse).Methods(http.MethodGet)
	api.Use(requestID, s.requestLogging)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// AllReady combines readiness checkers; the first failure wins.
func AllReady(checkers ...sharedobs.ReadinessChecker) sharedobs.ReadinessChecker {
	return readyAll(checkers)
}

type readyAll []sharedobs.ReadinessChecker

func (r readyAll) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if c == nil {
			continue
		}
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}
