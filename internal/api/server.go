package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/notfound-service/internal/config"
	"github.com/JakeFAU/notfound-service/internal/id/uuid"
	"github.com/JakeFAU/notfound-service/internal/metrics"
	"github.com/JakeFAU/notfound-service/internal/policy/ratelimit"
	"github.com/JakeFAU/notfound-service/internal/publisher"
	"github.com/JakeFAU/notfound-service/internal/reasons"
)

const requestTimeout = 30 * time.Second

// CatalogStore is the memoized catalog the handlers read from. *reasons.Cache satisfies it.
type CatalogStore interface {
	Load(ctx context.Context) (reasons.Catalog, error)
	Reload(ctx context.Context) (reasons.Catalog, error)
	Status() reasons.Status
}

// IDGenerator produces request identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

// Server wires HTTP handlers to the reason catalog.
type Server struct {
	router    chi.Router
	catalog   CatalogStore
	selector  *reasons.Selector
	idGen     IDGenerator
	publisher publisher.Publisher
	cfg       config.Config
	logger    *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithSelector overrides the random selector, mainly so tests can fix the sequence.
func WithSelector(sel *reasons.Selector) Option {
	return func(s *Server) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// WithIDGenerator overrides how request IDs are minted.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Server) {
		if gen != nil {
			s.idGen = gen
		}
	}
}

// WithPublisher announces admin-triggered reloads so other replicas refresh too.
func WithPublisher(pub publisher.Publisher) Option {
	return func(s *Server) {
		s.publisher = pub
	}
}

// NewServer constructs a Server with middleware and routes.
func NewServer(catalog CatalogStore, cfg config.Config, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	s := &Server{
		catalog:  catalog,
		selector: reasons.NewSelector(nil),
		idGen:    uuid.New(),
		cfg:      cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(requestTimeout))

	r.Get("/health", s.health)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/", s.home)
	r.Get("/404", s.notFoundPage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/404", s.randomReason)
		r.Get("/404/random", s.randomReason)
		r.Route("/reasons", func(r chi.Router) {
			r.Get("/", s.listReasons)
			if cfg.Admin.APIKey != "" {
				limiter := ratelimit.New(ratelimit.Config{
					PerMinute: cfg.Admin.ReloadPerMinute,
					Burst:     cfg.Admin.ReloadBurst,
				})
				r.With(rateLimitMiddleware(limiter), apiKeyMiddleware(cfg.Admin.APIKey)).
					Post("/reload", s.reloadReasons)
			}
		})
	})

	r.NotFound(s.catchAll)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}
