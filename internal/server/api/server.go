// Package api provides the HTTP API server and handlers of the diary.
package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DiaryService is implemented by services.DiaryService.
type DiaryService interface {
	CreateEntryWithTags(ctx context.Context, content string, tagNames []string) (int64, error)
	CreateSimpleEntry(ctx context.Context, content string) (int64, error)
	CountEntries(ctx context.Context) (int64, error)
	ListEntriesWithTags(ctx context.Context, page, limit int) (*models.Page[*models.EntryWithTags], error)
	ListEntriesByTag(ctx context.Context, tagID int64, page, limit int) (*models.Page[*models.Entry], error)
}

// TagService is implemented by services.TagService.
type TagService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name string) (models.Tag, bool, error)
}

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tune the HTTP layer.
type Options struct {
	AllowedOrigins []string
	PageSize       int
	WriteRateLimit float64 // requests per second per client on write routes
	WriteRateBurst int
	MaxBodyBytes   int64
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	diary     DiaryService
	tags      TagService
	db        Pinger
	opts      Options
	limiter   *RateLimiter
	validator *Validator
	router    *chi.Mux
	log       logging.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// Call Close to release the rate limiter.
func NewServer(diary DiaryService, tags TagService, db Pinger, opts Options, log logging.Logger) *Server {
	if opts.PageSize <= 0 {
		opts.PageSize = common.DefaultPageSize
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.WriteRateLimit <= 0 {
		opts.WriteRateLimit = 5
	}
	if opts.WriteRateBurst <= 0 {
		opts.WriteRateBurst = 10
	}

	s := &Server{
		diary:     diary,
		tags:      tags,
		db:        db,
		opts:      opts,
		limiter:   NewRateLimiter(opts.WriteRateLimit, opts.WriteRateBurst),
		validator: NewValidator(),
		router:    chi.NewRouter(),
		log:       log.With("module", "api"),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.limiter.Stop()
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)
	corsOpts := cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", common.RequestIDHeader},
		ExposedHeaders: []string{common.RequestIDHeader},
		MaxAge:         300,
	}
	// cors treats an empty list as "any origin"; no configured origin means none.
	if len(corsOpts.AllowedOrigins) == 0 {
		corsOpts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	s.router.Use(cors.Handler(corsOpts))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", s.handleListEntries)
			r.Get("/count", s.handleCountEntries)

			r.Group(func(r chi.Router) {
				r.Use(s.rateLimit, s.limitBody)
				r.Post("/", s.handleCreateEntry)
				r.Post("/with-tags", s.handleCreateEntryWithTags)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.handleListTags)
			r.With(s.rateLimit, s.limitBody).Post("/", s.handleCreateTag)
			r.Get("/{id}/entries", s.handleListEntriesByTag)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.log.Warn(r.Context(), "health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable", s.log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.log)
}
