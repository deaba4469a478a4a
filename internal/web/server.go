// Package web provides the HTTP report server: stored contract reports as
// HTML or JSON, on-demand validation and Prometheus metrics.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/contractcheck/internal/config"
	"github.com/JonMunkholm/contractcheck/internal/core"
	"github.com/JonMunkholm/contractcheck/internal/report"
	"github.com/JonMunkholm/contractcheck/internal/store"
	"github.com/JonMunkholm/contractcheck/internal/web/middleware"
)

// ContractChecker validates one contract file by name.
type ContractChecker interface {
	Check(ctx context.Context, file string) (*core.FileReport, error)
}

// ReportStore keeps the latest report of each contract.
type ReportStore interface {
	Save(report *core.FileReport) (string, error)
	Load(name string) (*core.FileReport, error)
	List() ([]store.Summary, error)
}

// Deps are the collaborators of the server. Gatherer is optional; without a
// Publisher validated reports are saved to Reports only.
type Deps struct {
	Checker   ContractChecker
	Reports   ReportStore
	Publisher *report.Publisher
	Limiter   *core.ValidationLimiter
	Gatherer  prometheus.Gatherer
	Timeout   time.Duration // upper bound of one validation
}

// Server is the HTTP report server.
type Server struct {
	deps   Deps
	cfg    config.ServerConfig
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Limiter == nil {
		deps.Limiter = core.NewValidationLimiter(0, 0)
	}
	if deps.Publisher == nil {
		deps.Publisher = &report.Publisher{Issues: deps.Reports}
	}
	s := &Server{
		deps:   deps,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))

	// Security hardening
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Get("/reports/{name}", s.handleReportPage)

	// Operations
	s.router.Get("/healthz", s.handleHealth)
	if s.deps.Gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		if len(s.cfg.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.cfg.CORSOrigins,
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
				MaxAge:         300,
			}))
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{name}", s.handleGetReport)

		r.With(middleware.APIKeyAuth(s.cfg.APIKeys)).Post("/validate/{file}", s.handleValidate)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("starting report server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and waits for running validations.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.deps.Limiter.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		// Reports are static HTML with inline styles and no scripts
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// writeJSON renders v as JSON with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
