// Package server assembles the HTTP API: enrichment, catalogue records,
// evidence, related symbols, and the live event feed.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/symbolica-app/symbolica/internal/catalog"
	"github.com/symbolica-app/symbolica/internal/db"
	"github.com/symbolica-app/symbolica/internal/enrich"
	"github.com/symbolica-app/symbolica/internal/events"
	"github.com/symbolica-app/symbolica/internal/evidence"
	"github.com/symbolica-app/symbolica/internal/related"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Deps carries the feature dependencies wired into the router.
type Deps struct {
	DB       *db.DB
	Pipeline *enrich.Pipeline
	Catalog  *catalog.Store
	Evidence *evidence.Store
	Index    *related.Index
	Hub      *events.Hub
}

// Server is the symbolica API server.
type Server struct {
	cfg        Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

// New creates a new server with all dependencies.
func New(cfg Config, deps Deps) *Server {
	s := &Server{cfg: cfg, deps: deps}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if s.deps.Pipeline != nil {
		enrich.RegisterRoutes(r, s.deps.Pipeline)
	}
	if s.deps.Catalog != nil && s.deps.Pipeline != nil {
		catalog.RegisterRoutes(r, s.deps.Catalog, s.deps.Pipeline)
	}
	if s.deps.Evidence != nil {
		evidence.RegisterRoutes(r, s.deps.Evidence)
	}
	if s.deps.Catalog != nil && s.deps.Index != nil {
		related.RegisterRoutes(r, s.deps.Catalog, s.deps.Index)
	}
	if s.deps.Hub != nil {
		events.RegisterRoutes(r, s.deps.Hub)
	}

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.deps.DB }

// Start begins listening on the configured port. It blocks until the
// server stops and returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("symbolica server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
