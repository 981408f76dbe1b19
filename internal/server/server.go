// Package server wires the feature routes into one chi router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/sitenav/internal/db"
	"github.com/ziadkadry99/sitenav/internal/importer"
	"github.com/ziadkadry99/sitenav/internal/live"
	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/nav"
	"github.com/ziadkadry99/sitenav/internal/searchbox"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/site"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

// Config holds server configuration.
type Config struct {
	Addr        string
	CORSOrigins []string // nil allows localhost only
	SearchPage  string
	Timeout     time.Duration // per-request timeout for non-streaming routes
}

// Deps are the collaborators the routes are built from. DB and
// Converter may be nil; the import routes are then not mounted.
type Deps struct {
	DB        *db.DB
	Store     storage.Store
	Searcher  searchbox.Searcher
	Nav       nav.Source
	Converter *importer.Converter
	Imports   *importer.Store
}

// Server is the header service.
type Server struct {
	cfg        Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all routes mounted.
func New(cfg Config, deps Deps) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	s := &Server{cfg: cfg, deps: deps}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", session.HeaderTimezone, session.HeaderReferrer},
		ExposedHeaders:   []string{nav.HeaderFallback, importer.ImageSourceHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(s.cfg.CORSOrigins) > 0 {
		corsOpts.AllowedOrigins = s.cfg.CORSOrigins
	}
	r.Use(cors.Handler(corsOpts))
	r.Use(session.Middleware)
	r.Use(site.UTMMiddleware(s.deps.Store))

	// Websockets outlive the request timeout.
	r.Method(http.MethodGet, "/ws/searchbox", live.NewHandler(live.Deps{
		Searcher:   s.deps.Searcher,
		Store:      s.deps.Store,
		Nav:        s.deps.Nav,
		SearchPage: s.cfg.SearchPage,
	}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.Timeout))

		r.Get("/healthz", s.handleHealth)

		searchbox.RegisterRoutes(r, searchbox.Deps{
			Searcher:   s.deps.Searcher,
			Store:      s.deps.Store,
			SearchPage: s.cfg.SearchPage,
		})
		nav.RegisterRoutes(r, nav.Deps{
			Source:     s.deps.Nav,
			Store:      s.deps.Store,
			SearchPage: s.cfg.SearchPage,
		})
		if s.deps.Converter != nil {
			importer.RegisterRoutes(r, importer.Deps{
				Converter: s.deps.Converter,
				Store:     s.deps.Imports,
			})
		}
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.deps.DB != nil {
		if err := s.deps.DB.PingContext(r.Context()); err != nil {
			logging.FromContext(r.Context()).Error(err, "health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	logging.Get(0).Info("sitenav server listening", "addr", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
