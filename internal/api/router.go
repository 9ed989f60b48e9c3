// Package api provides the REST API for plantrack.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/darraghh1/plantrack/internal/config"
	"github.com/darraghh1/plantrack/internal/events"
	"github.com/darraghh1/plantrack/internal/tracker"
)

// Server represents the API server.
type Server struct {
	cfg     *config.Config
	router  chi.Router
	tracker *tracker.Tracker
	hub     *events.Hub
}

// NewServer creates a new API server. The hub may be nil; the event
// routes then serve empty streams.
func NewServer(cfg *config.Config, t *tracker.Tracker, hub *events.Hub) *Server {
	s := &Server{
		cfg:     cfg,
		tracker: t,
		hub:     hub,
	}

	s.setupRouter()
	return s
}

// setupRouter configures all routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)

		r.Get("/progress", s.handleProgress)
		r.Post("/refresh", s.handleRefresh)
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.handleListPlans)
			r.Get("/{id}", s.handleGetPlan)
		})
		r.Get("/events/history", s.handleEventHistory)
	})

	// The event stream stays open indefinitely, so no timeout here.
	r.Get("/events", s.handleEvents)

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
