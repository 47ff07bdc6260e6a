package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/mapty/internal/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	app    *tracker.App
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(app *tracker.App, log *slog.Logger) *Server {
	s := &Server{
		app:    app,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1/workouts", func(r chi.Router) {
		r.Get("/", s.handleListWorkouts)
		r.Post("/", s.handleCreateWorkout)
		r.Delete("/", s.handleReset)
		r.Get("/{id}", s.handleGetWorkout)
		r.Delete("/{id}", s.handleDeleteWorkout)
		r.Post("/{id}/select", s.handleSelectWorkout)
		r.Post("/{id}/click", s.handleClickWorkout)
	})

	s.router.Get("/api/v1/list", s.handleList)
	s.router.Get("/api/v1/map", s.handleMap)
	s.router.Get("/api/v1/notice", s.handleNotice)
	s.router.Delete("/api/v1/notice", s.handleDismissNotice)

	s.router.Handle("/metrics", promhttp.Handler())
}

// Mount attaches an extra handler, such as the MCP endpoint, under pattern.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}
