package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayuni-ai/ayuni/internal/avatar"
	"github.com/ayuni-ai/ayuni/internal/engine"
	"github.com/ayuni-ai/ayuni/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the ayuni HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	avatars *avatar.Client
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server. The avatar client may be nil, in which case the
// avatar endpoint reports the collaborator as unconfigured.
func New(db *store.DB, eng *engine.Engine, avatars *avatar.Client, version string) *Server {
	s := &Server{
		db:      db,
		engine:  eng,
		avatars: avatars,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/register", s.handleRegister)
		r.Post("/aeis", s.handleCreateAEI)
		r.Post("/aeis/{aeiID}/avatar", s.handleGenerateAvatar)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/decay/run", s.handleDecayRun)
			r.Post("/decay/schedule", s.handleDecaySchedule)
			r.Get("/decay/stats", s.handleDecayStats)
			r.Get("/decay/most-affected", s.handleMostAffected)

			r.Post("/social/run", s.handleSocialRun)
			r.Post("/social/aeis/{aeiID}", s.handleSocialSingle)
			r.Post("/social/aeis/{aeiID}/init", s.handleSocialInit)
			r.Post("/social/cleanup", s.handleSocialCleanup)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError sends a terse JSON error message. Internal details stay in the
// server log, never in the response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
