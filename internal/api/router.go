package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kringleapp/kringle/internal/api/handler"
	"github.com/kringleapp/kringle/internal/api/middleware"
	"github.com/kringleapp/kringle/internal/services/directory"
	"github.com/kringleapp/kringle/internal/services/event"
	"github.com/kringleapp/kringle/internal/services/match"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	EventService    *event.Service
	Directory       *directory.Service
	MatchController match.ControllerInterface
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	eventHandler := handler.NewEventHandler(cfg.EventService)
	participantHandler := handler.NewParticipantHandler(cfg.Directory, cfg.MatchController, cfg.Logger)
	revealHandler := handler.NewRevealHandler(cfg.MatchController)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Event routes
	api.HandleFunc("/events", eventHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}", eventHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", eventHandler.Delete).Methods(http.MethodDelete)

	// Participant routes
	api.HandleFunc("/events/{id}/participants", participantHandler.Invite).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}/participants", participantHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}/participants/{pid}/register", participantHandler.Register).Methods(http.MethodPost)

	// Reveal route
	api.HandleFunc("/events/{id}/participants/{pid}/reveal", revealHandler.Reveal).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
