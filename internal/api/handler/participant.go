package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kringleapp/kringle/internal/api/request"
	"github.com/kringleapp/kringle/internal/api/response"
	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/services/directory"
	"github.com/kringleapp/kringle/internal/services/match"
)

// ParticipantHandler handles participant endpoints
type ParticipantHandler struct {
	directory       *directory.Service
	matchController match.ControllerInterface
	logger          *slog.Logger
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(directory *directory.Service, matchController match.ControllerInterface, logger *slog.Logger) *ParticipantHandler {
	return &ParticipantHandler{
		directory:       directory,
		matchController: matchController,
		logger:          logger,
	}
}

// Invite handles POST /api/v1/events/{id}/participants
func (h *ParticipantHandler) Invite(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["id"])

	var req request.InviteParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Email == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	participant, err := h.directory.Invite(r.Context(), eventID, req.Email, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ParticipantFromModel(participant))
}

// List handles GET /api/v1/events/{id}/participants
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["id"])

	participants, err := h.directory.List(r.Context(), eventID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ParticipantsFromModel(participants))
}

// Register handles POST /api/v1/events/{id}/participants/{pid}/register
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventID := model.EventID(vars["id"])
	participantID := model.ParticipantID(vars["pid"])

	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Secret == "" {
		WriteError(w, NewInvalidRequestError("secret is required"))
		return
	}

	if err := h.directory.Register(r.Context(), eventID, participantID, req.Secret); err != nil {
		WriteError(w, err)
		return
	}

	// Registration is the generation trigger. Not-ready just means more
	// participants are still outstanding; anything else is logged but must
	// not fail the registration that already succeeded.
	if err := h.matchController.OnAllRegistered(r.Context(), eventID); err != nil {
		if !errors.Is(err, model.ErrNotReady) && !errors.Is(err, model.ErrTooFewParticipants) {
			h.logger.Error("generation trigger failed",
				slog.String("event_id", string(eventID)),
				slog.String("error", err.Error()),
			)
		}
	}

	response.NoContent(w)
}
