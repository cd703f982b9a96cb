package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kringleapp/kringle/internal/api/request"
	"github.com/kringleapp/kringle/internal/api/response"
	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/services/match"
)

// RevealHandler handles the reveal endpoint
type RevealHandler struct {
	matchController match.ControllerInterface
}

// NewRevealHandler creates a new reveal handler
func NewRevealHandler(matchController match.ControllerInterface) *RevealHandler {
	return &RevealHandler{matchController: matchController}
}

// Reveal handles POST /api/v1/events/{id}/participants/{pid}/reveal
func (h *RevealHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventID := model.EventID(vars["id"])
	giverID := model.ParticipantID(vars["pid"])

	var req request.RevealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Secret == "" {
		WriteError(w, NewInvalidRequestError("secret is required"))
		return
	}

	result, err := h.matchController.Reveal(r.Context(), eventID, giverID, req.Secret)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RevealFromResult(result))
}
