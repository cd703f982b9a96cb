package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kringleapp/kringle/internal/api/request"
	"github.com/kringleapp/kringle/internal/api/response"
	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/services/event"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventService *event.Service
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *event.Service) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	created, err := h.eventService.Create(r.Context(), req.Name, model.Rules{
		MaxSpend:      req.Rules.MaxSpend,
		BonusItem:     req.Rules.BonusItem,
		Theme:         req.Rules.Theme,
		MatchDeadline: req.Rules.MatchDeadline,
		GiftDeadline:  req.Rules.GiftDeadline,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.EventFromModel(created))
}

// Get handles GET /api/v1/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["id"])

	found, err := h.eventService.Get(r.Context(), eventID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EventFromModel(found))
}

// Delete handles DELETE /api/v1/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["id"])

	if err := h.eventService.Delete(r.Context(), eventID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
