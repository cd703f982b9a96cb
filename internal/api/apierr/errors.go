package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kringleapp/kringle/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes. Every error kind from the match flow maps to its own
// code; the boundary never collapses them into a generic failure.
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeEventNotFound        = "EVENT_NOT_FOUND"
	CodeParticipantNotFound  = "PARTICIPANT_NOT_FOUND"
	CodeDuplicateParticipant = "DUPLICATE_PARTICIPANT"
	CodeAlreadyRegistered    = "ALREADY_REGISTERED"
	CodeNotReady             = "NOT_READY"
	CodeTooFewParticipants   = "TOO_FEW_PARTICIPANTS"
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeDecryptionFailed     = "DECRYPTION_FAILED"
	CodeGenerationExhausted  = "GENERATION_EXHAUSTED"
	CodeAssignmentMissing    = "ASSIGNMENT_MISSING"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrEventNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEventNotFound, "Event not found"}}
	case errors.Is(err, model.ErrParticipantNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeParticipantNotFound, "Participant not found"}}
	case errors.Is(err, model.ErrDuplicateParticipant):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateParticipant, "Participant already exists for this event"}}
	case errors.Is(err, model.ErrAlreadyRegistered):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyRegistered, "Participant is already registered"}}
	case errors.Is(err, model.ErrNotReady):
		return &httpError{http.StatusConflict, APIError{CodeNotReady, "Not all participants are registered yet"}}
	case errors.Is(err, model.ErrTooFewParticipants):
		return &httpError{http.StatusConflict, APIError{CodeTooFewParticipants, "At least two participants are required"}}
	case errors.Is(err, model.ErrAuthenticationFailed):
		return &httpError{http.StatusUnauthorized, APIError{CodeAuthenticationFailed, "Secret does not match"}}
	case errors.Is(err, model.ErrDecryptionFailed):
		return &httpError{http.StatusInternalServerError, APIError{CodeDecryptionFailed, "Stored match could not be decrypted"}}
	case errors.Is(err, model.ErrGenerationExhausted):
		return &httpError{http.StatusInternalServerError, APIError{CodeGenerationExhausted, "Match generation failed"}}
	case errors.Is(err, model.ErrAssignmentMissing):
		return &httpError{http.StatusInternalServerError, APIError{CodeAssignmentMissing, "Assignment record is missing"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
