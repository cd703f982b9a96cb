package storage

import (
	"context"
	"time"

	"github.com/kringleapp/kringle/internal/model"
)

// Storage defines the interface for data persistence.
//
// MarkEventGenerated and SealAssignment are conditional, atomic
// read-modify-writes: they return false (with no error) when the transition
// has already happened, so callers can distinguish losing a race from
// failure. Everything the match coordinator relies on for exactly-once
// generation and idempotent sealing lives behind these two methods.
type Storage interface {
	// Event operations
	SaveEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id model.EventID) (*model.Event, error)
	// DeleteEvent removes the event and cascades to its participants and
	// assignments.
	DeleteEvent(ctx context.Context, id model.EventID) error
	// MarkEventGenerated atomically transitions the event's match state from
	// NotGenerated to Generated. Returns false if it was already Generated.
	MarkEventGenerated(ctx context.Context, id model.EventID) (bool, error)

	// Participant operations
	SaveParticipant(ctx context.Context, p *model.Participant) error
	GetParticipant(ctx context.Context, eventID model.EventID, id model.ParticipantID) (*model.Participant, error)
	// GetParticipantsForEvent returns participants in insertion order; the
	// derangement is defined over this ordering.
	GetParticipantsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Participant, error)

	// Assignment operations
	CreateAssignments(ctx context.Context, assignments []*model.Assignment) error
	GetAssignment(ctx context.Context, eventID model.EventID, giverID model.ParticipantID) (*model.Assignment, error)
	GetAssignmentsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Assignment, error)
	// SealAssignment atomically transitions the row from Unsealed to Sealed.
	// Returns false if the row was already sealed; the caller should re-read
	// the winner's result.
	SealAssignment(ctx context.Context, eventID model.EventID, giverID model.ParticipantID, seal model.Seal, sealedAt time.Time) (bool, error)
	DeleteAssignmentsForEvent(ctx context.Context, eventID model.EventID) error
}
