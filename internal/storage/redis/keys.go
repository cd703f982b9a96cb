package redis

import (
	"fmt"

	"github.com/kringleapp/kringle/internal/model"
)

// Key prefix for all exchange data
const keyPrefix = "kringle"

// eventKey returns the Redis key for an Event
func eventKey(id model.EventID) string {
	return fmt.Sprintf("%s:event:%s", keyPrefix, id)
}

// participantKey returns the Redis key for a Participant
func participantKey(eventID model.EventID, id model.ParticipantID) string {
	return fmt.Sprintf("%s:participant:%s:%s", keyPrefix, eventID, id)
}

// participantOrderKey returns the Redis key for the LIST holding an event's
// participants in insertion order
func participantOrderKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:idx:participant_order:%s", keyPrefix, eventID)
}

// assignmentKey returns the Redis key for an Assignment
func assignmentKey(eventID model.EventID, giverID model.ParticipantID) string {
	return fmt.Sprintf("%s:assignment:%s:%s", keyPrefix, eventID, giverID)
}

// assignmentsForEventIndexKey returns the Redis key for the SET of assignment
// keys for an event
func assignmentsForEventIndexKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:idx:assignments_for_event:%s", keyPrefix, eventID)
}
