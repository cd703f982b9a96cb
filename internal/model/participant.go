package model

import "time"

// ParticipantID uniquely identifies a participant within an event
type ParticipantID string

// Participant is one member of a gift exchange. A participant is invited
// first (Registered false, no secret) and becomes registered once they choose
// their secret. The secret itself is never stored, only its bcrypt hash.
type Participant struct {
	ID         ParticipantID
	EventID    EventID
	Email      string
	Name       string
	Registered bool
	SecretHash string
	CreatedAt  time.Time
}
