package model

import "time"

// EventID uniquely identifies a gift exchange event
type EventID string

// MatchState tracks whether matches have been generated for an event.
// The transition NotGenerated -> Generated is one-way and happens exactly once.
type MatchState string

const (
	MatchStateNotGenerated MatchState = "not_generated"
	MatchStateGenerated    MatchState = "generated"
)

// Rules is the snapshot of exchange rules returned verbatim alongside a
// revealed match. The core never interprets these values.
type Rules struct {
	MaxSpend      int
	BonusItem     string
	Theme         string
	MatchDeadline time.Time
	GiftDeadline  time.Time
}

// Event represents one gift exchange
type Event struct {
	ID         EventID
	Name       string
	MatchState MatchState
	Rules      Rules
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Generated reports whether matches have been generated for this event
func (e *Event) Generated() bool {
	return e.MatchState == MatchStateGenerated
}
