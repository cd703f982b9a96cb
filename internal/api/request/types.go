package request

import "time"

// CreateEventRequest is the request body for creating an event
type CreateEventRequest struct {
	Name  string `json:"name"`
	Rules Rules  `json:"rules"`
}

// Rules is the rules snapshot in request bodies
type Rules struct {
	MaxSpend      int       `json:"max_spend"`
	BonusItem     string    `json:"bonus_item,omitempty"`
	Theme         string    `json:"theme,omitempty"`
	MatchDeadline time.Time `json:"match_deadline"`
	GiftDeadline  time.Time `json:"gift_deadline"`
}

// InviteParticipantRequest is the request body for adding a participant
type InviteParticipantRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegisterRequest is the request body for registering a participant
type RegisterRequest struct {
	Secret string `json:"secret"`
}

// RevealRequest is the request body for revealing a match
type RevealRequest struct {
	Secret string `json:"secret"`
}
