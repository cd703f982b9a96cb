package response

import (
	"time"

	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/services/match"
)

// Rules is the rules snapshot in response bodies
type Rules struct {
	MaxSpend      int       `json:"max_spend"`
	BonusItem     string    `json:"bonus_item,omitempty"`
	Theme         string    `json:"theme,omitempty"`
	MatchDeadline time.Time `json:"match_deadline"`
	GiftDeadline  time.Time `json:"gift_deadline"`
}

// Event is the API representation of an event
type Event struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MatchState string    `json:"match_state"`
	Rules      Rules     `json:"rules"`
	CreatedAt  time.Time `json:"created_at"`
}

// Participant is the API representation of a participant. The secret hash is
// deliberately absent.
type Participant struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Registered bool      `json:"registered"`
	CreatedAt  time.Time `json:"created_at"`
}

// Reveal is the response to a successful reveal
type Reveal struct {
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	Rules          Rules  `json:"rules"`
}

// RulesFromModel converts a model rules snapshot
func RulesFromModel(r model.Rules) Rules {
	return Rules{
		MaxSpend:      r.MaxSpend,
		BonusItem:     r.BonusItem,
		Theme:         r.Theme,
		MatchDeadline: r.MatchDeadline,
		GiftDeadline:  r.GiftDeadline,
	}
}

// EventFromModel converts a model event
func EventFromModel(e *model.Event) Event {
	return Event{
		ID:         string(e.ID),
		Name:       e.Name,
		MatchState: string(e.MatchState),
		Rules:      RulesFromModel(e.Rules),
		CreatedAt:  e.CreatedAt,
	}
}

// ParticipantFromModel converts a model participant
func ParticipantFromModel(p *model.Participant) Participant {
	return Participant{
		ID:         string(p.ID),
		EventID:    string(p.EventID),
		Email:      p.Email,
		Name:       p.Name,
		Registered: p.Registered,
		CreatedAt:  p.CreatedAt,
	}
}

// ParticipantsFromModel converts a list of model participants
func ParticipantsFromModel(participants []*model.Participant) []Participant {
	out := make([]Participant, len(participants))
	for i, p := range participants {
		out[i] = ParticipantFromModel(p)
	}
	return out
}

// RevealFromResult converts a reveal result
func RevealFromResult(r *match.RevealResult) Reveal {
	return Reveal{
		RecipientName:  r.RecipientName,
		RecipientEmail: r.RecipientEmail,
		Rules:          RulesFromModel(r.Rules),
	}
}
