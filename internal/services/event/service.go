package event

import (
	"context"
	"log/slog"

	"github.com/kringleapp/kringle/internal/dependencies/clock"
	"github.com/kringleapp/kringle/internal/dependencies/random"
	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/storage"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Service owns event lifecycle and the rules snapshot. The generation flag
// on the event is transitioned only by the match controller, never here.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new event service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Create creates a new event with the given rules snapshot
func (s *Service) Create(ctx context.Context, name string, rules model.Rules) (*model.Event, error) {
	now := s.clock.Now()
	event := &model.Event{
		ID:         model.EventID("evt_" + s.random.String(12, idAlphabet)),
		Name:       name,
		MatchState: model.MatchStateNotGenerated,
		Rules:      rules,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.storage.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("event created", slog.String("event_id", string(event.ID)))

	return event, nil
}

// Get retrieves an event by ID
func (s *Service) Get(ctx context.Context, id model.EventID) (*model.Event, error) {
	return s.storage.GetEvent(ctx, id)
}

// Delete removes an event; participants and assignments cascade
func (s *Service) Delete(ctx context.Context, id model.EventID) error {
	if _, err := s.storage.GetEvent(ctx, id); err != nil {
		return err
	}

	if err := s.storage.DeleteEvent(ctx, id); err != nil {
		return err
	}

	s.logger.Info("event deleted", slog.String("event_id", string(id)))
	return nil
}
