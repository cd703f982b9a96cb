package directory

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/kringleapp/kringle/internal/dependencies/clock"
	"github.com/kringleapp/kringle/internal/dependencies/random"
	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/storage"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Service is the participant directory. It owns participant identity and the
// one-way secret hash; the plaintext secret is only ever held transiently
// inside Register and VerifySecret.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new directory service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Invite adds an unregistered participant to an event
func (s *Service) Invite(ctx context.Context, eventID model.EventID, email, name string) (*model.Participant, error) {
	if _, err := s.storage.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	existing, err := s.storage.GetParticipantsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if p.Email == email {
			return nil, model.ErrDuplicateParticipant
		}
	}

	participant := &model.Participant{
		ID:        model.ParticipantID("p_" + s.random.String(12, idAlphabet)),
		EventID:   eventID,
		Email:     email,
		Name:      name,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveParticipant(ctx, participant); err != nil {
		return nil, err
	}

	s.logger.Info("participant invited",
		slog.String("event_id", string(eventID)),
		slog.String("participant_id", string(participant.ID)),
	)

	return participant, nil
}

// Get retrieves a participant
func (s *Service) Get(ctx context.Context, eventID model.EventID, id model.ParticipantID) (*model.Participant, error) {
	return s.storage.GetParticipant(ctx, eventID, id)
}

// List returns an event's participants in insertion order
func (s *Service) List(ctx context.Context, eventID model.EventID) ([]*model.Participant, error) {
	if _, err := s.storage.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.storage.GetParticipantsForEvent(ctx, eventID)
}

// Register marks a participant as registered and stores the bcrypt hash of
// their chosen secret. Registering twice is rejected so a secret cannot be
// silently replaced after sealing.
func (s *Service) Register(ctx context.Context, eventID model.EventID, id model.ParticipantID, secret string) error {
	participant, err := s.storage.GetParticipant(ctx, eventID, id)
	if err != nil {
		return err
	}

	if participant.Registered {
		return model.ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	participant.Registered = true
	participant.SecretHash = string(hash)

	if err := s.storage.SaveParticipant(ctx, participant); err != nil {
		return err
	}

	s.logger.Info("participant registered",
		slog.String("event_id", string(eventID)),
		slog.String("participant_id", string(id)),
	)

	return nil
}

// VerifySecret checks the supplied secret against the participant's stored
// hash. It returns model.ErrAuthenticationFailed on mismatch or when the
// participant has not registered yet.
func (s *Service) VerifySecret(ctx context.Context, eventID model.EventID, id model.ParticipantID, secret string) error {
	participant, err := s.storage.GetParticipant(ctx, eventID, id)
	if err != nil {
		return err
	}

	if !participant.Registered || participant.SecretHash == "" {
		return model.ErrAuthenticationFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(participant.SecretHash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return model.ErrAuthenticationFailed
		}
		return err
	}

	return nil
}

// AllRegistered reports whether the event has at least two participants and
// every one of them is registered
func (s *Service) AllRegistered(ctx context.Context, eventID model.EventID) (bool, error) {
	participants, err := s.storage.GetParticipantsForEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	if len(participants) < 2 {
		return false, nil
	}
	for _, p := range participants {
		if !p.Registered {
			return false, nil
		}
	}
	return true, nil
}
