package derange

import (
	"log/slog"

	"github.com/kringleapp/kringle/internal/dependencies/random"
	"github.com/kringleapp/kringle/internal/model"
)

// DefaultMaxAttempts bounds the rejection-sampling loop. The expected number
// of attempts is e (~2.72) regardless of n, so hitting this bound means the
// randomness source is broken rather than bad luck.
const DefaultMaxAttempts = 100

// Service generates fixed-point-free permutations (derangements) over a
// participant list by uniformly shuffling and rejecting any shuffle that
// leaves a participant matched to themselves.
type Service struct {
	random      random.Random
	logger      *slog.Logger
	maxAttempts int
}

// New creates a new derangement generator
func New(rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		random:      rnd,
		logger:      logger,
		maxAttempts: DefaultMaxAttempts,
	}
}

// Generate returns a permutation of ids such that the result is a bijection
// on the input set and result[i] != ids[i] for all i: result[i] is the
// recipient assigned to giver ids[i].
func (s *Service) Generate(ids []model.ParticipantID) ([]model.ParticipantID, error) {
	if len(ids) < 2 {
		return nil, model.ErrTooFewParticipants
	}

	seen := make(map[model.ParticipantID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, model.ErrDuplicateParticipant
		}
		seen[id] = struct{}{}
	}

	recipients := make([]model.ParticipantID, len(ids))
	copy(recipients, ids)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.shuffle(recipients)
		if isDerangement(ids, recipients) {
			s.logger.Debug("derangement generated",
				slog.Int("participants", len(ids)),
				slog.Int("attempts", attempt),
			)
			return recipients, nil
		}
	}

	s.logger.Error("derangement generation exhausted",
		slog.Int("participants", len(ids)),
		slog.Int("max_attempts", s.maxAttempts),
	)
	return nil, model.ErrGenerationExhausted
}

// shuffle performs an in-place Fisher-Yates shuffle
func (s *Service) shuffle(ids []model.ParticipantID) {
	for i := len(ids) - 1; i > 0; i-- {
		j := s.random.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

// isDerangement reports whether no giver is matched to themselves
func isDerangement(givers, recipients []model.ParticipantID) bool {
	for i := range givers {
		if givers[i] == recipients[i] {
			return false
		}
	}
	return true
}
