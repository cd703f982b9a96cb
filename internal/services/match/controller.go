package match

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kringleapp/kringle/internal/dependencies/clock"
	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/services/derange"
	"github.com/kringleapp/kringle/internal/services/directory"
	"github.com/kringleapp/kringle/internal/services/keyderive"
	"github.com/kringleapp/kringle/internal/services/matchcipher"
	"github.com/kringleapp/kringle/internal/services/notify"
	"github.com/kringleapp/kringle/internal/storage"
)

// RevealResult is returned to a giver who successfully revealed their match
type RevealResult struct {
	RecipientName  string
	RecipientEmail string
	Rules          model.Rules
}

// Controller orchestrates match generation and per-giver sealing.
//
// Generation is exactly-once: a per-event mutex serializes the whole
// check-flag / derange / insert-rows / set-flag sequence in-process, and the
// storage-level compare-and-set on the generation flag closes the window
// across processes. Sealing is per-row: the Unsealed -> Sealed transition is
// a conditional write in storage, and a reveal that loses the race re-reads
// the winner's ciphertext instead of erroring.
type Controller struct {
	storage   storage.Storage
	directory *directory.Service
	deranger  *derange.Service
	keys      *keyderive.Service
	cipher    *matchcipher.Service
	notifier  notify.Notifier
	clock     clock.Clock
	logger    *slog.Logger

	mu         sync.Mutex
	eventLocks map[model.EventID]*sync.Mutex
}

// NewController creates a new match controller
func NewController(
	storage storage.Storage,
	directory *directory.Service,
	deranger *derange.Service,
	keys *keyderive.Service,
	cipher *matchcipher.Service,
	notifier notify.Notifier,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:    storage,
		directory:  directory,
		deranger:   deranger,
		keys:       keys,
		cipher:     cipher,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
		eventLocks: make(map[model.EventID]*sync.Mutex),
	}
}

// OnAllRegistered is the generation trigger. It transitions the event from
// NotGenerated to Generated exactly once, creating one unsealed assignment
// row per participant. Calling it again, or concurrently, is a no-op once
// the transition has happened. It returns model.ErrNotReady if any
// participant is still unregistered.
func (c *Controller) OnAllRegistered(ctx context.Context, eventID model.EventID) error {
	lock := c.eventLock(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := c.storage.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Generated() {
		return nil
	}

	participants, err := c.storage.GetParticipantsForEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if len(participants) < 2 {
		return model.ErrTooFewParticipants
	}
	for _, p := range participants {
		if !p.Registered {
			return model.ErrNotReady
		}
	}

	givers := make([]model.ParticipantID, len(participants))
	for i, p := range participants {
		givers[i] = p.ID
	}

	recipients, err := c.deranger.Generate(givers)
	if err != nil {
		return err
	}

	now := c.clock.Now()
	assignments := make([]*model.Assignment, len(givers))
	for i := range givers {
		assignments[i] = &model.Assignment{
			EventID:     eventID,
			GiverID:     givers[i],
			RecipientID: recipients[i],
			CreatedAt:   now,
		}
	}

	if err := c.storage.CreateAssignments(ctx, assignments); err != nil {
		return err
	}

	transitioned, err := c.storage.MarkEventGenerated(ctx, eventID)
	if err != nil {
		return err
	}
	if !transitioned {
		// Another process won the flag race; its rows are authoritative
		return nil
	}

	c.logger.Info("matches generated",
		slog.String("event_id", string(eventID)),
		slog.Int("assignments", len(assignments)),
	)

	event.MatchState = model.MatchStateGenerated
	go c.notifier.MatchesGenerated(context.WithoutCancel(ctx), event, len(assignments))

	return nil
}

// Reveal authenticates the giver's secret, seals their assignment if this is
// the first successful reveal, and returns the decrypted recipient identity
// with the event's rules snapshot.
func (c *Controller) Reveal(ctx context.Context, eventID model.EventID, giverID model.ParticipantID, secret string) (*RevealResult, error) {
	if err := c.directory.VerifySecret(ctx, eventID, giverID, secret); err != nil {
		return nil, err
	}

	event, err := c.storage.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !event.Generated() {
		ready, err := c.directory.AllRegistered(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if !ready {
			return nil, model.ErrNotReady
		}
		// Registered but not generated: the registration trigger was missed
		// or raced; generation is idempotent, so run it here.
		if err := c.OnAllRegistered(ctx, eventID); err != nil {
			return nil, err
		}
	}

	giver, err := c.storage.GetParticipant(ctx, eventID, giverID)
	if err != nil {
		return nil, err
	}

	key := c.keys.DeriveKey(secret, giver.Email)

	assignment, err := c.storage.GetAssignment(ctx, eventID, giverID)
	if err != nil {
		if errors.Is(err, model.ErrAssignmentNotFound) {
			return nil, model.ErrAssignmentMissing
		}
		return nil, err
	}

	if !assignment.Sealed() {
		sealed, err := c.sealAssignment(ctx, assignment, key)
		if err != nil {
			return nil, err
		}
		assignment = sealed
	}

	payload, err := c.cipher.Open(*assignment.Seal, key)
	if err != nil {
		return nil, err
	}

	return &RevealResult{
		RecipientName:  payload.RecipientName,
		RecipientEmail: payload.RecipientEmail,
		Rules:          event.Rules,
	}, nil
}

// sealAssignment performs the one-time Unsealed -> Sealed transition. The
// recipient identity is captured at seal time; later profile changes do not
// update the ciphertext. Losing the seal race is not an error: the winner's
// row is re-read and returned.
func (c *Controller) sealAssignment(ctx context.Context, assignment *model.Assignment, key []byte) (*model.Assignment, error) {
	recipient, err := c.storage.GetParticipant(ctx, assignment.EventID, assignment.RecipientID)
	if err != nil {
		return nil, err
	}

	seal, err := c.cipher.Seal(matchcipher.Payload{
		RecipientID:    recipient.ID,
		RecipientName:  recipient.Name,
		RecipientEmail: recipient.Email,
	}, key)
	if err != nil {
		return nil, err
	}

	sealedAt := c.clock.Now()
	won, err := c.storage.SealAssignment(ctx, assignment.EventID, assignment.GiverID, seal, sealedAt)
	if err != nil {
		return nil, err
	}

	if !won {
		return c.storage.GetAssignment(ctx, assignment.EventID, assignment.GiverID)
	}

	c.logger.Info("assignment sealed",
		slog.String("event_id", string(assignment.EventID)),
		slog.String("giver_id", string(assignment.GiverID)),
	)

	assignment.Seal = &seal
	assignment.SealedAt = sealedAt
	return assignment, nil
}

// eventLock returns the mutex serializing generation for one event. Locks
// are never evicted; an entry per event is negligible.
func (c *Controller) eventLock(eventID model.EventID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.eventLocks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		c.eventLocks[eventID] = lock
	}
	return lock
}

// Interface for dependency injection
type ControllerInterface interface {
	OnAllRegistered(ctx context.Context, eventID model.EventID) error
	Reveal(ctx context.Context, eventID model.EventID, giverID model.ParticipantID, secret string) (*RevealResult, error)
}

var _ ControllerInterface = (*Controller)(nil)
