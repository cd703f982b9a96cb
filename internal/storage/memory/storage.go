package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// All conditional transitions are serialized by the single mutex, so the
// compare-and-set semantics of MarkEventGenerated and SealAssignment hold
// under concurrent requests.
type Storage struct {
	mu sync.RWMutex

	events           map[model.EventID]*model.Event
	participants     map[participantKey]*model.Participant
	participantOrder map[model.EventID][]model.ParticipantID
	assignments      map[assignmentKey]*model.Assignment
}

type participantKey struct {
	eventID model.EventID
	id      model.ParticipantID
}

type assignmentKey struct {
	eventID model.EventID
	giverID model.ParticipantID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		events:           make(map[model.EventID]*model.Event),
		participants:     make(map[participantKey]*model.Participant),
		participantOrder: make(map[model.EventID][]model.ParticipantID),
		assignments:      make(map[assignmentKey]*model.Assignment),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Event operations

func (s *Storage) SaveEvent(ctx context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *event
	s.events[event.ID] = &copied
	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[id]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id model.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
	for key := range s.participants {
		if key.eventID == id {
			delete(s.participants, key)
		}
	}
	delete(s.participantOrder, id)
	for key := range s.assignments {
		if key.eventID == id {
			delete(s.assignments, key)
		}
	}
	return nil
}

func (s *Storage) MarkEventGenerated(ctx context.Context, id model.EventID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return false, model.ErrEventNotFound
	}
	if event.Generated() {
		return false, nil
	}
	event.MatchState = model.MatchStateGenerated
	return true, nil
}

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, p *model.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := participantKey{eventID: p.EventID, id: p.ID}
	if _, exists := s.participants[key]; !exists {
		s.participantOrder[p.EventID] = append(s.participantOrder[p.EventID], p.ID)
	}
	copied := *p
	s.participants[key] = &copied
	return nil
}

func (s *Storage) GetParticipant(ctx context.Context, eventID model.EventID, id model.ParticipantID) (*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[participantKey{eventID: eventID, id: id}]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *Storage) GetParticipantsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.participantOrder[eventID]
	participants := make([]*model.Participant, 0, len(order))
	for _, id := range order {
		if p, ok := s.participants[participantKey{eventID: eventID, id: id}]; ok {
			copied := *p
			participants = append(participants, &copied)
		}
	}
	return participants, nil
}

// Assignment operations

func (s *Storage) CreateAssignments(ctx context.Context, assignments []*model.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range assignments {
		copied := *a
		s.assignments[assignmentKey{eventID: a.EventID, giverID: a.GiverID}] = &copied
	}
	return nil
}

func (s *Storage) GetAssignment(ctx context.Context, eventID model.EventID, giverID model.ParticipantID) (*model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[assignmentKey{eventID: eventID, giverID: giverID}]
	if !ok {
		return nil, model.ErrAssignmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *Storage) GetAssignmentsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var assignments []*model.Assignment
	for key, a := range s.assignments {
		if key.eventID == eventID {
			copied := *a
			assignments = append(assignments, &copied)
		}
	}
	return assignments, nil
}

func (s *Storage) SealAssignment(ctx context.Context, eventID model.EventID, giverID model.ParticipantID, seal model.Seal, sealedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[assignmentKey{eventID: eventID, giverID: giverID}]
	if !ok {
		return false, model.ErrAssignmentNotFound
	}
	if a.Sealed() {
		return false, nil
	}
	a.Seal = &seal
	a.SealedAt = sealedAt
	return true, nil
}

func (s *Storage) DeleteAssignmentsForEvent(ctx context.Context, eventID model.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.assignments {
		if key.eventID == eventID {
			delete(s.assignments, key)
		}
	}
	return nil
}
