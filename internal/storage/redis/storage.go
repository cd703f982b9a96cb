package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/storage"
)

// casRetries bounds optimistic-lock retries on WATCH conflicts
const casRetries = 5

var errCASContention = errors.New("redis: optimistic lock retries exhausted")

// Storage is a Redis-backed implementation of the storage interface.
// The two conditional transitions (generation flag, assignment seal) use
// WATCH/MULTI/EXEC optimistic transactions so they stay atomic across
// concurrent clients.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Event operations

func (s *Storage) SaveEvent(ctx context.Context, event *model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, eventKey(event.ID), data, 0).Err()
}

func (s *Storage) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	data, err := s.client.Get(ctx, eventKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEventNotFound
		}
		return nil, err
	}

	var event model.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id model.EventID) error {
	// Collect participant and assignment keys from the indexes first
	participantIDs, err := s.client.LRange(ctx, participantOrderKey(id), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	assignmentKeys, err := s.client.SMembers(ctx, assignmentsForEventIndexKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.client.Pipeline()
	for _, pid := range participantIDs {
		pipe.Del(ctx, participantKey(id, model.ParticipantID(pid)))
	}
	for _, key := range assignmentKeys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, participantOrderKey(id))
	pipe.Del(ctx, assignmentsForEventIndexKey(id))
	pipe.Del(ctx, eventKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) MarkEventGenerated(ctx context.Context, id model.EventID) (bool, error) {
	key := eventKey(id)
	var transitioned bool

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrEventNotFound
			}
			return err
		}

		var event model.Event
		if err := json.Unmarshal(data, &event); err != nil {
			return err
		}

		if event.Generated() {
			transitioned = false
			return nil
		}

		event.MatchState = model.MatchStateGenerated
		updated, err := json.Marshal(&event)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		if err != nil {
			return err
		}
		transitioned = true
		return nil
	}

	for i := 0; i < casRetries; i++ {
		transitioned = false
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return transitioned, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return false, err
	}
	return false, errCASContention
}

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, p *model.Participant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	key := participantKey(p.EventID, p.ID)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	if exists == 0 {
		// First save: append to the ordered index
		pipe.RPush(ctx, participantOrderKey(p.EventID), string(p.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetParticipant(ctx context.Context, eventID model.EventID, id model.ParticipantID) (*model.Participant, error) {
	data, err := s.client.Get(ctx, participantKey(eventID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrParticipantNotFound
		}
		return nil, err
	}

	var p model.Participant
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) GetParticipantsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Participant, error) {
	ids, err := s.client.LRange(ctx, participantOrderKey(eventID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Participant{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = participantKey(eventID, model.ParticipantID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	participants := make([]*model.Participant, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var p model.Participant
		if err := json.Unmarshal([]byte(val.(string)), &p); err != nil {
			continue // Skip invalid data
		}
		participants = append(participants, &p)
	}

	return participants, nil
}

// Assignment operations

func (s *Storage) CreateAssignments(ctx context.Context, assignments []*model.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, a := range assignments {
		data, err := json.Marshal(a)
		if err != nil {
			return err
		}
		key := assignmentKey(a.EventID, a.GiverID)
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, assignmentsForEventIndexKey(a.EventID), key)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAssignment(ctx context.Context, eventID model.EventID, giverID model.ParticipantID) (*model.Assignment, error) {
	data, err := s.client.Get(ctx, assignmentKey(eventID, giverID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAssignmentNotFound
		}
		return nil, err
	}

	var a model.Assignment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Storage) GetAssignmentsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Assignment, error) {
	keys, err := s.client.SMembers(ctx, assignmentsForEventIndexKey(eventID)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Assignment{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	assignments := make([]*model.Assignment, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var a model.Assignment
		if err := json.Unmarshal([]byte(val.(string)), &a); err != nil {
			continue // Skip invalid data
		}
		assignments = append(assignments, &a)
	}

	return assignments, nil
}

func (s *Storage) SealAssignment(ctx context.Context, eventID model.EventID, giverID model.ParticipantID, seal model.Seal, sealedAt time.Time) (bool, error) {
	key := assignmentKey(eventID, giverID)
	var transitioned bool

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrAssignmentNotFound
			}
			return err
		}

		var a model.Assignment
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}

		if a.Sealed() {
			transitioned = false
			return nil
		}

		a.Seal = &seal
		a.SealedAt = sealedAt
		updated, err := json.Marshal(&a)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		if err != nil {
			return err
		}
		transitioned = true
		return nil
	}

	for i := 0; i < casRetries; i++ {
		transitioned = false
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return transitioned, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return false, err
	}
	return false, errCASContention
}

func (s *Storage) DeleteAssignmentsForEvent(ctx context.Context, eventID model.EventID) error {
	indexKey := assignmentsForEventIndexKey(eventID)

	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}
