package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kringleapp/kringle/internal/dependencies/mocks"
	"github.com/kringleapp/kringle/internal/model"
	"github.com/kringleapp/kringle/internal/storage/memory"
	"github.com/kringleapp/kringle/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
	eventID model.EventID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
	s.eventID = "evt_test"

	err := s.storage.SaveEvent(s.ctx, &model.Event{
		ID:         s.eventID,
		Name:       "Office Exchange",
		MatchState: model.MatchStateNotGenerated,
	})
	s.Require().NoError(err)
}

// Invite tests

func (s *ServiceSuite) TestInviteSucceeds() {
	s.random.QueueString("abc123def456")

	p, err := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")
	s.Require().NoError(err)

	s.Equal(model.ParticipantID("p_abc123def456"), p.ID)
	s.Equal(s.eventID, p.EventID)
	s.Equal("alice@example.com", p.Email)
	s.Equal("Alice", p.Name)
	s.False(p.Registered)
	s.Equal(s.clock.CurrentTime, p.CreatedAt)
}

func (s *ServiceSuite) TestInviteFailsForUnknownEvent() {
	_, err := s.service.Invite(s.ctx, "evt_missing", "alice@example.com", "Alice")
	s.ErrorIs(err, model.ErrEventNotFound)
}

func (s *ServiceSuite) TestInviteRejectsDuplicateEmail() {
	s.random.QueueString("abc123def456", "xyz789abc123")

	_, err := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice Again")
	s.ErrorIs(err, model.ErrDuplicateParticipant)
}

func (s *ServiceSuite) TestListPreservesInvitationOrder() {
	s.random.QueueString("id1", "id2", "id3")

	_, _ = s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")
	_, _ = s.service.Invite(s.ctx, s.eventID, "bob@example.com", "Bob")
	_, _ = s.service.Invite(s.ctx, s.eventID, "carol@example.com", "Carol")

	participants, err := s.service.List(s.ctx, s.eventID)
	s.Require().NoError(err)
	s.Require().Len(participants, 3)
	s.Equal("alice@example.com", participants[0].Email)
	s.Equal("bob@example.com", participants[1].Email)
	s.Equal("carol@example.com", participants[2].Email)
}

func (s *ServiceSuite) TestListFailsForUnknownEvent() {
	_, err := s.service.List(s.ctx, "evt_missing")
	s.ErrorIs(err, model.ErrEventNotFound)
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	s.random.QueueString("abc123def456")
	p, _ := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")

	err := s.service.Register(s.ctx, s.eventID, p.ID, "hunter2")
	s.Require().NoError(err)

	updated, err := s.service.Get(s.ctx, s.eventID, p.ID)
	s.Require().NoError(err)
	s.True(updated.Registered)
	s.NotEmpty(updated.SecretHash)
	s.NotContains(updated.SecretHash, "hunter2")
}

func (s *ServiceSuite) TestRegisterFailsForUnknownParticipant() {
	err := s.service.Register(s.ctx, s.eventID, "p_missing", "hunter2")
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *ServiceSuite) TestRegisterTwiceFails() {
	s.random.QueueString("abc123def456")
	p, _ := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")

	err := s.service.Register(s.ctx, s.eventID, p.ID, "hunter2")
	s.Require().NoError(err)

	err = s.service.Register(s.ctx, s.eventID, p.ID, "different-secret")
	s.ErrorIs(err, model.ErrAlreadyRegistered)
}

// VerifySecret tests

func (s *ServiceSuite) TestVerifySecretSucceeds() {
	s.random.QueueString("abc123def456")
	p, _ := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")
	_ = s.service.Register(s.ctx, s.eventID, p.ID, "hunter2")

	err := s.service.VerifySecret(s.ctx, s.eventID, p.ID, "hunter2")
	s.NoError(err)
}

func (s *ServiceSuite) TestVerifySecretFailsWithWrongSecret() {
	s.random.QueueString("abc123def456")
	p, _ := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")
	_ = s.service.Register(s.ctx, s.eventID, p.ID, "hunter2")

	err := s.service.VerifySecret(s.ctx, s.eventID, p.ID, "hunter3")
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestVerifySecretFailsWhenUnregistered() {
	s.random.QueueString("abc123def456")
	p, _ := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")

	err := s.service.VerifySecret(s.ctx, s.eventID, p.ID, "hunter2")
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

// AllRegistered tests

func (s *ServiceSuite) TestAllRegisteredFalseWithFewerThanTwo() {
	s.random.QueueString("abc123def456")
	p, _ := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")
	_ = s.service.Register(s.ctx, s.eventID, p.ID, "hunter2")

	ready, err := s.service.AllRegistered(s.ctx, s.eventID)
	s.Require().NoError(err)
	s.False(ready)
}

func (s *ServiceSuite) TestAllRegisteredFalseWhileAnyUnregistered() {
	s.random.QueueString("id1", "id2")
	alice, _ := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")
	_, _ = s.service.Invite(s.ctx, s.eventID, "bob@example.com", "Bob")
	_ = s.service.Register(s.ctx, s.eventID, alice.ID, "hunter2")

	ready, err := s.service.AllRegistered(s.ctx, s.eventID)
	s.Require().NoError(err)
	s.False(ready)
}

func (s *ServiceSuite) TestAllRegisteredTrueWhenEveryoneRegistered() {
	s.random.QueueString("id1", "id2")
	alice, _ := s.service.Invite(s.ctx, s.eventID, "alice@example.com", "Alice")
	bob, _ := s.service.Invite(s.ctx, s.eventID, "bob@example.com", "Bob")
	_ = s.service.Register(s.ctx, s.eventID, alice.ID, "hunter2")
	_ = s.service.Register(s.ctx, s.eventID, bob.ID, "hunter3")

	ready, err := s.service.AllRegistered(s.ctx, s.eventID)
	s.Require().NoError(err)
	s.True(ready)
}
