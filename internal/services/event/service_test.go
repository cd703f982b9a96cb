package event

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
}

func (s *ServiceSuite) TestCreateSucceeds() {
	s.random.QueueString("abc123def456")
	rules := model.Rules{
		MaxSpend:     50,
		BonusItem:    "an ornament",
		Theme:        "handmade",
		GiftDeadline: time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
	}

	event, err := s.service.Create(s.ctx, "Office Exchange", rules)
	s.Require().NoError(err)

	s.Equal(model.EventID("evt_abc123def456"), event.ID)
	s.Equal("Office Exchange", event.Name)
	s.Equal(model.MatchStateNotGenerated, event.MatchState)
	s.Equal(rules, event.Rules)
	s.Equal(s.clock.CurrentTime, event.CreatedAt)
}

func (s *ServiceSuite) TestCreateIsPersisted() {
	s.random.QueueString("abc123def456")

	created, err := s.service.Create(s.ctx, "Office Exchange", model.Rules{MaxSpend: 25})
	s.Require().NoError(err)

	retrieved, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, retrieved.ID)
	s.Equal(25, retrieved.Rules.MaxSpend)
}

func (s *ServiceSuite) TestGetFailsForUnknownEvent() {
	_, err := s.service.Get(s.ctx, "evt_missing")
	s.ErrorIs(err, model.ErrEventNotFound)
}

func (s *ServiceSuite) TestDeleteSucceeds() {
	s.random.QueueString("abc123def456")
	created, _ := s.service.Create(s.ctx, "Office Exchange", model.Rules{})

	err := s.service.Delete(s.ctx, created.ID)
	s.Require().NoError(err)

	_, err = s.service.Get(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrEventNotFound)
}

func (s *ServiceSuite) TestDeleteFailsForUnknownEvent() {
	err := s.service.Delete(s.ctx, "evt_missing")
	s.ErrorIs(err, model.ErrEventNotFound)
}
