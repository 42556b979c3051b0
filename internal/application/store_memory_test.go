package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"btocore/pkg/domain"
	"btocore/pkg/platform/sentinel"
)

// =============================================================================
// Application Store Test Suite
// =============================================================================

type ApplicationStoreSuite struct {
	suite.Suite
	store *InMemory
}

func TestApplicationStoreSuite(t *testing.T) {
	suite.Run(t, new(ApplicationStoreSuite))
}

func (s *ApplicationStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func (s *ApplicationStoreSuite) app(id string, applicant domain.NRIC, status domain.ApplicationStatus) *Application {
	return &Application{
		ID:            id,
		ApplicantNRIC: applicant,
		ProjectName:   "Acacia Breeze",
		FlatType:      domain.FlatTwoRoom,
		Status:        status,
		Withdrawal:    domain.WithdrawalNA,
	}
}

func (s *ApplicationStoreSuite) TestCreateIfNoActive() {
	ctx := context.Background()

	s.Run("one active application per applicant", func() {
		s.NoError(s.store.CreateIfNoActive(ctx, s.app("a1", "S1000001A", domain.ApplicationPending)))

		err := s.store.CreateIfNoActive(ctx, s.app("a2", "S1000001A", domain.ApplicationPending))
		s.ErrorIs(err, sentinel.ErrConflict)

		// The failed insert left nothing behind.
		_, err = s.store.FindByID(ctx, "a2")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("successful applications also hold the slot", func() {
		_, err := s.store.Execute(ctx, "a1", nil, func(a *Application) {
			a.Status = domain.ApplicationSuccessful
		})
		s.Require().NoError(err)

		err = s.store.CreateIfNoActive(ctx, s.app("a3", "S1000001A", domain.ApplicationPending))
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("terminal applications free the slot", func() {
		_, err := s.store.Execute(ctx, "a1", nil, func(a *Application) {
			a.Status = domain.ApplicationWithdrawn
		})
		s.Require().NoError(err)

		s.NoError(s.store.CreateIfNoActive(ctx, s.app("a4", "S1000001A", domain.ApplicationPending)))
	})

	s.Run("loading terminal history never conflicts", func() {
		s.NoError(s.store.CreateIfNoActive(ctx, s.app("a5", "S1000001A", domain.ApplicationUnsuccessful)))
	})

	s.Run("duplicate id", func() {
		err := s.store.CreateIfNoActive(ctx, s.app("a4", "S2000002B", domain.ApplicationPending))
		s.ErrorIs(err, sentinel.ErrDuplicate)
	})
}

func (s *ApplicationStoreSuite) TestLookups() {
	ctx := context.Background()
	s.Require().NoError(s.store.CreateIfNoActive(ctx, s.app("a1", "S1000001A", domain.ApplicationPending)))
	s.Require().NoError(s.store.CreateIfNoActive(ctx, s.app("a2", "S2000002B", domain.ApplicationPending)))

	s.Run("find active by applicant", func() {
		got, err := s.store.FindActiveByApplicant(ctx, "S1000001A")
		s.NoError(err)
		s.Equal("a1", got.ID)
	})

	s.Run("project lookups are case-insensitive", func() {
		ok, err := s.store.HasActiveOnProject(ctx, "S1000001A", "acacia breeze")
		s.NoError(err)
		s.True(ok)

		apps, err := s.store.ListByProject(ctx, "ACACIA BREEZE")
		s.NoError(err)
		s.Len(apps, 2)
	})

	s.Run("mutating a returned copy does not touch the store", func() {
		got, err := s.store.FindByID(ctx, "a1")
		s.Require().NoError(err)
		got.Status = domain.ApplicationWithdrawn

		fresh, err := s.store.FindByID(ctx, "a1")
		s.NoError(err)
		s.Equal(domain.ApplicationPending, fresh.Status)
	})
}
