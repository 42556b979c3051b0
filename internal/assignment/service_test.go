package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"btocore/internal/application"
	"btocore/internal/party"
	"btocore/internal/project"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// =============================================================================
// Assignment Service Test Suite
// =============================================================================

type AssignmentServiceSuite struct {
	suite.Suite
	persons  *party.InMemory
	projects *project.InMemory
	apps     *application.InMemory
	store    *InMemory
	alloc    *project.Allocation
	service  *Service
}

func TestAssignmentServiceSuite(t *testing.T) {
	suite.Run(t, new(AssignmentServiceSuite))
}

const (
	officerNRIC = domain.NRIC("S2000002B")
	managerNRIC = domain.NRIC("T3000003C")
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *AssignmentServiceSuite) SetupTest() {
	ctx := context.Background()
	s.persons = party.NewInMemory()
	s.projects = project.NewInMemory()
	s.apps = application.NewInMemory()
	s.store = NewInMemory()
	s.alloc = project.NewAllocation(s.projects, s.apps)
	s.service = NewService(s.store, s.persons, s.projects, s.apps, s.alloc)

	officer, err := party.NewPerson(officerNRIC, "Daniel", 30, domain.MaritalMarried, "hash")
	s.Require().NoError(err)
	s.Require().NoError(s.persons.Create(ctx, officer))
	s.Require().NoError(s.persons.GrantRole(ctx, officerNRIC, party.RoleOfficer))

	p, err := project.NewProject("Acacia Breeze", "Yishun",
		date(2026, 2, 1), date(2026, 3, 20), managerNRIC, 1, []project.FlatType{
			{Kind: domain.FlatTwoRoom, TotalUnits: 2, AvailableUnits: 2, SellingPrice: 350000},
		})
	s.Require().NoError(err)
	s.Require().NoError(s.projects.CreateIfNoPeriodOverlap(ctx, p))
}

func (s *AssignmentServiceSuite) submit() *Registration {
	reg, err := s.service.Submit(context.Background(), officerNRIC, "Acacia Breeze")
	s.Require().NoError(err)
	return reg
}

// =============================================================================
// Submit Tests
// =============================================================================

func (s *AssignmentServiceSuite) TestSubmit() {
	ctx := context.Background()

	s.Run("creates a pending registration", func() {
		reg := s.submit()
		s.Equal(domain.OfficerApplicationPending, reg.Status)
		s.Equal("Acacia Breeze", reg.ProjectName)
	})

	s.Run("second pending registration is rejected", func() {
		_, err := s.service.Submit(ctx, officerNRIC, "Acacia Breeze")
		s.True(dErrors.HasCode(err, dErrors.CodeStateConflict))
	})
}

func (s *AssignmentServiceSuite) TestSubmitGates() {
	ctx := context.Background()

	s.Run("non-officer cannot register", func() {
		applicant, err := party.NewPerson("S1000001A", "John", 36, domain.MaritalSingle, "hash")
		s.Require().NoError(err)
		s.Require().NoError(s.persons.Create(ctx, applicant))
		s.Require().NoError(s.persons.GrantRole(ctx, "S1000001A", party.RoleApplicant))

		_, err = s.service.Submit(ctx, "S1000001A", "Acacia Breeze")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("officer with active application on the project is rejected", func() {
		app := &application.Application{
			ID:            "app-1",
			ApplicantNRIC: officerNRIC,
			ProjectName:   "Acacia Breeze",
			FlatType:      domain.FlatTwoRoom,
			SubmittedAt:   date(2026, 2, 5),
			Status:        domain.ApplicationPending,
			Withdrawal:    domain.WithdrawalNA,
		}
		s.Require().NoError(s.apps.CreateIfNoActive(ctx, app))

		_, err := s.service.Submit(ctx, officerNRIC, "Acacia Breeze")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown project", func() {
		_, err := s.service.Submit(ctx, officerNRIC, "Nowhere")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Decide Tests
// =============================================================================

func (s *AssignmentServiceSuite) TestDecide() {
	ctx := context.Background()
	reg := s.submit()

	s.Run("only the project manager may decide", func() {
		_, err := s.service.Decide(ctx, "T9999999Z", reg.ID, domain.OfficerApplicationApproved)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("approval assigns the officer", func() {
		decided, err := s.service.Decide(ctx, managerNRIC, reg.ID, domain.OfficerApplicationApproved)
		s.NoError(err)
		s.Equal(domain.OfficerApplicationApproved, decided.Status)

		p, err := s.projects.FindByName(ctx, "Acacia Breeze")
		s.NoError(err)
		s.True(p.HasOfficer(officerNRIC))

		record, err := s.persons.Officer(ctx, officerNRIC)
		s.NoError(err)
		s.Equal("Acacia Breeze", record.AssignedProject)
	})

	s.Run("deciding twice is a state conflict", func() {
		_, err := s.service.Decide(ctx, managerNRIC, reg.ID, domain.OfficerApplicationRejected)
		s.True(dErrors.HasCode(err, dErrors.CodeStateConflict))
	})
}

func (s *AssignmentServiceSuite) TestDecideCapacity() {
	ctx := context.Background()
	reg := s.submit()

	// A rival officer already holds the single slot.
	s.Require().NoError(s.alloc.AssignOfficer(ctx, "Acacia Breeze", "S7777777X"))

	_, err := s.service.Decide(ctx, managerNRIC, reg.ID, domain.OfficerApplicationApproved)
	s.True(dErrors.HasCode(err, dErrors.CodeCapacityExceeded))

	// The registration survives as pending for a later slot.
	got, err := s.service.Get(ctx, reg.ID)
	s.NoError(err)
	s.Equal(domain.OfficerApplicationPending, got.Status)
}

func (s *AssignmentServiceSuite) TestDecideRejection() {
	ctx := context.Background()
	reg := s.submit()

	decided, err := s.service.Decide(ctx, managerNRIC, reg.ID, domain.OfficerApplicationRejected)
	s.NoError(err)
	s.Equal(domain.OfficerApplicationRejected, decided.Status)

	p, err := s.projects.FindByName(ctx, "Acacia Breeze")
	s.NoError(err)
	s.False(p.HasOfficer(officerNRIC))

	s.Run("officer can register again after rejection", func() {
		_, err := s.service.Submit(ctx, officerNRIC, "Acacia Breeze")
		s.NoError(err)
	})
}
