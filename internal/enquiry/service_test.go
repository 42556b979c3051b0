package enquiry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"btocore/internal/project"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// =============================================================================
// Enquiry Service Test Suite
// =============================================================================

type EnquiryServiceSuite struct {
	suite.Suite
	projects *project.InMemory
	store    *InMemory
	service  *Service
}

func TestEnquiryServiceSuite(t *testing.T) {
	suite.Run(t, new(EnquiryServiceSuite))
}

const (
	submitterNRIC = domain.NRIC("S1000001A")
	officerNRIC   = domain.NRIC("S2000002B")
	managerNRIC   = domain.NRIC("T3000003C")
)

func (s *EnquiryServiceSuite) SetupTest() {
	ctx := context.Background()
	s.projects = project.NewInMemory()
	s.store = NewInMemory()
	s.service = NewService(s.store, s.projects)

	p, err := project.NewProject("Acacia Breeze", "Yishun",
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		managerNRIC, 3, []project.FlatType{
			{Kind: domain.FlatTwoRoom, TotalUnits: 2, AvailableUnits: 2, SellingPrice: 350000},
		})
	s.Require().NoError(err)
	p.AssignedOfficers = []domain.NRIC{officerNRIC}
	s.Require().NoError(s.projects.CreateIfNoPeriodOverlap(ctx, p))
}

func (s *EnquiryServiceSuite) submit() *Enquiry {
	e, err := s.service.Submit(context.Background(), submitterNRIC, "Acacia Breeze", "When is the key collection?")
	s.Require().NoError(err)
	return e
}

// =============================================================================
// Submit, Edit, Delete Tests
// =============================================================================

func (s *EnquiryServiceSuite) TestSubmit() {
	ctx := context.Background()

	s.Run("creates a pending enquiry", func() {
		e := s.submit()
		s.Equal(domain.EnquiryPending, e.Status)
		s.Equal("Acacia Breeze", e.ProjectName)
	})

	s.Run("rejects empty content", func() {
		_, err := s.service.Submit(ctx, submitterNRIC, "Acacia Breeze", "   ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown project", func() {
		_, err := s.service.Submit(ctx, submitterNRIC, "Nowhere", "hello?")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *EnquiryServiceSuite) TestEdit() {
	ctx := context.Background()
	e := s.submit()

	s.Run("submitter can edit while pending", func() {
		got, err := s.service.Edit(ctx, submitterNRIC, e.ID, "Updated question")
		s.NoError(err)
		s.Equal("Updated question", got.Content)
	})

	s.Run("others cannot edit", func() {
		_, err := s.service.Edit(ctx, officerNRIC, e.ID, "hijack")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("replied enquiries are frozen", func() {
		_, err := s.service.Respond(ctx, managerNRIC, e.ID, "January 2027.")
		s.Require().NoError(err)

		_, err = s.service.Edit(ctx, submitterNRIC, e.ID, "too late")
		s.True(dErrors.HasCode(err, dErrors.CodeStateConflict))
	})
}

func (s *EnquiryServiceSuite) TestDelete() {
	ctx := context.Background()
	e := s.submit()

	s.Run("others cannot delete", func() {
		err := s.service.Delete(ctx, officerNRIC, e.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("submitter deletes a pending enquiry", func() {
		s.NoError(s.service.Delete(ctx, submitterNRIC, e.ID))
		_, err := s.service.Get(ctx, e.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Respond Tests
// =============================================================================

func (s *EnquiryServiceSuite) TestRespond() {
	ctx := context.Background()
	e := s.submit()

	s.Run("outsiders cannot respond", func() {
		_, err := s.service.Respond(ctx, submitterNRIC, e.ID, "I will answer myself")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("assigned officer responds", func() {
		got, err := s.service.Respond(ctx, officerNRIC, e.ID, "Keys in January 2027.")
		s.NoError(err)
		s.Equal(domain.EnquiryReplied, got.Status)
		s.Equal("Keys in January 2027.", got.Reply)
		s.Equal(officerNRIC, got.RespondentNRIC)
	})

	s.Run("second reply is a state conflict", func() {
		_, err := s.service.Respond(ctx, managerNRIC, e.ID, "Me too")
		s.True(dErrors.HasCode(err, dErrors.CodeStateConflict))
	})

	s.Run("empty reply is invalid", func() {
		other := s.submit()
		_, err := s.service.Respond(ctx, managerNRIC, other.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *EnquiryServiceSuite) TestListing() {
	ctx := context.Background()
	first := s.submit()
	second := s.submit()

	mine, err := s.service.ListBySubmitter(ctx, submitterNRIC)
	s.NoError(err)
	s.Require().Len(mine, 2)
	s.Equal(first.ID, mine[0].ID)
	s.Equal(second.ID, mine[1].ID)

	byProject, err := s.service.ListByProject(ctx, "Acacia Breeze")
	s.NoError(err)
	s.Len(byProject, 2)
}
