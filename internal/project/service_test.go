package project

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// =============================================================================
// Project Service Test Suite
// =============================================================================

type ProjectServiceSuite struct {
	suite.Suite
	store   *InMemory
	service *Service
}

func TestProjectServiceSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceSuite))
}

func (s *ProjectServiceSuite) SetupTest() {
	s.store = NewInMemory()
	s.service = NewService(s.store)
}

func (s *ProjectServiceSuite) create(name string, manager domain.NRIC, opens, closes time.Time) *Project {
	p, err := s.service.Create(context.Background(), CreateParams{
		Name:         name,
		Neighborhood: "Yishun",
		OpensAt:      opens,
		ClosesAt:     closes,
		Manager:      manager,
		OfficerSlots: 3,
		FlatTypes: []FlatType{
			{Kind: domain.FlatTwoRoom, TotalUnits: 5, SellingPrice: 350000},
		},
	})
	s.Require().NoError(err)
	return p
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// Create Tests
// =============================================================================

func (s *ProjectServiceSuite) TestCreate() {
	ctx := context.Background()

	s.Run("new project starts visible with full availability", func() {
		p := s.create("Acacia Breeze", "T1111111A", date(2026, 2, 1), date(2026, 3, 20))
		s.Equal(VisibilityVisible, p.Visibility)
		s.Equal(5, p.FlatTypes[0].AvailableUnits)
		s.Equal(5, p.FlatTypes[0].TotalUnits)
	})

	s.Run("duplicate name", func() {
		_, err := s.service.Create(ctx, CreateParams{
			Name: "Acacia Breeze", Neighborhood: "Yishun",
			OpensAt: date(2027, 1, 1), ClosesAt: date(2027, 2, 1),
			Manager: "T2222222B", OfficerSlots: 1,
			FlatTypes: []FlatType{{Kind: domain.FlatTwoRoom, TotalUnits: 1}},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicate))
	})

	s.Run("same manager cannot run two overlapping periods", func() {
		_, err := s.service.Create(ctx, CreateParams{
			Name: "Bougainvillea Grove", Neighborhood: "Yishun",
			OpensAt: date(2026, 3, 1), ClosesAt: date(2026, 4, 15),
			Manager: "T1111111A", OfficerSlots: 1,
			FlatTypes: []FlatType{{Kind: domain.FlatTwoRoom, TotalUnits: 1}},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("same manager with disjoint periods is fine", func() {
		_, err := s.service.Create(ctx, CreateParams{
			Name: "Cassia Court", Neighborhood: "Boon Lay",
			OpensAt: date(2026, 5, 1), ClosesAt: date(2026, 6, 1),
			Manager: "T1111111A", OfficerSlots: 1,
			FlatTypes: []FlatType{{Kind: domain.FlatThreeRoom, TotalUnits: 2}},
		})
		s.NoError(err)
	})

	s.Run("other manager may overlap", func() {
		_, err := s.service.Create(ctx, CreateParams{
			Name: "Dahlia Rise", Neighborhood: "Punggol",
			OpensAt: date(2026, 2, 15), ClosesAt: date(2026, 3, 10),
			Manager: "T3333333C", OfficerSlots: 1,
			FlatTypes: []FlatType{{Kind: domain.FlatTwoRoom, TotalUnits: 1}},
		})
		s.NoError(err)
	})

	s.Run("invalid params surface as validation errors", func() {
		_, err := s.service.Create(ctx, CreateParams{
			Name: "Evergreen", Neighborhood: "Yishun",
			OpensAt: date(2026, 9, 1), ClosesAt: date(2026, 8, 1),
			Manager: "T4444444D", OfficerSlots: 1,
			FlatTypes: []FlatType{{Kind: domain.FlatTwoRoom, TotalUnits: 1}},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Visibility and Listing Tests
// =============================================================================

func (s *ProjectServiceSuite) TestSetVisibility() {
	ctx := context.Background()
	s.create("Acacia Breeze", "T1111111A", date(2026, 2, 1), date(2026, 3, 20))

	s.Run("only the owning manager may toggle", func() {
		_, err := s.service.SetVisibility(ctx, "Acacia Breeze", "T9999999Z", VisibilityHidden)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("hidden projects drop out of the public listing", func() {
		_, err := s.service.SetVisibility(ctx, "Acacia Breeze", "T1111111A", VisibilityHidden)
		s.Require().NoError(err)

		public, err := s.service.List(ctx, domain.ProjectFilter{}, false)
		s.NoError(err)
		s.Empty(public)

		all, err := s.service.List(ctx, domain.ProjectFilter{}, true)
		s.NoError(err)
		s.Len(all, 1)
	})
}

func (s *ProjectServiceSuite) TestList() {
	ctx := context.Background()
	s.create("Cassia Court", "T1111111A", date(2026, 2, 1), date(2026, 3, 1))
	s.create("acacia breeze", "T2222222B", date(2026, 2, 1), date(2026, 3, 1))

	s.Run("sorted by name, case-insensitive", func() {
		out, err := s.service.List(ctx, domain.ProjectFilter{}, false)
		s.NoError(err)
		s.Require().Len(out, 2)
		s.Equal("acacia breeze", out[0].Name)
		s.Equal("Cassia Court", out[1].Name)
	})

	s.Run("saved filter narrows by neighborhood", func() {
		out, err := s.service.List(ctx, domain.ProjectFilter{Neighborhood: "yishun"}, false)
		s.NoError(err)
		s.Len(out, 2)

		out, err = s.service.List(ctx, domain.ProjectFilter{Neighborhood: "Punggol"}, false)
		s.NoError(err)
		s.Empty(out)
	})
}

// =============================================================================
// Window Tests
// =============================================================================

func (s *ProjectServiceSuite) TestApplicationWindow() {
	p := s.create("Acacia Breeze", "T1111111A", date(2026, 2, 1), date(2026, 3, 20))

	s.False(p.IsOpen(date(2026, 1, 31)))
	s.True(p.IsOpen(date(2026, 2, 1)))
	// Closing date is inclusive.
	s.True(p.IsOpen(date(2026, 3, 20).Add(12*time.Hour)))
	s.False(p.IsOpen(date(2026, 3, 21)))
}
