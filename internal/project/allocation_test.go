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
// Allocation Test Suite
// =============================================================================
// Justification for unit tests: the allocation component is the sole mutator
// of officer slots and unit inventory, so its capacity arithmetic is
// exercised here directly rather than through full lifecycle flows.

type activeAppsStub map[string]bool

func (a activeAppsStub) HasActiveOnProject(_ context.Context, applicant domain.NRIC, projectName string) (bool, error) {
	return a[applicant.String()+"/"+projectName], nil
}

type AllocationSuite struct {
	suite.Suite
	store *InMemory
	apps  activeAppsStub
	alloc *Allocation
}

func TestAllocationSuite(t *testing.T) {
	suite.Run(t, new(AllocationSuite))
}

func (s *AllocationSuite) SetupTest() {
	s.store = NewInMemory()
	s.apps = make(activeAppsStub)
	s.alloc = NewAllocation(s.store, s.apps)

	p, err := NewProject("Acacia Breeze", "Yishun",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		"T1111111A", 2, []FlatType{
			{Kind: domain.FlatTwoRoom, TotalUnits: 2, AvailableUnits: 2, SellingPrice: 350000},
			{Kind: domain.FlatThreeRoom, TotalUnits: 1, AvailableUnits: 1, SellingPrice: 450000},
		})
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateIfNoPeriodOverlap(context.Background(), p))
}

// =============================================================================
// Officer Slot Tests
// =============================================================================

func (s *AllocationSuite) TestAssignOfficer() {
	ctx := context.Background()

	s.Run("fills slots up to capacity", func() {
		s.NoError(s.alloc.AssignOfficer(ctx, "Acacia Breeze", "S1000001A"))
		s.NoError(s.alloc.AssignOfficer(ctx, "Acacia Breeze", "S1000002B"))

		err := s.alloc.AssignOfficer(ctx, "Acacia Breeze", "S1000003C")
		s.True(dErrors.HasCode(err, dErrors.CodeCapacityExceeded))

		p, _ := s.store.FindByName(ctx, "Acacia Breeze")
		s.Len(p.AssignedOfficers, 2)
	})

	s.Run("rejects double assignment", func() {
		err := s.alloc.AssignOfficer(ctx, "Acacia Breeze", "S1000001A")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rejects officer with active application on the project", func() {
		s.NoError(s.alloc.UnassignOfficer(ctx, "Acacia Breeze", "S1000002B"))
		s.apps["S1000002B/Acacia Breeze"] = true

		err := s.alloc.AssignOfficer(ctx, "Acacia Breeze", "S1000002B")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown project", func() {
		err := s.alloc.AssignOfficer(ctx, "Nowhere", "S1000001A")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *AllocationSuite) TestUnassignOfficer() {
	ctx := context.Background()
	s.Require().NoError(s.alloc.AssignOfficer(ctx, "Acacia Breeze", "S1000001A"))

	s.NoError(s.alloc.UnassignOfficer(ctx, "Acacia Breeze", "S1000001A"))
	err := s.alloc.UnassignOfficer(ctx, "Acacia Breeze", "S1000001A")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// =============================================================================
// Unit Inventory Tests
// =============================================================================

func (s *AllocationSuite) TestReserveAndReleaseUnit() {
	ctx := context.Background()
	available := func(kind domain.FlatTypeKind) int {
		p, err := s.store.FindByName(ctx, "Acacia Breeze")
		s.Require().NoError(err)
		return p.FlatTypeItem(kind).AvailableUnits
	}

	s.Run("reserve fails at zero", func() {
		s.NoError(s.alloc.ReserveUnit(ctx, "Acacia Breeze", domain.FlatThreeRoom))
		s.Equal(0, available(domain.FlatThreeRoom))

		err := s.alloc.ReserveUnit(ctx, "Acacia Breeze", domain.FlatThreeRoom)
		s.True(dErrors.HasCode(err, dErrors.CodeCapacityExceeded))
		s.Equal(0, available(domain.FlatThreeRoom))
	})

	s.Run("reserve then release round-trips the counter", func() {
		before := available(domain.FlatTwoRoom)
		s.NoError(s.alloc.ReserveUnit(ctx, "Acacia Breeze", domain.FlatTwoRoom))
		s.NoError(s.alloc.ReleaseUnit(ctx, "Acacia Breeze", domain.FlatTwoRoom))
		s.Equal(before, available(domain.FlatTwoRoom))
	})

	s.Run("release never exceeds total", func() {
		s.Equal(2, available(domain.FlatTwoRoom))
		s.NoError(s.alloc.ReleaseUnit(ctx, "Acacia Breeze", domain.FlatTwoRoom))
		s.Equal(2, available(domain.FlatTwoRoom))
	})

	s.Run("unknown flat type", func() {
		p, _ := s.store.FindByName(ctx, "Acacia Breeze")
		s.Nil(p.FlatTypeItem("FOUR_ROOM"))
		err := s.alloc.ReserveUnit(ctx, "Acacia Breeze", "FOUR_ROOM")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
