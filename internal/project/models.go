package project

import (
	"strings"
	"time"

	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// Visibility controls whether applicants can see and apply for a project.
type Visibility string

const (
	VisibilityVisible Visibility = "VISIBLE"
	VisibilityHidden  Visibility = "HIDDEN"
)

func (v Visibility) IsValid() bool {
	return v == VisibilityVisible || v == VisibilityHidden
}

// MaxOfficerSlots bounds the officer slot capacity of a project.
const MaxOfficerSlots = 10

// FlatType is an inventory line item: a unit category with a price and a
// capped availability counter.
//
// Invariant: 0 <= AvailableUnits <= TotalUnits.
type FlatType struct {
	Kind           domain.FlatTypeKind
	TotalUnits     int
	AvailableUnits int
	SellingPrice   float64
}

// Project is the aggregate for one BTO launch.
//
// Invariants:
//   - Name is non-empty and unique across the store
//   - The application period is a valid interval (opens <= closes)
//   - 0 <= OfficerSlots <= MaxOfficerSlots
//   - len(AssignedOfficers) <= OfficerSlots
//   - FlatTypes carry distinct kinds and satisfy the unit invariant
//   - ManagerNRIC is immutable after construction
type Project struct {
	Name             string
	Neighborhood     string
	OpensAt          time.Time
	ClosesAt         time.Time
	ManagerNRIC      domain.NRIC
	OfficerSlots     int
	Visibility       Visibility
	FlatTypes        []FlatType
	AssignedOfficers []domain.NRIC
}

// NewProject validates and constructs a Project. New projects start VISIBLE
// with full availability on every line item.
func NewProject(name, neighborhood string, opensAt, closesAt time.Time, manager domain.NRIC, officerSlots int, flatTypes []FlatType) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project name cannot be empty")
	}
	if opensAt.After(closesAt) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "application period opens after it closes")
	}
	if officerSlots < 0 || officerSlots > MaxOfficerSlots {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "officer slots must be between 0 and 10")
	}
	if len(flatTypes) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project needs at least one flat type")
	}
	seen := make(map[domain.FlatTypeKind]bool, len(flatTypes))
	items := make([]FlatType, 0, len(flatTypes))
	for _, ft := range flatTypes {
		if !ft.Kind.IsValid() {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid flat type kind")
		}
		if seen[ft.Kind] {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "duplicate flat type "+ft.Kind.String())
		}
		seen[ft.Kind] = true
		if ft.TotalUnits < 0 {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "total units cannot be negative")
		}
		if ft.AvailableUnits < 0 || ft.AvailableUnits > ft.TotalUnits {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "available units out of range")
		}
		if ft.SellingPrice < 0 {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "selling price cannot be negative")
		}
		items = append(items, ft)
	}
	return &Project{
		Name:         name,
		Neighborhood: neighborhood,
		OpensAt:      opensAt,
		ClosesAt:     closesAt,
		ManagerNRIC:  manager,
		OfficerSlots: officerSlots,
		Visibility:   VisibilityVisible,
		FlatTypes:    items,
	}, nil
}

// IsOpen reports whether the application window covers now. The closing date
// is inclusive: applications stay open through the whole closing day.
func (p *Project) IsOpen(now time.Time) bool {
	return !now.Before(p.OpensAt) && now.Before(p.ClosesAt.AddDate(0, 0, 1))
}

// AcceptsApplications reports whether an applicant may submit right now.
func (p *Project) AcceptsApplications(now time.Time) bool {
	return p.Visibility == VisibilityVisible && p.IsOpen(now)
}

// PeriodOverlaps reports whether two application periods intersect.
func (p *Project) PeriodOverlaps(other *Project) bool {
	return !p.OpensAt.After(other.ClosesAt) && !other.OpensAt.After(p.ClosesAt)
}

// FlatTypeItem returns the line item for a kind, or nil when the project
// does not offer it.
func (p *Project) FlatTypeItem(kind domain.FlatTypeKind) *FlatType {
	for i := range p.FlatTypes {
		if p.FlatTypes[i].Kind == kind {
			return &p.FlatTypes[i]
		}
	}
	return nil
}

// HasOfficer reports whether the officer is currently assigned here.
func (p *Project) HasOfficer(nric domain.NRIC) bool {
	for _, o := range p.AssignedOfficers {
		if o == nric {
			return true
		}
	}
	return false
}

// Matches applies a saved search filter to the project.
func (p *Project) Matches(filter domain.ProjectFilter) bool {
	if filter.Neighborhood != "" && !strings.EqualFold(filter.Neighborhood, p.Neighborhood) {
		return false
	}
	if filter.FlatType != "" && p.FlatTypeItem(filter.FlatType) == nil {
		return false
	}
	return true
}
