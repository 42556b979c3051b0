package project

import (
	"context"
	"errors"

	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
	"btocore/pkg/platform/sentinel"
)

// ActiveApplicationChecker reports whether a person holds an active BTO
// application on a project. The application store satisfies it; keeping the
// dependency as an interface avoids a package cycle.
type ActiveApplicationChecker interface {
	HasActiveOnProject(ctx context.Context, applicant domain.NRIC, projectName string) (bool, error)
}

// Allocation manages the two capacity resources of a project: officer slots
// and flat-unit inventory. ReserveUnit and ReleaseUnit are the only way
// available-unit counts change anywhere in the engine.
type Allocation struct {
	store Store
	apps  ActiveApplicationChecker
}

func NewAllocation(store Store, apps ActiveApplicationChecker) *Allocation {
	return &Allocation{store: store, apps: apps}
}

// AssignOfficer adds an officer to a project's assigned set.
//
// Fails with CodeCapacityExceeded when the assigned-officer count already
// equals the slot capacity, and with CodeConflict when the officer holds an
// active BTO application on the same project (cross-role conflict) or is
// already assigned.
func (a *Allocation) AssignOfficer(ctx context.Context, projectName string, officer domain.NRIC) error {
	if a.apps != nil {
		active, err := a.apps.HasActiveOnProject(ctx, officer, projectName)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check applicant conflict")
		}
		if active {
			return dErrors.New(dErrors.CodeConflict, "officer has an active application on this project")
		}
	}

	_, err := a.store.Execute(ctx, projectName,
		func(p *Project) error {
			if p.HasOfficer(officer) {
				return dErrors.New(dErrors.CodeConflict, "officer already assigned to this project")
			}
			if len(p.AssignedOfficers) >= p.OfficerSlots {
				return dErrors.New(dErrors.CodeCapacityExceeded, "no officer slots left")
			}
			return nil
		},
		func(p *Project) {
			p.AssignedOfficers = append(p.AssignedOfficers, officer)
		},
	)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	return err
}

// UnassignOfficer removes an officer from the assigned set. It succeeds
// whenever the officer is currently assigned.
func (a *Allocation) UnassignOfficer(ctx context.Context, projectName string, officer domain.NRIC) error {
	_, err := a.store.Execute(ctx, projectName,
		func(p *Project) error {
			if !p.HasOfficer(officer) {
				return dErrors.New(dErrors.CodeNotFound, "officer not assigned to this project")
			}
			return nil
		},
		func(p *Project) {
			for i, o := range p.AssignedOfficers {
				if o == officer {
					p.AssignedOfficers = append(p.AssignedOfficers[:i], p.AssignedOfficers[i+1:]...)
					return
				}
			}
		},
	)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	return err
}

// ReserveUnit decrements the available count for a flat type, failing fast
// with CodeCapacityExceeded at zero.
func (a *Allocation) ReserveUnit(ctx context.Context, projectName string, kind domain.FlatTypeKind) error {
	_, err := a.store.Execute(ctx, projectName,
		func(p *Project) error {
			item := p.FlatTypeItem(kind)
			if item == nil {
				return dErrors.New(dErrors.CodeNotFound, "project does not offer "+kind.String())
			}
			if item.AvailableUnits == 0 {
				return dErrors.New(dErrors.CodeCapacityExceeded, "no units left for "+kind.String())
			}
			return nil
		},
		func(p *Project) {
			p.FlatTypeItem(kind).AvailableUnits--
		},
	)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	return err
}

// ReleaseUnit increments the available count for a flat type. The counter is
// capped at the total so a stray double release can never mint units.
func (a *Allocation) ReleaseUnit(ctx context.Context, projectName string, kind domain.FlatTypeKind) error {
	_, err := a.store.Execute(ctx, projectName,
		func(p *Project) error {
			if p.FlatTypeItem(kind) == nil {
				return dErrors.New(dErrors.CodeNotFound, "project does not offer "+kind.String())
			}
			return nil
		},
		func(p *Project) {
			item := p.FlatTypeItem(kind)
			if item.AvailableUnits < item.TotalUnits {
				item.AvailableUnits++
			}
		},
	)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	return err
}
