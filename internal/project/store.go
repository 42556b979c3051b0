package project

import (
	"context"

	"btocore/pkg/domain"
)

// Store is the name-keyed project registry. Names match case-insensitively,
// the way interchange rows reference projects. Implementations return
// sentinel errors; services and the allocation component translate them.
type Store interface {
	// CreateIfNoPeriodOverlap inserts p unless the name is taken
	// (sentinel.ErrDuplicate) or another project managed by the same manager
	// has an overlapping application period (sentinel.ErrConflict). The
	// check and the insert run under one lock so the manager-overlap
	// invariant holds after every operation.
	CreateIfNoPeriodOverlap(ctx context.Context, p *Project) error
	FindByName(ctx context.Context, name string) (*Project, error)
	// List returns every project in insertion order.
	List(ctx context.Context) ([]*Project, error)
	ListByManager(ctx context.Context, manager domain.NRIC) ([]*Project, error)
	// FindByOfficer returns the project an officer is assigned to, or
	// sentinel.ErrNotFound.
	FindByOfficer(ctx context.Context, officer domain.NRIC) (*Project, error)
	// Execute atomically validates and mutates a project under the store
	// lock, returning the updated copy. Capacity transitions (officer
	// slots, unit counters) go through here so invariants never lapse.
	Execute(ctx context.Context, name string, validate func(*Project) error, mutate func(*Project)) (*Project, error)
	Remove(ctx context.Context, name string) error
}
