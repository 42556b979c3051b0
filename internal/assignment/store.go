package assignment

import (
	"context"

	"btocore/pkg/domain"
)

// Store is the ID-keyed registration registry. Implementations return
// sentinel errors; the service translates them.
type Store interface {
	// CreateIfNonePending inserts the registration unless the officer
	// already holds a pending one (sentinel.ErrConflict) or the ID is taken
	// (sentinel.ErrDuplicate). Check and insert run under one lock.
	CreateIfNonePending(ctx context.Context, r *Registration) error
	FindByID(ctx context.Context, id string) (*Registration, error)
	// HasOpenRegistration reports whether the officer has a pending or
	// approved registration on the named project.
	HasOpenRegistration(ctx context.Context, officer domain.NRIC, projectName string) (bool, error)
	ListByOfficer(ctx context.Context, officer domain.NRIC) ([]*Registration, error)
	ListByProject(ctx context.Context, projectName string) ([]*Registration, error)
	List(ctx context.Context) ([]*Registration, error)
	// Execute atomically validates and mutates a registration under the
	// store lock, returning the updated copy.
	Execute(ctx context.Context, id string, validate func(*Registration) error, mutate func(*Registration)) (*Registration, error)
}
