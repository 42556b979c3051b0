package party

import (
	"context"

	"btocore/pkg/domain"
)

// Store is the NRIC-keyed person registry plus the role records attached to
// each person. Implementations return sentinel errors; services translate
// them into coded domain errors.
type Store interface {
	// Create inserts a person, failing with sentinel.ErrDuplicate when the
	// NRIC or the (case-insensitive) name is already taken. A failed insert
	// leaves the store unchanged.
	Create(ctx context.Context, p *Person) error
	FindByNRIC(ctx context.Context, nric domain.NRIC) (*Person, error)
	// FindByName resolves the human-readable cross-reference used by the
	// interchange format.
	FindByName(ctx context.Context, name string) (*Person, error)
	// List returns every person in insertion order.
	List(ctx context.Context) ([]*Person, error)
	// Execute atomically validates and mutates a person under the store
	// lock, returning the updated copy.
	Execute(ctx context.Context, nric domain.NRIC, validate func(*Person) error, mutate func(*Person)) (*Person, error)

	// GrantRole attaches a role record; granting an already-held role is a
	// no-op. Granting RoleOfficer creates the officer state record.
	GrantRole(ctx context.Context, nric domain.NRIC, role Role) error
	HasRole(ctx context.Context, nric domain.NRIC, role Role) (bool, error)

	// Officer returns the officer role record for an NRIC.
	Officer(ctx context.Context, nric domain.NRIC) (*OfficerRole, error)
	// ExecuteOfficer atomically validates and mutates the officer record.
	ExecuteOfficer(ctx context.Context, nric domain.NRIC, validate func(*OfficerRole) error, mutate func(*OfficerRole)) (*OfficerRole, error)
}
