package application

import (
	"context"

	"btocore/pkg/domain"
)

// Store is the ID-keyed application registry. Implementations return
// sentinel errors; the service translates them.
type Store interface {
	// CreateIfNoActive inserts the application unless the applicant already
	// holds an active one (sentinel.ErrConflict) or the ID is taken
	// (sentinel.ErrDuplicate). Check and insert run under one lock so the
	// one-active-application invariant holds after every operation.
	CreateIfNoActive(ctx context.Context, app *Application) error
	FindByID(ctx context.Context, id string) (*Application, error)
	// FindActiveByApplicant returns the applicant's active application, or
	// sentinel.ErrNotFound.
	FindActiveByApplicant(ctx context.Context, applicant domain.NRIC) (*Application, error)
	// HasActiveOnProject reports whether the applicant holds an active
	// application on the named project (cross-role conflict checks).
	HasActiveOnProject(ctx context.Context, applicant domain.NRIC, projectName string) (bool, error)
	ListByApplicant(ctx context.Context, applicant domain.NRIC) ([]*Application, error)
	ListByProject(ctx context.Context, projectName string) ([]*Application, error)
	List(ctx context.Context) ([]*Application, error)
	// Execute atomically validates and mutates an application under the
	// store lock, returning the updated copy.
	Execute(ctx context.Context, id string, validate func(*Application) error, mutate func(*Application)) (*Application, error)
}
