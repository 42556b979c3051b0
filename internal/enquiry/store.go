package enquiry

import (
	"context"

	"btocore/pkg/domain"
)

// Store is the ID-keyed enquiry registry. Implementations return sentinel
// errors; the service translates them.
type Store interface {
	Create(ctx context.Context, e *Enquiry) error
	FindByID(ctx context.Context, id string) (*Enquiry, error)
	ListBySubmitter(ctx context.Context, submitter domain.NRIC) ([]*Enquiry, error)
	ListByProject(ctx context.Context, projectName string) ([]*Enquiry, error)
	List(ctx context.Context) ([]*Enquiry, error)
	// Execute atomically validates and mutates an enquiry under the store
	// lock, returning the updated copy.
	Execute(ctx context.Context, id string, validate func(*Enquiry) error, mutate func(*Enquiry)) (*Enquiry, error)
	// Remove deletes an enquiry after validate passes under the store lock.
	Remove(ctx context.Context, id string, validate func(*Enquiry) error) error
}
