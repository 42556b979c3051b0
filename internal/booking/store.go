package booking

import "context"

// Store is the ID-keyed booking registry plus the receipts bound to
// bookings. Implementations return sentinel errors; the service translates
// them.
type Store interface {
	// CreateIfNoneLive inserts the booking unless a live booking already
	// exists for the same application (sentinel.ErrConflict) or the ID is
	// taken (sentinel.ErrDuplicate).
	CreateIfNoneLive(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	// FindLiveByApplication returns the application's non-cancelled
	// booking, or sentinel.ErrNotFound.
	FindLiveByApplication(ctx context.Context, applicationID string) (*Booking, error)
	// FindLatestByApplication returns the application's most recent booking
	// regardless of status, or sentinel.ErrNotFound when the application
	// never had one.
	FindLatestByApplication(ctx context.Context, applicationID string) (*Booking, error)
	List(ctx context.Context) ([]*Booking, error)
	// Execute atomically validates and mutates a booking under the store
	// lock, returning the updated copy.
	Execute(ctx context.Context, id string, validate func(*Booking) error, mutate func(*Booking)) (*Booking, error)

	// GetOrCreateReceipt returns the booking's receipt, creating it with
	// build() under the store lock when absent. The bool reports whether a
	// new receipt was created.
	GetOrCreateReceipt(ctx context.Context, bookingID string, build func() *Receipt) (*Receipt, bool, error)
	FindReceiptByBooking(ctx context.Context, bookingID string) (*Receipt, error)
	ListReceipts(ctx context.Context) ([]*Receipt, error)
}
