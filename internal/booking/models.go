package booking

import (
	"time"

	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// Booking is the one-to-one companion of a BOOKED application.
//
// Invariants:
//   - at most one live (non-cancelled) booking exists per application
//   - Status moves along domain.BookingStatus.CanTransitionTo
//   - the reserved unit is released at most once, tracked by UnitReleased
type Booking struct {
	ID            string
	ApplicationID string
	OfficerNRIC   domain.NRIC
	ProjectName   string
	FlatType      domain.FlatTypeKind
	Date          time.Time
	Status        domain.BookingStatus
	UnitReleased  bool
}

// CanTransition checks a status move. Returns nil when legal.
func (b *Booking) CanTransition(next domain.BookingStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeStateConflict,
			"cannot move booking from "+b.Status.String()+" to "+next.String())
	}
	return nil
}

// IsLive reports whether the booking still holds its reserved unit.
func (b *Booking) IsLive() bool {
	return b.Status != domain.BookingCancelled
}

// Receipt is generated once per confirmed booking.
type Receipt struct {
	Number        string
	Date          time.Time
	ApplicationID string
	BookingID     string
}

// ReportRow is one line of the manager-facing booking report.
type ReportRow struct {
	ApplicantName string
	Age           int
	MaritalStatus domain.MaritalStatus
	FlatType      domain.FlatTypeKind
	ProjectName   string
}

// ReportFilter narrows the booking report. Zero-value fields mean "no
// constraint".
type ReportFilter struct {
	ProjectName   string
	FlatType      domain.FlatTypeKind
	MaritalStatus domain.MaritalStatus
}
