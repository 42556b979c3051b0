package domain

import dErrors "btocore/pkg/domain-errors"

// BookingStatus tracks a flat booking. PENDING -> CONFIRMED | CANCELLED;
// CONFIRMED -> CANCELLED. CANCELLED is terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

var validBookingStatuses = map[BookingStatus]bool{
	BookingPending:   true,
	BookingConfirmed: true,
	BookingCancelled: true,
}

// ParseBookingStatus constructs a BookingStatus from external input.
func ParseBookingStatus(s string) (BookingStatus, error) {
	b := BookingStatus(s)
	if !validBookingStatuses[b] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid booking status: "+s)
	}
	return b, nil
}

func (b BookingStatus) IsValid() bool {
	return validBookingStatuses[b]
}

func (b BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch b {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCancelled
	default:
		return false
	}
}

func (b BookingStatus) String() string {
	return string(b)
}
