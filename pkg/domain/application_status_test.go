package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		ok       bool
	}{
		{ApplicationPending, ApplicationSuccessful, true},
		{ApplicationPending, ApplicationUnsuccessful, true},
		{ApplicationPending, ApplicationBooked, false},
		{ApplicationSuccessful, ApplicationBooked, true},
		{ApplicationSuccessful, ApplicationUnsuccessful, false},
		{ApplicationUnsuccessful, ApplicationSuccessful, false},
		{ApplicationBooked, ApplicationSuccessful, false},
		{ApplicationPending, ApplicationWithdrawn, true},
		{ApplicationSuccessful, ApplicationWithdrawn, true},
		{ApplicationBooked, ApplicationWithdrawn, true},
		{ApplicationUnsuccessful, ApplicationWithdrawn, true},
		{ApplicationWithdrawn, ApplicationWithdrawn, false},
		{ApplicationWithdrawn, ApplicationPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestApplicationStatusIsActive(t *testing.T) {
	assert.True(t, ApplicationPending.IsActive())
	assert.True(t, ApplicationSuccessful.IsActive())
	assert.False(t, ApplicationUnsuccessful.IsActive())
	assert.False(t, ApplicationBooked.IsActive())
	assert.False(t, ApplicationWithdrawn.IsActive())
}

func TestBookingStatusTransitions(t *testing.T) {
	assert.True(t, BookingPending.CanTransitionTo(BookingConfirmed))
	assert.True(t, BookingPending.CanTransitionTo(BookingCancelled))
	assert.True(t, BookingConfirmed.CanTransitionTo(BookingCancelled))
	assert.False(t, BookingConfirmed.CanTransitionTo(BookingPending))
	assert.False(t, BookingCancelled.CanTransitionTo(BookingConfirmed))
}
