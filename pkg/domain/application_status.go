package domain

import dErrors "btocore/pkg/domain-errors"

// ApplicationStatus is the main progression status of a BTO application.
//
// Transitions: PENDING -> SUCCESSFUL | UNSUCCESSFUL; SUCCESSFUL -> BOOKED;
// any non-WITHDRAWN status -> WITHDRAWN through an approved withdrawal
// request. UNSUCCESSFUL, BOOKED and WITHDRAWN are otherwise terminal.
type ApplicationStatus string

const (
	ApplicationPending      ApplicationStatus = "PENDING"
	ApplicationSuccessful   ApplicationStatus = "SUCCESSFUL"
	ApplicationUnsuccessful ApplicationStatus = "UNSUCCESSFUL"
	ApplicationBooked       ApplicationStatus = "BOOKED"
	ApplicationWithdrawn    ApplicationStatus = "WITHDRAWN"
)

var validApplicationStatuses = map[ApplicationStatus]bool{
	ApplicationPending:      true,
	ApplicationSuccessful:   true,
	ApplicationUnsuccessful: true,
	ApplicationBooked:       true,
	ApplicationWithdrawn:    true,
}

// ParseApplicationStatus constructs an ApplicationStatus from external input.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	a := ApplicationStatus(s)
	if !validApplicationStatuses[a] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid application status: "+s)
	}
	return a, nil
}

func (a ApplicationStatus) IsValid() bool {
	return validApplicationStatuses[a]
}

// IsActive reports whether the application still occupies the applicant's
// single active-application slot.
func (a ApplicationStatus) IsActive() bool {
	return a == ApplicationPending || a == ApplicationSuccessful
}

// CanTransitionTo reports whether the main-status state machine allows the
// move. WITHDRAWN is reachable from any non-WITHDRAWN state because the
// withdrawal sub-state overrides terminality.
func (a ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if next == ApplicationWithdrawn {
		return a != ApplicationWithdrawn
	}
	switch a {
	case ApplicationPending:
		return next == ApplicationSuccessful || next == ApplicationUnsuccessful
	case ApplicationSuccessful:
		return next == ApplicationBooked
	default:
		return false
	}
}

func (a ApplicationStatus) String() string {
	return string(a)
}

// WithdrawalStatus is the parallel sub-state tracking a withdrawal request.
// NA -> PENDING -> APPROVED; a rejected request resets to NA so the
// applicant can ask again.
type WithdrawalStatus string

const (
	WithdrawalNA       WithdrawalStatus = "NA"
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

var validWithdrawalStatuses = map[WithdrawalStatus]bool{
	WithdrawalNA:       true,
	WithdrawalPending:  true,
	WithdrawalApproved: true,
	WithdrawalRejected: true,
}

// ParseWithdrawalStatus constructs a WithdrawalStatus from external input.
func ParseWithdrawalStatus(s string) (WithdrawalStatus, error) {
	w := WithdrawalStatus(s)
	if !validWithdrawalStatuses[w] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid withdrawal status: "+s)
	}
	return w, nil
}

func (w WithdrawalStatus) IsValid() bool {
	return validWithdrawalStatuses[w]
}

func (w WithdrawalStatus) String() string {
	return string(w)
}
