package application

import (
	"time"

	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// Application is a BTO application owned by one applicant.
//
// Invariants:
//   - an applicant holds at most one application whose status is active
//     (PENDING or SUCCESSFUL) at any time
//   - Status moves only along domain.ApplicationStatus.CanTransitionTo
//   - Withdrawal is a parallel sub-state: NA -> PENDING -> APPROVED, with
//     rejection resetting to NA
//   - ApplicantNRIC, ProjectName and FlatType are immutable after submission
type Application struct {
	ID            string
	ApplicantNRIC domain.NRIC
	ProjectName   string
	FlatType      domain.FlatTypeKind
	SubmittedAt   time.Time
	Status        domain.ApplicationStatus
	Withdrawal    domain.WithdrawalStatus
}

// IsActive reports whether this application occupies the applicant's single
// active slot.
func (a *Application) IsActive() bool {
	return a.Status.IsActive()
}

// CanTransition checks a main-status move. Returns nil when legal.
func (a *Application) CanTransition(next domain.ApplicationStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeStateConflict,
			"cannot move application from "+a.Status.String()+" to "+next.String())
	}
	return nil
}

// ApplyTransition moves the main status. Must only be called after
// CanTransition returns nil.
func (a *Application) ApplyTransition(next domain.ApplicationStatus) {
	a.Status = next
}

// CanRequestWithdrawal checks that a withdrawal request is admissible:
// the application is not already withdrawn and no request is in flight.
func (a *Application) CanRequestWithdrawal() error {
	if a.Status == domain.ApplicationWithdrawn {
		return dErrors.New(dErrors.CodeStateConflict, "application is already withdrawn")
	}
	if a.Withdrawal == domain.WithdrawalPending {
		return dErrors.New(dErrors.CodeStateConflict, "withdrawal request already pending")
	}
	return nil
}

// ApplyWithdrawalRequest marks the sub-state pending.
func (a *Application) ApplyWithdrawalRequest() {
	a.Withdrawal = domain.WithdrawalPending
}

// CanResolveWithdrawal checks that a request is pending resolution.
func (a *Application) CanResolveWithdrawal() error {
	if a.Withdrawal != domain.WithdrawalPending {
		return dErrors.New(dErrors.CodeStateConflict, "no withdrawal request pending")
	}
	return nil
}

// ApplyWithdrawalApproval withdraws the application.
func (a *Application) ApplyWithdrawalApproval() {
	a.Withdrawal = domain.WithdrawalApproved
	a.Status = domain.ApplicationWithdrawn
}

// ApplyWithdrawalRejection resets the sub-state so the applicant can ask
// again; the main status is untouched.
func (a *Application) ApplyWithdrawalRejection() {
	a.Withdrawal = domain.WithdrawalNA
}
