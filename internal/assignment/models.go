package assignment

import (
	"time"

	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// Registration is an officer's request to administer a project (the
// OfficerApplication record of the interchange format).
//
// Invariants:
//   - an officer holds at most one non-terminal registration at a time
//   - Status moves PENDING -> APPROVED | REJECTED and then never again
//   - OfficerNRIC and ProjectName are immutable after submission
type Registration struct {
	ID          string
	OfficerNRIC domain.NRIC
	ProjectName string
	SubmittedAt time.Time
	Status      domain.OfficerApplicationStatus
}

// IsOpen reports whether the registration still ties the officer to the
// project: pending requests and approved assignments both count.
func (r *Registration) IsOpen() bool {
	return r.Status == domain.OfficerApplicationPending || r.Status == domain.OfficerApplicationApproved
}

// CanDecide checks that the registration is still pending.
func (r *Registration) CanDecide() error {
	if r.Status != domain.OfficerApplicationPending {
		return dErrors.New(dErrors.CodeStateConflict,
			"registration already decided: "+r.Status.String())
	}
	return nil
}

// ApplyDecision records the outcome. Must only be called after CanDecide
// returns nil.
func (r *Registration) ApplyDecision(outcome domain.OfficerApplicationStatus) {
	r.Status = outcome
}
