package domain

import dErrors "btocore/pkg/domain-errors"

// OfficerApplicationStatus tracks an officer's request to administer a
// project. PENDING -> APPROVED | REJECTED; both outcomes are terminal.
type OfficerApplicationStatus string

const (
	OfficerApplicationPending  OfficerApplicationStatus = "PENDING"
	OfficerApplicationApproved OfficerApplicationStatus = "APPROVED"
	OfficerApplicationRejected OfficerApplicationStatus = "REJECTED"
)

var validOfficerApplicationStatuses = map[OfficerApplicationStatus]bool{
	OfficerApplicationPending:  true,
	OfficerApplicationApproved: true,
	OfficerApplicationRejected: true,
}

// ParseOfficerApplicationStatus constructs the status from external input.
func ParseOfficerApplicationStatus(s string) (OfficerApplicationStatus, error) {
	o := OfficerApplicationStatus(s)
	if !validOfficerApplicationStatuses[o] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid officer application status: "+s)
	}
	return o, nil
}

func (o OfficerApplicationStatus) IsValid() bool {
	return validOfficerApplicationStatuses[o]
}

// IsTerminal reports whether the registration has been decided.
func (o OfficerApplicationStatus) IsTerminal() bool {
	return o == OfficerApplicationApproved || o == OfficerApplicationRejected
}

func (o OfficerApplicationStatus) String() string {
	return string(o)
}
