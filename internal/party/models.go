package party

import (
	"strings"

	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// Role is a capability attached to a person by reference. Roles compose
// instead of inheriting: an officer keeps full applicant capability, and the
// cross-role conflict rules live in the services that care.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleOfficer   Role = "officer"
	RoleManager   Role = "manager"
)

func (r Role) IsValid() bool {
	return r == RoleApplicant || r == RoleOfficer || r == RoleManager
}

// Person is the identity record shared by every role.
//
// Invariants:
//   - NRIC satisfies the format invariant and is immutable after construction
//   - Name is non-empty and unique across the store (interchange rows
//     reference people by name)
//   - Age is positive
type Person struct {
	NRIC          domain.NRIC
	Name          string
	Age           int
	MaritalStatus domain.MaritalStatus
	PasswordHash  string
	SavedFilter   domain.ProjectFilter
}

// NewPerson validates and constructs a Person.
func NewPerson(nric domain.NRIC, name string, age int, marital domain.MaritalStatus, passwordHash string) (*Person, error) {
	name = strings.TrimSpace(name)
	if !nric.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid nric")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person name cannot be empty")
	}
	if age <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "age must be positive")
	}
	if !marital.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid marital status")
	}
	return &Person{
		NRIC:          nric,
		Name:          name,
		Age:           age,
		MaritalStatus: marital,
		PasswordHash:  passwordHash,
	}, nil
}

// OfficerRole tracks the officer-specific state: at most one assigned
// project at a time.
type OfficerRole struct {
	NRIC            domain.NRIC
	AssignedProject string // project name, empty while unassigned
}

// IsAssigned reports whether the officer currently administers a project.
func (o *OfficerRole) IsAssigned() bool {
	return o.AssignedProject != ""
}
