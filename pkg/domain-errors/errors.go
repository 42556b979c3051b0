// Package dErrors provides coded domain errors shared by every lifecycle
// service. Services construct these at the boundary between store sentinels
// and callers so that presentation code can branch on the code rather than on
// error strings.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. The set mirrors the engine's error
// taxonomy: recoverable business conditions get their own code so callers can
// report them; CodeInternal marks faults.
type Code string

const (
	// CodeValidation marks malformed input (bad NRIC, bad date, empty field).
	CodeValidation Code = "validation"
	// CodeNotFound marks a referenced entity that does not exist.
	CodeNotFound Code = "not_found"
	// CodeDuplicate marks an insert that would violate key uniqueness.
	CodeDuplicate Code = "duplicate_key"
	// CodeStateConflict marks an illegal state-machine transition or an
	// existing non-terminal record blocking a new one.
	CodeStateConflict Code = "state_conflict"
	// CodeConflict marks a cross-role or cross-entity conflict, such as an
	// officer registering for a project they applied to as an applicant.
	CodeConflict Code = "conflict"
	// CodeEligibility marks an applicant that fails the eligibility table.
	CodeEligibility Code = "eligibility"
	// CodeWindowClosed marks an action outside a project's application period
	// or against a hidden project.
	CodeWindowClosed Code = "window_closed"
	// CodeCapacityExceeded marks exhausted officer slots or flat units.
	CodeCapacityExceeded Code = "capacity_exceeded"
	// CodeUnauthorized marks a failed credential check.
	CodeUnauthorized Code = "unauthorized"
	// CodeInvariantViolation marks a model constructor or transition guard
	// rejecting a value that would break a structural invariant.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks unexpected faults (corrupt record, I/O failure).
	CodeInternal Code = "internal"
)

// DomainError carries a code, a human-readable message, and an optional
// wrapped cause.
type DomainError struct {
	Code    Code
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New constructs a coded domain error.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &DomainError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is an alias for HasCode; it reads naturally in tests.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// GetCode extracts the outermost code, defaulting to CodeInternal for
// uncoded errors.
func GetCode(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
