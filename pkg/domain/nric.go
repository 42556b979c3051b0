// Package domain holds the value types shared across the engine: the NRIC
// identity key, the marital status and flat type enums, and the status enums
// for every lifecycle. Constructing values through the Parse functions at
// trust boundaries enforces the allowlists; direct casting bypasses
// validation.
package domain

import (
	dErrors "btocore/pkg/domain-errors"
)

// NRIC is the stable identity key for every person in the system.
// Invariant: nine characters, prefix S or T, seven digits, uppercase
// checksum letter.
type NRIC string

// ParseNRIC constructs an NRIC from external input (CSV rows, registration).
//
// Errors: returns CodeValidation when the format is wrong; no other errors
// are expected.
func ParseNRIC(s string) (NRIC, error) {
	if len(s) != 9 {
		return "", dErrors.New(dErrors.CodeValidation, "nric must be 9 characters")
	}
	if s[0] != 'S' && s[0] != 'T' {
		return "", dErrors.New(dErrors.CodeValidation, "nric must start with S or T")
	}
	for i := 1; i <= 7; i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", dErrors.New(dErrors.CodeValidation, "nric digits 2-8 must be numeric")
		}
	}
	if s[8] < 'A' || s[8] > 'Z' {
		return "", dErrors.New(dErrors.CodeValidation, "nric must end with an uppercase letter")
	}
	return NRIC(s), nil
}

// IsValid reports whether the NRIC satisfies the format invariant.
func (n NRIC) IsValid() bool {
	_, err := ParseNRIC(string(n))
	return err == nil
}

func (n NRIC) String() string {
	return string(n)
}
