// Package eligibility holds the rule table gating BTO applications. This is
// pure domain logic - no I/O, no side effects. No other package re-implements
// the age or marital thresholds.
package eligibility

import "btocore/pkg/domain"

// Age thresholds for the two marital tracks.
const (
	MinAgeMarried = 21
	MinAgeSingle  = 35
)

// IsEligible applies the eligibility table:
//   - MARRIED applicants aged 21 and above may apply for any flat type.
//   - SINGLE applicants aged 35 and above may apply for TWO_ROOM only.
//   - Every other combination is ineligible.
func IsEligible(age int, marital domain.MaritalStatus, flatType domain.FlatTypeKind) bool {
	switch marital {
	case domain.MaritalMarried:
		return age >= MinAgeMarried
	case domain.MaritalSingle:
		return age >= MinAgeSingle && flatType == domain.FlatTwoRoom
	default:
		return false
	}
}

// EligibleFlatTypes lists the flat types open to an applicant, in catalog
// order. An empty slice means the applicant cannot apply at all.
func EligibleFlatTypes(age int, marital domain.MaritalStatus) []domain.FlatTypeKind {
	var out []domain.FlatTypeKind
	for _, ft := range []domain.FlatTypeKind{domain.FlatTwoRoom, domain.FlatThreeRoom} {
		if IsEligible(age, marital, ft) {
			out = append(out, ft)
		}
	}
	return out
}
