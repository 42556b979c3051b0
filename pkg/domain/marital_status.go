package domain

import dErrors "btocore/pkg/domain-errors"

// MaritalStatus feeds the eligibility table together with age.
type MaritalStatus string

const (
	MaritalSingle  MaritalStatus = "SINGLE"
	MaritalMarried MaritalStatus = "MARRIED"
)

var validMaritalStatuses = map[MaritalStatus]bool{
	MaritalSingle:  true,
	MaritalMarried: true,
}

// ParseMaritalStatus constructs a MaritalStatus from external input.
func ParseMaritalStatus(s string) (MaritalStatus, error) {
	m := MaritalStatus(s)
	if !validMaritalStatuses[m] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid marital status: "+s)
	}
	return m, nil
}

func (m MaritalStatus) IsValid() bool {
	return validMaritalStatuses[m]
}

func (m MaritalStatus) String() string {
	return string(m)
}
