package domain

import dErrors "btocore/pkg/domain-errors"

// EnquiryStatus tracks an applicant enquiry. PENDING -> REPLIED; replied
// enquiries are immutable.
type EnquiryStatus string

const (
	EnquiryPending EnquiryStatus = "PENDING"
	EnquiryReplied EnquiryStatus = "REPLIED"
)

var validEnquiryStatuses = map[EnquiryStatus]bool{
	EnquiryPending: true,
	EnquiryReplied: true,
}

// ParseEnquiryStatus constructs an EnquiryStatus from external input.
func ParseEnquiryStatus(s string) (EnquiryStatus, error) {
	e := EnquiryStatus(s)
	if !validEnquiryStatuses[e] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid enquiry status: "+s)
	}
	return e, nil
}

func (e EnquiryStatus) IsValid() bool {
	return validEnquiryStatuses[e]
}

func (e EnquiryStatus) String() string {
	return string(e)
}
