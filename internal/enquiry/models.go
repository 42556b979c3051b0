package enquiry

import (
	"strings"
	"time"

	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// Enquiry is a free-text question an applicant attaches to a project. It is
// editable and deletable by its submitter only while PENDING; a reply from
// project staff freezes it.
type Enquiry struct {
	ID             string
	SubmitterNRIC  domain.NRIC
	ProjectName    string
	Content        string
	SubmittedAt    time.Time
	Status         domain.EnquiryStatus
	Reply          string
	RepliedAt      time.Time
	RespondentNRIC domain.NRIC
}

// NewEnquiry validates the free-text content and builds a PENDING enquiry.
func NewEnquiry(id string, submitter domain.NRIC, projectName, content string, at time.Time) (*Enquiry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "enquiry content must not be empty")
	}
	return &Enquiry{
		ID:            id,
		SubmitterNRIC: submitter,
		ProjectName:   projectName,
		Content:       content,
		SubmittedAt:   at,
		Status:        domain.EnquiryPending,
	}, nil
}

// CanModify checks that the actor owns the enquiry and it has not been
// replied to. Returns nil when edit or delete is allowed.
func (e *Enquiry) CanModify(actor domain.NRIC) error {
	if e.SubmitterNRIC != actor {
		return dErrors.New(dErrors.CodeUnauthorized, "enquiry can only be modified by its submitter")
	}
	if e.Status != domain.EnquiryPending {
		return dErrors.New(dErrors.CodeStateConflict, "replied enquiries cannot be modified")
	}
	return nil
}

// CanReply checks that the enquiry is still awaiting a response.
func (e *Enquiry) CanReply() error {
	if e.Status != domain.EnquiryPending {
		return dErrors.New(dErrors.CodeStateConflict, "enquiry has already been replied to")
	}
	return nil
}

// ApplyReply records the response and moves the enquiry to REPLIED.
func (e *Enquiry) ApplyReply(respondent domain.NRIC, reply string, at time.Time) {
	e.Reply = reply
	e.RepliedAt = at
	e.RespondentNRIC = respondent
	e.Status = domain.EnquiryReplied
}
