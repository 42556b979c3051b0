package audit

import (
	"time"

	"btocore/pkg/domain"
)

// Event is emitted from lifecycle services to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Actor     domain.NRIC
	Action    string
	Subject   string
	Project   string
	Reason    string
	RequestID string
}

// Actions emitted by the lifecycle services.
const (
	ActionApplicationSubmitted = "application.submitted"
	ActionApplicationDecided   = "application.decided"
	ActionWithdrawalRequested  = "application.withdrawal_requested"
	ActionWithdrawalResolved   = "application.withdrawal_resolved"
	ActionOfficerRegistered    = "assignment.submitted"
	ActionOfficerDecided       = "assignment.decided"
	ActionBookingProcessed     = "booking.processed"
	ActionBookingConfirmed     = "booking.confirmed"
	ActionBookingCancelled     = "booking.cancelled"
	ActionReceiptGenerated     = "booking.receipt_generated"
	ActionEnquirySubmitted     = "enquiry.submitted"
	ActionEnquiryEdited        = "enquiry.edited"
	ActionEnquiryDeleted       = "enquiry.deleted"
	ActionEnquiryReplied       = "enquiry.replied"
	ActionProjectCreated       = "project.created"
	ActionProjectVisibilitySet = "project.visibility_set"
	ActionPersonRegistered     = "party.registered"
	ActionPasswordChanged      = "party.password_changed"
	ActionSavedFilterUpdated   = "party.filter_saved"
	ActionSnapshotLoaded       = "snapshot.loaded"
)
