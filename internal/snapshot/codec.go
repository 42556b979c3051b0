package snapshot

import (
	"strconv"
	"strings"
	"time"

	"btocore/internal/application"
	"btocore/internal/assignment"
	"btocore/internal/booking"
	"btocore/internal/enquiry"
	"btocore/internal/party"
	"btocore/internal/project"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// Interchange file names, one CSV per entity kind.
const (
	FileApplicants    = "ApplicantList.csv"
	FileOfficers      = "OfficerList.csv"
	FileManagers      = "ManagerList.csv"
	FileProjects      = "ProjectList.csv"
	FileApplications  = "ApplicationList.csv"
	FileRegistrations = "OfficerApplicationList.csv"
	FileBookings      = "BookingList.csv"
	FileReceipts      = "ReceiptList.csv"
	FileEnquiries     = "EnquiryList.csv"
)

// Column orders are fixed; every encoder writes them as a header row and
// every decoder expects them after the header.
var (
	personColumns       = []string{"Name", "NRIC", "Age", "MaritalStatus", "Password"}
	projectColumns      = []string{"Name", "Neighborhood", "FlatType1", "Units1", "Price1", "FlatType2", "Units2", "Price2", "StartDate", "EndDate", "ManagerName", "OfficerSlots", "OfficerNames"}
	applicationColumns  = []string{"ID", "Date", "ApplicantName", "ProjectName", "FlatType", "Status", "WithdrawalStatus"}
	registrationColumns = []string{"ID", "Date", "OfficerName", "ProjectName", "Status"}
	bookingColumns      = []string{"ID", "Date", "ApplicationID", "OfficerName", "FlatType", "Status"}
	receiptColumns      = []string{"Number", "Date", "ApplicationID"}
	enquiryColumns      = []string{"ID", "Date", "Content", "Reply", "ReplyDate", "SubmitterName", "ProjectName", "Status", "RespondentName"}
)

// personRow is the decoded form of one applicant/officer/manager record.
// Password carries the stored credential hash verbatim.
type personRow struct {
	Name         string
	NRIC         domain.NRIC
	Age          int
	Marital      domain.MaritalStatus
	PasswordHash string
}

func decodePersonRow(rec []string) (*personRow, error) {
	if len(rec) != len(personColumns) {
		return nil, dErrors.New(dErrors.CodeValidation, "person row needs "+strconv.Itoa(len(personColumns))+" fields")
	}
	nric, err := domain.ParseNRIC(rec[1])
	if err != nil {
		return nil, err
	}
	age, err := strconv.Atoi(rec[2])
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid age: "+rec[2])
	}
	marital, err := domain.ParseMaritalStatus(rec[3])
	if err != nil {
		return nil, err
	}
	return &personRow{Name: rec[0], NRIC: nric, Age: age, Marital: marital, PasswordHash: rec[4]}, nil
}

func encodePersonRow(p *party.Person) []string {
	return []string{p.Name, p.NRIC.String(), strconv.Itoa(p.Age), p.MaritalStatus.String(), p.PasswordHash}
}

// projectRow is the decoded form of one project record. Units columns carry
// available counts; totals are reconstructed from live bookings after load.
type projectRow struct {
	Name         string
	Neighborhood string
	FlatTypes    []project.FlatType
	OpensAt      time.Time
	ClosesAt     time.Time
	ManagerName  string
	OfficerSlots int
	OfficerNames []string
}

func decodeProjectRow(rec []string) (*projectRow, error) {
	if len(rec) != len(projectColumns) {
		return nil, dErrors.New(dErrors.CodeValidation, "project row needs "+strconv.Itoa(len(projectColumns))+" fields")
	}
	row := &projectRow{Name: rec[0], Neighborhood: rec[1], ManagerName: rec[10]}

	for _, cols := range [][3]string{{rec[2], rec[3], rec[4]}, {rec[5], rec[6], rec[7]}} {
		if cols[0] == "" {
			continue
		}
		kind, err := domain.ParseFlatTypeKind(cols[0])
		if err != nil {
			return nil, err
		}
		units, err := strconv.Atoi(cols[1])
		if err != nil || units < 0 {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid unit count: "+cols[1])
		}
		price, err := strconv.ParseFloat(cols[2], 64)
		if err != nil || price < 0 {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid selling price: "+cols[2])
		}
		row.FlatTypes = append(row.FlatTypes, project.FlatType{
			Kind:           kind,
			TotalUnits:     units,
			AvailableUnits: units,
			SellingPrice:   price,
		})
	}

	var err error
	if row.OpensAt, err = domain.ParseDate(rec[8]); err != nil {
		return nil, err
	}
	if row.ClosesAt, err = domain.ParseDate(rec[9]); err != nil {
		return nil, err
	}
	if row.OfficerSlots, err = strconv.Atoi(rec[11]); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid officer slots: "+rec[11])
	}
	for _, name := range strings.Split(rec[12], ",") {
		if name = strings.TrimSpace(name); name != "" {
			row.OfficerNames = append(row.OfficerNames, name)
		}
	}
	return row, nil
}

func encodeProjectRow(p *project.Project, managerName string, officerNames []string) []string {
	rec := []string{p.Name, p.Neighborhood}
	for i := 0; i < 2; i++ {
		if i < len(p.FlatTypes) {
			ft := p.FlatTypes[i]
			rec = append(rec, ft.Kind.String(), strconv.Itoa(ft.AvailableUnits), strconv.FormatFloat(ft.SellingPrice, 'f', -1, 64))
		} else {
			rec = append(rec, "", "", "")
		}
	}
	rec = append(rec,
		domain.FormatDate(p.OpensAt), domain.FormatDate(p.ClosesAt),
		managerName, strconv.Itoa(p.OfficerSlots), strings.Join(officerNames, ","))
	return rec
}

type applicationRow struct {
	ID            string
	Date          time.Time
	ApplicantName string
	ProjectName   string
	FlatType      domain.FlatTypeKind
	Status        domain.ApplicationStatus
	Withdrawal    domain.WithdrawalStatus
}

func decodeApplicationRow(rec []string) (*applicationRow, error) {
	if len(rec) != len(applicationColumns) {
		return nil, dErrors.New(dErrors.CodeValidation, "application row needs "+strconv.Itoa(len(applicationColumns))+" fields")
	}
	row := &applicationRow{ID: rec[0], ApplicantName: rec[2], ProjectName: rec[3]}
	var err error
	if row.Date, err = domain.ParseDate(rec[1]); err != nil {
		return nil, err
	}
	if row.FlatType, err = domain.ParseFlatTypeKind(rec[4]); err != nil {
		return nil, err
	}
	if row.Status, err = domain.ParseApplicationStatus(rec[5]); err != nil {
		return nil, err
	}
	if row.Withdrawal, err = domain.ParseWithdrawalStatus(rec[6]); err != nil {
		return nil, err
	}
	return row, nil
}

func encodeApplicationRow(a *application.Application, applicantName string) []string {
	return []string{
		a.ID, domain.FormatDate(a.SubmittedAt), applicantName, a.ProjectName,
		a.FlatType.String(), a.Status.String(), a.Withdrawal.String(),
	}
}

type registrationRow struct {
	ID          string
	Date        time.Time
	OfficerName string
	ProjectName string
	Status      domain.OfficerApplicationStatus
}

func decodeRegistrationRow(rec []string) (*registrationRow, error) {
	if len(rec) != len(registrationColumns) {
		return nil, dErrors.New(dErrors.CodeValidation, "officer application row needs "+strconv.Itoa(len(registrationColumns))+" fields")
	}
	row := &registrationRow{ID: rec[0], OfficerName: rec[2], ProjectName: rec[3]}
	var err error
	if row.Date, err = domain.ParseDate(rec[1]); err != nil {
		return nil, err
	}
	if row.Status, err = domain.ParseOfficerApplicationStatus(rec[4]); err != nil {
		return nil, err
	}
	return row, nil
}

func encodeRegistrationRow(r *assignment.Registration, officerName string) []string {
	return []string{r.ID, domain.FormatDate(r.SubmittedAt), officerName, r.ProjectName, r.Status.String()}
}

type bookingRow struct {
	ID            string
	Date          time.Time
	ApplicationID string
	OfficerName   string
	FlatType      domain.FlatTypeKind
	Status        domain.BookingStatus
}

func decodeBookingRow(rec []string) (*bookingRow, error) {
	if len(rec) != len(bookingColumns) {
		return nil, dErrors.New(dErrors.CodeValidation, "booking row needs "+strconv.Itoa(len(bookingColumns))+" fields")
	}
	row := &bookingRow{ID: rec[0], ApplicationID: rec[2], OfficerName: rec[3]}
	var err error
	if row.Date, err = domain.ParseDate(rec[1]); err != nil {
		return nil, err
	}
	if row.FlatType, err = domain.ParseFlatTypeKind(rec[4]); err != nil {
		return nil, err
	}
	if row.Status, err = domain.ParseBookingStatus(rec[5]); err != nil {
		return nil, err
	}
	return row, nil
}

func encodeBookingRow(b *booking.Booking, officerName string) []string {
	return []string{
		b.ID, domain.FormatDate(b.Date), b.ApplicationID, officerName,
		b.FlatType.String(), b.Status.String(),
	}
}

type receiptRow struct {
	Number        string
	Date          time.Time
	ApplicationID string
}

func decodeReceiptRow(rec []string) (*receiptRow, error) {
	if len(rec) != len(receiptColumns) {
		return nil, dErrors.New(dErrors.CodeValidation, "receipt row needs "+strconv.Itoa(len(receiptColumns))+" fields")
	}
	row := &receiptRow{Number: rec[0], ApplicationID: rec[2]}
	var err error
	if row.Date, err = domain.ParseDate(rec[1]); err != nil {
		return nil, err
	}
	return row, nil
}

func encodeReceiptRow(r *booking.Receipt) []string {
	return []string{r.Number, domain.FormatDate(r.Date), r.ApplicationID}
}

type enquiryRow struct {
	ID             string
	Date           time.Time
	Content        string
	Reply          string
	ReplyDate      time.Time
	SubmitterName  string
	ProjectName    string
	Status         domain.EnquiryStatus
	RespondentName string
}

func decodeEnquiryRow(rec []string) (*enquiryRow, error) {
	if len(rec) != len(enquiryColumns) {
		return nil, dErrors.New(dErrors.CodeValidation, "enquiry row needs "+strconv.Itoa(len(enquiryColumns))+" fields")
	}
	row := &enquiryRow{
		ID: rec[0], Content: rec[2], Reply: rec[3],
		SubmitterName: rec[5], ProjectName: rec[6], RespondentName: rec[8],
	}
	var err error
	if row.Date, err = domain.ParseDate(rec[1]); err != nil {
		return nil, err
	}
	if rec[4] != "" {
		if row.ReplyDate, err = domain.ParseDate(rec[4]); err != nil {
			return nil, err
		}
	}
	if row.Status, err = domain.ParseEnquiryStatus(rec[7]); err != nil {
		return nil, err
	}
	return row, nil
}

func encodeEnquiryRow(e *enquiry.Enquiry, submitterName, respondentName string) []string {
	replyDate := ""
	if !e.RepliedAt.IsZero() {
		replyDate = domain.FormatDate(e.RepliedAt)
	}
	return []string{
		e.ID, domain.FormatDate(e.SubmittedAt), e.Content, e.Reply, replyDate,
		submitterName, e.ProjectName, e.Status.String(), respondentName,
	}
}
