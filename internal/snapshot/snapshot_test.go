package snapshot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"btocore/internal/application"
	"btocore/internal/assignment"
	"btocore/internal/booking"
	"btocore/internal/enquiry"
	"btocore/internal/party"
	"btocore/internal/project"
	"btocore/pkg/domain"
)

// =============================================================================
// Snapshot Test Suite
// =============================================================================
// Justification for unit tests: the interchange format re-resolves every
// cross-reference by name at load time and rebuilds unit totals from live
// bookings; both behaviors only surface with a populated relational state.

type stores struct {
	persons   *party.InMemory
	projects  *project.InMemory
	apps      *application.InMemory
	regs      *assignment.InMemory
	bookings  *booking.InMemory
	enquiries *enquiry.InMemory
}

func newStores() *stores {
	return &stores{
		persons:   party.NewInMemory(),
		projects:  project.NewInMemory(),
		apps:      application.NewInMemory(),
		regs:      assignment.NewInMemory(),
		bookings:  booking.NewInMemory(),
		enquiries: enquiry.NewInMemory(),
	}
}

func (st *stores) loader() *Loader {
	return NewLoader(st.persons, st.projects, st.apps, st.regs, st.bookings, st.enquiries)
}

func (st *stores) saver() *Saver {
	return NewSaver(st.persons, st.projects, st.apps, st.regs, st.bookings, st.enquiries)
}

type SnapshotSuite struct {
	suite.Suite
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotSuite))
}

func fullSource() Source {
	return Source{
		Applicants: strings.NewReader(
			"Name,NRIC,Age,MaritalStatus,Password\n" +
				"John,S1000001A,36,SINGLE,hash-john\n"),
		Officers: strings.NewReader(
			"Name,NRIC,Age,MaritalStatus,Password\n" +
				"Daniel,S2000002B,30,MARRIED,hash-daniel\n"),
		Managers: strings.NewReader(
			"Name,NRIC,Age,MaritalStatus,Password\n" +
				"Michael,T3000003C,36,SINGLE,hash-michael\n"),
		Projects: strings.NewReader(
			"Name,Neighborhood,FlatType1,Units1,Price1,FlatType2,Units2,Price2,StartDate,EndDate,ManagerName,OfficerSlots,OfficerNames\n" +
				"Acacia Breeze,Yishun,TWO_ROOM,1,350000,THREE_ROOM,3,450000,2026-02-01,2026-03-20,Michael,3,Daniel\n"),
		Applications: strings.NewReader(
			"ID,Date,ApplicantName,ProjectName,FlatType,Status,WithdrawalStatus\n" +
				"app-1,2026-02-10,John,Acacia Breeze,TWO_ROOM,BOOKED,NA\n"),
		Registrations: strings.NewReader(
			"ID,Date,OfficerName,ProjectName,Status\n" +
				"reg-1,2026-02-05,Daniel,Acacia Breeze,APPROVED\n"),
		Bookings: strings.NewReader(
			"ID,Date,ApplicationID,OfficerName,FlatType,Status\n" +
				"bk-1,2026-02-15,app-1,Daniel,TWO_ROOM,CONFIRMED\n"),
		Receipts: strings.NewReader(
			"Number,Date,ApplicationID\n" +
				"rc-1,2026-02-16,app-1\n"),
		Enquiries: strings.NewReader(
			"ID,Date,Content,Reply,ReplyDate,SubmitterName,ProjectName,Status,RespondentName\n" +
				"enq-1,2026-02-12,When is key collection?,January 2027.,2026-02-14,John,Acacia Breeze,REPLIED,Daniel\n"),
	}
}

// =============================================================================
// Load Tests
// =============================================================================

func (s *SnapshotSuite) TestLoad() {
	ctx := context.Background()
	st := newStores()

	sum, err := st.loader().Load(ctx, fullSource())
	s.Require().NoError(err)
	for _, entity := range []string{"applicant", "officer", "manager", "project", "application", "registration", "booking", "receipt", "enquiry"} {
		s.Equal(1, sum.Loaded[entity], entity)
	}
	s.Empty(sum.Rejected)

	s.Run("names resolve to nric references", func() {
		app, err := st.apps.FindByID(ctx, "app-1")
		s.NoError(err)
		s.Equal(domain.NRIC("S1000001A"), app.ApplicantNRIC)
		s.Equal(domain.ApplicationBooked, app.Status)

		p, err := st.projects.FindByName(ctx, "Acacia Breeze")
		s.NoError(err)
		s.Equal(domain.NRIC("T3000003C"), p.ManagerNRIC)
		s.True(p.HasOfficer("S2000002B"))

		officer, err := st.persons.Officer(ctx, "S2000002B")
		s.NoError(err)
		s.Equal("Acacia Breeze", officer.AssignedProject)
	})

	s.Run("unit totals rebuilt from live bookings", func() {
		p, err := st.projects.FindByName(ctx, "Acacia Breeze")
		s.Require().NoError(err)

		twoRoom := p.FlatTypeItem(domain.FlatTwoRoom)
		s.Equal(1, twoRoom.AvailableUnits)
		s.Equal(2, twoRoom.TotalUnits)

		threeRoom := p.FlatTypeItem(domain.FlatThreeRoom)
		s.Equal(3, threeRoom.AvailableUnits)
		s.Equal(3, threeRoom.TotalUnits)
	})

	s.Run("receipt binds to the live booking", func() {
		r, err := st.bookings.FindReceiptByBooking(ctx, "bk-1")
		s.NoError(err)
		s.Equal("rc-1", r.Number)
		s.Equal("app-1", r.ApplicationID)
	})

	s.Run("password hashes survive verbatim", func() {
		p, err := st.persons.FindByNRIC(ctx, "S1000001A")
		s.NoError(err)
		s.Equal("hash-john", p.PasswordHash)
	})
}

func (s *SnapshotSuite) TestLoadRejectsBadRows() {
	ctx := context.Background()
	st := newStores()

	src := Source{
		Applicants: strings.NewReader(
			"Name,NRIC,Age,MaritalStatus,Password\n" +
				"Good,S1000001A,36,SINGLE,hash\n" +
				"BadNric,X12,36,SINGLE,hash\n" +
				"BadAge,S5000005E,old,SINGLE,hash\n"),
		Applications: strings.NewReader(
			"ID,Date,ApplicantName,ProjectName,FlatType,Status,WithdrawalStatus\n" +
				"app-1,2026-02-10,Nobody,Acacia Breeze,TWO_ROOM,PENDING,NA\n"),
	}
	sum, err := st.loader().Load(ctx, src)
	s.Require().NoError(err)

	s.Equal(1, sum.Loaded["applicant"])
	s.Equal(2, sum.Rejected["applicant"])
	s.Equal(0, sum.Loaded["application"])
	s.Equal(1, sum.Rejected["application"])

	persons, err := st.persons.List(ctx)
	s.NoError(err)
	s.Len(persons, 1)
}

// =============================================================================
// Round-Trip Tests
// =============================================================================

func (s *SnapshotSuite) TestRoundTrip() {
	ctx := context.Background()
	st := newStores()
	_, err := st.loader().Load(ctx, fullSource())
	s.Require().NoError(err)

	var applicants, officers, managers, projects, apps, regs, bookings, receipts, enquiries bytes.Buffer
	sink := Sink{
		Applicants:    &applicants,
		Officers:      &officers,
		Managers:      &managers,
		Projects:      &projects,
		Applications:  &apps,
		Registrations: &regs,
		Bookings:      &bookings,
		Receipts:      &receipts,
		Enquiries:     &enquiries,
	}
	s.Require().NoError(st.saver().SaveAll(ctx, sink))

	s.Run("role files stay disjoint", func() {
		s.Contains(applicants.String(), "John")
		s.NotContains(applicants.String(), "Daniel")
		s.Contains(officers.String(), "Daniel")
		s.Contains(managers.String(), "Michael")
	})

	s.Run("project row writes available units and officer names", func() {
		s.Contains(projects.String(), "Acacia Breeze,Yishun,TWO_ROOM,1,350000,THREE_ROOM,3,450000,2026-02-01,2026-03-20,Michael,3,Daniel")
	})

	s.Run("reloading the saved files reproduces the state", func() {
		st2 := newStores()
		sum, err := st2.loader().Load(ctx, Source{
			Applicants:    bytes.NewReader(applicants.Bytes()),
			Officers:      bytes.NewReader(officers.Bytes()),
			Managers:      bytes.NewReader(managers.Bytes()),
			Projects:      bytes.NewReader(projects.Bytes()),
			Applications:  bytes.NewReader(apps.Bytes()),
			Registrations: bytes.NewReader(regs.Bytes()),
			Bookings:      bytes.NewReader(bookings.Bytes()),
			Receipts:      bytes.NewReader(receipts.Bytes()),
			Enquiries:     bytes.NewReader(enquiries.Bytes()),
		})
		s.Require().NoError(err)
		s.Empty(sum.Rejected)

		p, err := st2.projects.FindByName(ctx, "Acacia Breeze")
		s.Require().NoError(err)
		s.Equal(1, p.FlatTypeItem(domain.FlatTwoRoom).AvailableUnits)
		s.Equal(2, p.FlatTypeItem(domain.FlatTwoRoom).TotalUnits)

		e, err := st2.enquiries.FindByID(ctx, "enq-1")
		s.NoError(err)
		s.Equal(domain.EnquiryReplied, e.Status)
		s.Equal(domain.NRIC("S2000002B"), e.RespondentNRIC)
	})
}
