package snapshot

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"

	"btocore/internal/application"
	"btocore/internal/assignment"
	"btocore/internal/booking"
	"btocore/internal/enquiry"
	"btocore/internal/party"
	"btocore/internal/platform/metrics"
	"btocore/internal/project"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
)

// Source bundles one reader per interchange file. Nil readers are skipped.
type Source struct {
	Applicants    io.Reader
	Officers      io.Reader
	Managers      io.Reader
	Projects      io.Reader
	Applications  io.Reader
	Registrations io.Reader
	Bookings      io.Reader
	Receipts      io.Reader
	Enquiries     io.Reader
}

// Summary counts accepted and rejected rows per entity kind.
type Summary struct {
	Loaded   map[string]int
	Rejected map[string]int
}

func newSummary() *Summary {
	return &Summary{Loaded: make(map[string]int), Rejected: make(map[string]int)}
}

// Loader rebuilds store state from interchange CSVs. It writes to the stores
// directly: rows describe already-validated history, so lifecycle services
// are bypassed, but referential checks still apply and rows that fail them
// are rejected individually rather than aborting the load.
type Loader struct {
	persons   party.Store
	projects  project.Store
	apps      application.Store
	regs      assignment.Store
	bookings  booking.Store
	enquiries enquiry.Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type LoaderOption func(l *Loader)

func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

func WithLoaderMetrics(m *metrics.Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// NewLoader constructs a Loader over the six entity stores.
func NewLoader(persons party.Store, projects project.Store, apps application.Store, regs assignment.Store, bookings booking.Store, enquiries enquiry.Store, opts ...LoaderOption) *Loader {
	l := &Loader{persons: persons, projects: projects, apps: apps, regs: regs, bookings: bookings, enquiries: enquiries}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load ingests every present file in dependency order: people before
// projects, projects before applications, applications before bookings,
// bookings before receipts. After all rows land, flat-type totals are
// reconstructed from live bookings so the unit invariant holds.
func (l *Loader) Load(ctx context.Context, src Source) (*Summary, error) {
	sum := newSummary()

	if err := l.loadPersons(ctx, src.Applicants, "applicant", sum, party.RoleApplicant); err != nil {
		return sum, err
	}
	if err := l.loadPersons(ctx, src.Officers, "officer", sum, party.RoleOfficer, party.RoleApplicant); err != nil {
		return sum, err
	}
	if err := l.loadPersons(ctx, src.Managers, "manager", sum, party.RoleManager); err != nil {
		return sum, err
	}
	if err := l.loadProjects(ctx, src.Projects, sum); err != nil {
		return sum, err
	}
	if err := l.loadApplications(ctx, src.Applications, sum); err != nil {
		return sum, err
	}
	if err := l.loadRegistrations(ctx, src.Registrations, sum); err != nil {
		return sum, err
	}
	if err := l.loadBookings(ctx, src.Bookings, sum); err != nil {
		return sum, err
	}
	if err := l.loadReceipts(ctx, src.Receipts, sum); err != nil {
		return sum, err
	}
	if err := l.loadEnquiries(ctx, src.Enquiries, sum); err != nil {
		return sum, err
	}
	if err := l.reconcileTotals(ctx); err != nil {
		return sum, err
	}
	return sum, nil
}

// forEachRow streams the data rows of one CSV, skipping the header.
func forEachRow(r io.Reader, fn func(rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "malformed csv")
		}
		if header {
			header = false
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

func (l *Loader) reject(entity string, sum *Summary, err error) {
	sum.Rejected[entity]++
	if l.logger != nil {
		l.logger.Warn("snapshot row rejected", "entity", entity, "error", err)
	}
	if l.metrics != nil {
		l.metrics.SnapshotRecordsRejected.WithLabelValues(entity).Inc()
	}
}

func (l *Loader) accept(entity string, sum *Summary) {
	sum.Loaded[entity]++
	if l.metrics != nil {
		l.metrics.SnapshotRecordsLoaded.WithLabelValues(entity).Inc()
	}
}

func (l *Loader) loadPersons(ctx context.Context, r io.Reader, entity string, sum *Summary, roles ...party.Role) error {
	if r == nil {
		return nil
	}
	return forEachRow(r, func(rec []string) error {
		row, err := decodePersonRow(rec)
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		p, err := party.NewPerson(row.NRIC, row.Name, row.Age, row.Marital, row.PasswordHash)
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		if err := l.persons.Create(ctx, p); err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		for _, role := range roles {
			if err := l.persons.GrantRole(ctx, p.NRIC, role); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant role")
			}
		}
		l.accept(entity, sum)
		return nil
	})
}

func (l *Loader) loadProjects(ctx context.Context, r io.Reader, sum *Summary) error {
	if r == nil {
		return nil
	}
	const entity = "project"
	return forEachRow(r, func(rec []string) error {
		row, err := decodeProjectRow(rec)
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}

		manager, err := l.persons.FindByName(ctx, row.ManagerName)
		if err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "manager not found: "+row.ManagerName))
			return nil
		}
		officers := make([]domain.NRIC, 0, len(row.OfficerNames))
		for _, name := range row.OfficerNames {
			officer, err := l.persons.FindByName(ctx, name)
			if err != nil {
				l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "officer not found: "+name))
				return nil
			}
			if _, err := l.persons.Officer(ctx, officer.NRIC); err != nil {
				l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, name+" does not hold the officer role"))
				return nil
			}
			officers = append(officers, officer.NRIC)
		}

		p, err := project.NewProject(row.Name, row.Neighborhood, row.OpensAt, row.ClosesAt, manager.NRIC, row.OfficerSlots, row.FlatTypes)
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		if len(officers) > p.OfficerSlots {
			l.reject(entity, sum, dErrors.New(dErrors.CodeCapacityExceeded, "more officers than slots"))
			return nil
		}
		p.AssignedOfficers = officers

		if err := l.projects.CreateIfNoPeriodOverlap(ctx, p); err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		for _, nric := range officers {
			if _, err := l.persons.ExecuteOfficer(ctx, nric, nil, func(o *party.OfficerRole) {
				o.AssignedProject = p.Name
			}); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record officer assignment")
			}
		}
		l.accept(entity, sum)
		return nil
	})
}

func (l *Loader) loadApplications(ctx context.Context, r io.Reader, sum *Summary) error {
	if r == nil {
		return nil
	}
	const entity = "application"
	return forEachRow(r, func(rec []string) error {
		row, err := decodeApplicationRow(rec)
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		applicant, err := l.persons.FindByName(ctx, row.ApplicantName)
		if err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "applicant not found: "+row.ApplicantName))
			return nil
		}
		if _, err := l.projects.FindByName(ctx, row.ProjectName); err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "project not found: "+row.ProjectName))
			return nil
		}
		app := &application.Application{
			ID:            row.ID,
			ApplicantNRIC: applicant.NRIC,
			ProjectName:   row.ProjectName,
			FlatType:      row.FlatType,
			SubmittedAt:   row.Date,
			Status:        row.Status,
			Withdrawal:    row.Withdrawal,
		}
		if err := l.apps.CreateIfNoActive(ctx, app); err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		l.accept(entity, sum)
		return nil
	})
}

func (l *Loader) loadRegistrations(ctx context.Context, r io.Reader, sum *Summary) error {
	if r == nil {
		return nil
	}
	const entity = "registration"
	return forEachRow(r, func(rec []string) error {
		row, err := decodeRegistrationRow(rec)
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		officer, err := l.persons.FindByName(ctx, row.OfficerName)
		if err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "officer not found: "+row.OfficerName))
			return nil
		}
		if _, err := l.projects.FindByName(ctx, row.ProjectName); err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "project not found: "+row.ProjectName))
			return nil
		}
		reg := &assignment.Registration{
			ID:          row.ID,
			OfficerNRIC: officer.NRIC,
			ProjectName: row.ProjectName,
			SubmittedAt: row.Date,
			Status:      row.Status,
		}
		if err := l.regs.CreateIfNonePending(ctx, reg); err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		l.accept(entity, sum)
		return nil
	})
}

func (l *Loader) loadBookings(ctx context.Context, r io.Reader, sum *Summary) error {
	if r == nil {
		return nil
	}
	const entity = "booking"
	return forEachRow(r, func(rec []string) error {
		row, err := decodeBookingRow(rec)
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		app, err := l.apps.FindByID(ctx, row.ApplicationID)
		if err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "application not found: "+row.ApplicationID))
			return nil
		}
		officer, err := l.persons.FindByName(ctx, row.OfficerName)
		if err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "officer not found: "+row.OfficerName))
			return nil
		}
		b := &booking.Booking{
			ID:            row.ID,
			ApplicationID: app.ID,
			OfficerNRIC:   officer.NRIC,
			ProjectName:   app.ProjectName,
			FlatType:      row.FlatType,
			Date:          row.Date,
			Status:        row.Status,
			// Cancelled bookings have already given their unit back.
			UnitReleased: row.Status == domain.BookingCancelled,
		}
		if err := l.bookings.CreateIfNoneLive(ctx, b); err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		l.accept(entity, sum)
		return nil
	})
}

func (l *Loader) loadReceipts(ctx context.Context, r io.Reader, sum *Summary) error {
	if r == nil {
		return nil
	}
	const entity = "receipt"
	return forEachRow(r, func(rec []string) error {
		row, err := decodeReceiptRow(rec)
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		b, err := l.bookings.FindLiveByApplication(ctx, row.ApplicationID)
		if err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "no live booking for application "+row.ApplicationID))
			return nil
		}
		receipt := &booking.Receipt{
			Number:        row.Number,
			Date:          row.Date,
			ApplicationID: row.ApplicationID,
			BookingID:     b.ID,
		}
		_, created, err := l.bookings.GetOrCreateReceipt(ctx, b.ID, func() *booking.Receipt { return receipt })
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		if !created {
			l.reject(entity, sum, dErrors.New(dErrors.CodeDuplicate, "booking already has a receipt"))
			return nil
		}
		l.accept(entity, sum)
		return nil
	})
}

func (l *Loader) loadEnquiries(ctx context.Context, r io.Reader, sum *Summary) error {
	if r == nil {
		return nil
	}
	const entity = "enquiry"
	return forEachRow(r, func(rec []string) error {
		row, err := decodeEnquiryRow(rec)
		if err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		submitter, err := l.persons.FindByName(ctx, row.SubmitterName)
		if err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "submitter not found: "+row.SubmitterName))
			return nil
		}
		if _, err := l.projects.FindByName(ctx, row.ProjectName); err != nil {
			l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "project not found: "+row.ProjectName))
			return nil
		}
		e := &enquiry.Enquiry{
			ID:            row.ID,
			SubmitterNRIC: submitter.NRIC,
			ProjectName:   row.ProjectName,
			Content:       row.Content,
			SubmittedAt:   row.Date,
			Status:        row.Status,
			Reply:         row.Reply,
			RepliedAt:     row.ReplyDate,
		}
		if row.RespondentName != "" {
			respondent, err := l.persons.FindByName(ctx, row.RespondentName)
			if err != nil {
				l.reject(entity, sum, dErrors.New(dErrors.CodeNotFound, "respondent not found: "+row.RespondentName))
				return nil
			}
			e.RespondentNRIC = respondent.NRIC
		}
		if err := l.enquiries.Create(ctx, e); err != nil {
			l.reject(entity, sum, err)
			return nil
		}
		l.accept(entity, sum)
		return nil
	})
}

// reconcileTotals rebuilds TotalUnits from the available counts in the
// project file plus the units held by live bookings, so reserve/release
// arithmetic resumes from a consistent baseline.
func (l *Loader) reconcileTotals(ctx context.Context) error {
	bookings, err := l.bookings.List(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bookings")
	}
	type key struct {
		projectName string
		kind        domain.FlatTypeKind
	}
	held := make(map[key]int)
	for _, b := range bookings {
		if b.IsLive() {
			held[key{b.ProjectName, b.FlatType}]++
		}
	}
	if len(held) == 0 {
		return nil
	}

	projects, err := l.projects.List(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	for _, p := range projects {
		name := p.Name
		if _, err := l.projects.Execute(ctx, name, nil, func(p *project.Project) {
			for i := range p.FlatTypes {
				p.FlatTypes[i].TotalUnits = p.FlatTypes[i].AvailableUnits + held[key{name, p.FlatTypes[i].Kind}]
			}
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reconcile unit totals")
		}
	}
	return nil
}
