package snapshot

import (
	"context"
	"encoding/csv"
	"io"

	"golang.org/x/sync/errgroup"

	"btocore/internal/application"
	"btocore/internal/assignment"
	"btocore/internal/booking"
	"btocore/internal/enquiry"
	"btocore/internal/party"
	"btocore/internal/project"
	dErrors "btocore/pkg/domain-errors"
)

// Sink bundles one writer per interchange file. Nil writers are skipped.
type Sink struct {
	Applicants    io.Writer
	Officers      io.Writer
	Managers      io.Writer
	Projects      io.Writer
	Applications  io.Writer
	Registrations io.Writer
	Bookings      io.Writer
	Receipts      io.Writer
	Enquiries     io.Writer
}

// Saver serializes store state back into the interchange CSVs.
type Saver struct {
	persons   party.Store
	projects  project.Store
	apps      application.Store
	regs      assignment.Store
	bookings  booking.Store
	enquiries enquiry.Store
}

// NewSaver constructs a Saver over the six entity stores.
func NewSaver(persons party.Store, projects project.Store, apps application.Store, regs assignment.Store, bookings booking.Store, enquiries enquiry.Store) *Saver {
	return &Saver{persons: persons, projects: projects, apps: apps, regs: regs, bookings: bookings, enquiries: enquiries}
}

// SaveAll writes every present sink concurrently. The files are independent
// so each gets its own goroutine; the first failure cancels the rest.
func (s *Saver) SaveAll(ctx context.Context, sink Sink) error {
	g, ctx := errgroup.WithContext(ctx)
	run := func(w io.Writer, fn func(context.Context, io.Writer) error) {
		if w == nil {
			return
		}
		g.Go(func() error { return fn(ctx, w) })
	}
	run(sink.Applicants, s.SaveApplicants)
	run(sink.Officers, s.SaveOfficers)
	run(sink.Managers, s.SaveManagers)
	run(sink.Projects, s.SaveProjects)
	run(sink.Applications, s.SaveApplications)
	run(sink.Registrations, s.SaveRegistrations)
	run(sink.Bookings, s.SaveBookings)
	run(sink.Receipts, s.SaveReceipts)
	run(sink.Enquiries, s.SaveEnquiries)
	return g.Wait()
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write csv header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write csv rows")
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to flush csv")
	}
	return nil
}

// savePersonsWithRole writes the people holding role, excluding those also
// holding any of the excluded roles. Officers double as applicants, so the
// applicant file carries only pure applicants to keep the three files
// disjoint.
func (s *Saver) savePersonsWithRole(ctx context.Context, w io.Writer, role party.Role, exclude ...party.Role) error {
	persons, err := s.persons.List(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons")
	}
	var rows [][]string
	for _, p := range persons {
		has, err := s.persons.HasRole(ctx, p.NRIC, role)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check role")
		}
		if !has {
			continue
		}
		skip := false
		for _, ex := range exclude {
			if held, err := s.persons.HasRole(ctx, p.NRIC, ex); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check role")
			} else if held {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		rows = append(rows, encodePersonRow(p))
	}
	return writeAll(w, personColumns, rows)
}

func (s *Saver) SaveApplicants(ctx context.Context, w io.Writer) error {
	return s.savePersonsWithRole(ctx, w, party.RoleApplicant, party.RoleOfficer, party.RoleManager)
}

func (s *Saver) SaveOfficers(ctx context.Context, w io.Writer) error {
	return s.savePersonsWithRole(ctx, w, party.RoleOfficer)
}

func (s *Saver) SaveManagers(ctx context.Context, w io.Writer) error {
	return s.savePersonsWithRole(ctx, w, party.RoleManager)
}

func (s *Saver) SaveProjects(ctx context.Context, w io.Writer) error {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	var rows [][]string
	for _, p := range projects {
		manager, err := s.persons.FindByNRIC(ctx, p.ManagerNRIC)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve manager for "+p.Name)
		}
		officerNames := make([]string, 0, len(p.AssignedOfficers))
		for _, nric := range p.AssignedOfficers {
			officer, err := s.persons.FindByNRIC(ctx, nric)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve officer for "+p.Name)
			}
			officerNames = append(officerNames, officer.Name)
		}
		rows = append(rows, encodeProjectRow(p, manager.Name, officerNames))
	}
	return writeAll(w, projectColumns, rows)
}

func (s *Saver) SaveApplications(ctx context.Context, w io.Writer) error {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	var rows [][]string
	for _, a := range apps {
		applicant, err := s.persons.FindByNRIC(ctx, a.ApplicantNRIC)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve applicant for "+a.ID)
		}
		rows = append(rows, encodeApplicationRow(a, applicant.Name))
	}
	return writeAll(w, applicationColumns, rows)
}

func (s *Saver) SaveRegistrations(ctx context.Context, w io.Writer) error {
	regs, err := s.regs.List(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	var rows [][]string
	for _, r := range regs {
		officer, err := s.persons.FindByNRIC(ctx, r.OfficerNRIC)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve officer for "+r.ID)
		}
		rows = append(rows, encodeRegistrationRow(r, officer.Name))
	}
	return writeAll(w, registrationColumns, rows)
}

func (s *Saver) SaveBookings(ctx context.Context, w io.Writer) error {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bookings")
	}
	var rows [][]string
	for _, b := range bookings {
		officer, err := s.persons.FindByNRIC(ctx, b.OfficerNRIC)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve officer for "+b.ID)
		}
		rows = append(rows, encodeBookingRow(b, officer.Name))
	}
	return writeAll(w, bookingColumns, rows)
}

func (s *Saver) SaveReceipts(ctx context.Context, w io.Writer) error {
	receipts, err := s.bookings.ListReceipts(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list receipts")
	}
	var rows [][]string
	for _, r := range receipts {
		rows = append(rows, encodeReceiptRow(r))
	}
	return writeAll(w, receiptColumns, rows)
}

func (s *Saver) SaveEnquiries(ctx context.Context, w io.Writer) error {
	enquiries, err := s.enquiries.List(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list enquiries")
	}
	var rows [][]string
	for _, e := range enquiries {
		submitter, err := s.persons.FindByNRIC(ctx, e.SubmitterNRIC)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve submitter for "+e.ID)
		}
		respondentName := ""
		if e.RespondentNRIC != "" {
			respondent, err := s.persons.FindByNRIC(ctx, e.RespondentNRIC)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve respondent for "+e.ID)
			}
			respondentName = respondent.Name
		}
		rows = append(rows, encodeEnquiryRow(e, submitter.Name, respondentName))
	}
	return writeAll(w, enquiryColumns, rows)
}
