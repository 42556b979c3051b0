package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"btocore/internal/audit"
	"btocore/internal/eligibility"
	"btocore/internal/party"
	"btocore/internal/platform/metrics"
	"btocore/internal/project"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
	"btocore/pkg/platform/sentinel"
	"btocore/pkg/requestcontext"
)

// PersonDirectory resolves applicants. The party store satisfies it.
type PersonDirectory interface {
	FindByNRIC(ctx context.Context, nric domain.NRIC) (*party.Person, error)
}

// ProjectDirectory resolves projects. The project store satisfies it.
type ProjectDirectory interface {
	FindByName(ctx context.Context, name string) (*project.Project, error)
}

// RegistrationChecker reports whether an officer has an open (pending or
// approved) registration for a project. The assignment store satisfies it;
// it closes the other half of the officer/applicant conflict.
type RegistrationChecker interface {
	HasOpenRegistration(ctx context.Context, officer domain.NRIC, projectName string) (bool, error)
}

// BookingCanceller cancels the booking attached to an application, releasing
// its reserved unit exactly once; an already cancelled booking is a no-op. A
// CodeNotFound error means the application never had a booking record. The
// booking service satisfies it.
type BookingCanceller interface {
	CancelByApplication(ctx context.Context, applicationID string, reason string) error
}

// AuditPublisher is the slice of the audit package the service needs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service drives the BTO application state machine. Every operation is a
// single logical unit of work: validation and mutation happen under the
// store lock, and a failed operation leaves all touched entities unchanged.
type Service struct {
	store         Store
	persons       PersonDirectory
	projects      ProjectDirectory
	alloc         *project.Allocation
	registrations RegistrationChecker
	bookings      BookingCanceller
	logger        *slog.Logger
	auditPub      AuditPublisher
	metrics       *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) { s.auditPub = pub }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithRegistrationChecker(rc RegistrationChecker) Option {
	return func(s *Service) { s.registrations = rc }
}

// NewService constructs a Service.
func NewService(store Store, persons PersonDirectory, projects ProjectDirectory, alloc *project.Allocation, opts ...Option) *Service {
	s := &Service{store: store, persons: persons, projects: projects, alloc: alloc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BindBookingCanceller wires the booking service in after construction; the
// two services reference each other, so one side has to be bound late.
func (s *Service) BindBookingCanceller(c BookingCanceller) {
	s.bookings = c
}

// Submit files a new application.
//
// Fails with CodeStateConflict when the applicant already holds an active
// application, CodeConflict when the applicant is entangled with the project
// as an officer, CodeEligibility when the rule table says no, and
// CodeWindowClosed when the project is hidden or outside its application
// period. No application is created on any failure path.
func (s *Service) Submit(ctx context.Context, applicant domain.NRIC, projectName string, flatType domain.FlatTypeKind) (*Application, error) {
	person, err := s.persons.FindByNRIC(ctx, applicant)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "applicant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applicant")
	}
	if !flatType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid flat type")
	}

	proj, err := s.projects.FindByName(ctx, projectName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found: "+projectName)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}

	if proj.HasOfficer(applicant) {
		return nil, dErrors.New(dErrors.CodeConflict, "applicant administers this project as an officer")
	}
	if s.registrations != nil {
		open, err := s.registrations.HasOpenRegistration(ctx, applicant, proj.Name)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check officer registrations")
		}
		if open {
			return nil, dErrors.New(dErrors.CodeConflict, "applicant has an officer registration for this project")
		}
	}

	if !eligibility.IsEligible(person.Age, person.MaritalStatus, flatType) {
		return nil, dErrors.New(dErrors.CodeEligibility, "applicant is not eligible for "+flatType.String())
	}
	if proj.FlatTypeItem(flatType) == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "project does not offer "+flatType.String())
	}

	now := requestcontext.Now(ctx)
	if !proj.AcceptsApplications(now) {
		return nil, dErrors.New(dErrors.CodeWindowClosed, "project is not accepting applications")
	}

	app := &Application{
		ID:            uuid.NewString(),
		ApplicantNRIC: applicant,
		ProjectName:   proj.Name,
		FlatType:      flatType,
		SubmittedAt:   now,
		Status:        domain.ApplicationPending,
		Withdrawal:    domain.WithdrawalNA,
	}
	if err := s.store.CreateIfNoActive(ctx, app); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeStateConflict, "applicant already has an active application")
		case errors.Is(err, sentinel.ErrDuplicate):
			return nil, dErrors.New(dErrors.CodeDuplicate, "application id already exists")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
		}
	}

	s.emit(ctx, audit.Event{Actor: applicant, Action: audit.ActionApplicationSubmitted, Subject: app.ID, Project: proj.Name})
	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.Inc()
	}
	return app, nil
}

// Decide resolves a PENDING application to SUCCESSFUL or UNSUCCESSFUL. Any
// other source state is a state conflict.
func (s *Service) Decide(ctx context.Context, manager domain.NRIC, id string, outcome domain.ApplicationStatus) (*Application, error) {
	if outcome != domain.ApplicationSuccessful && outcome != domain.ApplicationUnsuccessful {
		return nil, dErrors.New(dErrors.CodeValidation, "decision outcome must be SUCCESSFUL or UNSUCCESSFUL")
	}

	app, err := s.store.Execute(ctx, id,
		func(a *Application) error { return a.CanTransition(outcome) },
		func(a *Application) { a.ApplyTransition(outcome) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, err
	}

	s.emit(ctx, audit.Event{Actor: manager, Action: audit.ActionApplicationDecided, Subject: app.ID, Project: app.ProjectName, Reason: outcome.String()})
	if s.metrics != nil {
		s.metrics.ApplicationsDecided.WithLabelValues(outcome.String()).Inc()
	}
	return app, nil
}

// RequestWithdrawal opens a withdrawal request on the applicant's own
// application. Legal from any non-withdrawn state.
func (s *Service) RequestWithdrawal(ctx context.Context, applicant domain.NRIC, id string) (*Application, error) {
	app, err := s.store.Execute(ctx, id,
		func(a *Application) error {
			if a.ApplicantNRIC != applicant {
				return dErrors.New(dErrors.CodeConflict, "application belongs to another applicant")
			}
			return a.CanRequestWithdrawal()
		},
		func(a *Application) { a.ApplyWithdrawalRequest() },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, err
	}

	s.emit(ctx, audit.Event{Actor: applicant, Action: audit.ActionWithdrawalRequested, Subject: app.ID, Project: app.ProjectName})
	return app, nil
}

// ResolveWithdrawal approves or rejects a pending withdrawal request.
// Approval withdraws the application; when the application had booked a
// flat, the booking is cancelled and its unit released exactly once.
// Rejection leaves the main status untouched and resets the sub-state.
func (s *Service) ResolveWithdrawal(ctx context.Context, manager domain.NRIC, id string, approve bool) (*Application, error) {
	var wasBooked bool
	app, err := s.store.Execute(ctx, id,
		func(a *Application) error { return a.CanResolveWithdrawal() },
		func(a *Application) {
			wasBooked = a.Status == domain.ApplicationBooked
			if approve {
				a.ApplyWithdrawalApproval()
			} else {
				a.ApplyWithdrawalRejection()
			}
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, err
	}

	if approve && wasBooked {
		if err := s.releaseBookedUnit(ctx, app); err != nil {
			return nil, err
		}
	}

	outcome := "rejected"
	if approve {
		outcome = "approved"
	}
	s.emit(ctx, audit.Event{Actor: manager, Action: audit.ActionWithdrawalResolved, Subject: app.ID, Project: app.ProjectName, Reason: outcome})
	if s.metrics != nil {
		s.metrics.WithdrawalsResolved.WithLabelValues(outcome).Inc()
	}
	return app, nil
}

// releaseBookedUnit returns the reserved unit of a withdrawn booking to the
// pool. The booking service owns the release flag, so cancelling through it
// is the preferred path; it reports CodeNotFound only when the application
// has no booking record at all, and the direct release covers exactly that
// case (applications loaded as BOOKED without a booking row). An already
// cancelled booking gave its unit back at cancellation time and must not
// trigger a second release.
func (s *Service) releaseBookedUnit(ctx context.Context, app *Application) error {
	if s.bookings != nil {
		err := s.bookings.CancelByApplication(ctx, app.ID, "withdrawal approved")
		if err == nil {
			return nil
		}
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			return err
		}
	}
	if err := s.alloc.ReleaseUnit(ctx, app.ProjectName, app.FlatType); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release unit on withdrawal")
	}
	return nil
}

// Book transitions a SUCCESSFUL application to BOOKED, reserving a unit of
// the requested flat type first. On capacity failure the application stays
// SUCCESSFUL and the caller is told; no partial state survives.
func (s *Service) Book(ctx context.Context, id string) (*Application, error) {
	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	if err := app.CanTransition(domain.ApplicationBooked); err != nil {
		return nil, err
	}

	if err := s.alloc.ReserveUnit(ctx, app.ProjectName, app.FlatType); err != nil {
		return nil, err
	}

	booked, err := s.store.Execute(ctx, id,
		func(a *Application) error { return a.CanTransition(domain.ApplicationBooked) },
		func(a *Application) { a.ApplyTransition(domain.ApplicationBooked) },
	)
	if err != nil {
		// Undo the reservation so a racing transition cannot leak a unit.
		if releaseErr := s.alloc.ReleaseUnit(ctx, app.ProjectName, app.FlatType); releaseErr != nil {
			return nil, dErrors.Wrap(releaseErr, dErrors.CodeInternal, "failed to release unit after aborted booking")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, err
	}

	return booked, nil
}

// Get fetches an application by ID.
func (s *Service) Get(ctx context.Context, id string) (*Application, error) {
	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	return app, nil
}

// ActiveByApplicant returns the applicant's single active application.
func (s *Service) ActiveByApplicant(ctx context.Context, applicant domain.NRIC) (*Application, error) {
	app, err := s.store.FindActiveByApplicant(ctx, applicant)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no active application")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	return app, nil
}

// ListByProject returns every application for a project in submission order.
func (s *Service) ListByProject(ctx context.Context, projectName string) ([]*Application, error) {
	apps, err := s.store.ListByProject(ctx, projectName)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// ListByApplicant returns an applicant's full application history.
func (s *Service) ListByApplicant(ctx context.Context, applicant domain.NRIC) ([]*Application, error) {
	apps, err := s.store.ListByApplicant(ctx, applicant)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			"actor", event.Actor.String(), "subject", event.Subject,
			"project", event.Project, "log_type", "audit")
	}
	if s.auditPub != nil {
		_ = s.auditPub.Emit(ctx, event)
	}
}
