package booking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"btocore/internal/application"
	"btocore/internal/audit"
	"btocore/internal/party"
	"btocore/internal/platform/metrics"
	"btocore/internal/project"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
	"btocore/pkg/platform/sentinel"
	"btocore/pkg/requestcontext"
)

// Booker is the slice of the application service the booking flow needs:
// reading applications and driving the SUCCESSFUL -> BOOKED transition.
type Booker interface {
	Get(ctx context.Context, id string) (*application.Application, error)
	Book(ctx context.Context, id string) (*application.Application, error)
}

// ProjectDirectory resolves projects. The project store satisfies it.
type ProjectDirectory interface {
	FindByName(ctx context.Context, name string) (*project.Project, error)
}

// PersonDirectory resolves applicants for the report. The party store
// satisfies it.
type PersonDirectory interface {
	FindByNRIC(ctx context.Context, nric domain.NRIC) (*party.Person, error)
}

// AuditPublisher is the slice of the audit package the service needs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service drives the booking lifecycle: processing a successful application
// into a booking, confirming it into a receipt, and cancelling with a
// single-release guarantee.
type Service struct {
	store    Store
	apps     Booker
	projects ProjectDirectory
	persons  PersonDirectory
	alloc    *project.Allocation
	logger   *slog.Logger
	auditPub AuditPublisher
	metrics  *metrics.Metrics
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

// NewService constructs a Service.
func NewService(store Store, apps Booker, projects ProjectDirectory, persons PersonDirectory, alloc *project.Allocation, opts ...Option) *Service {
	s := &Service{store: store, apps: apps, projects: projects, persons: persons, alloc: alloc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process books a flat for a SUCCESSFUL application. The processing officer
// must administer the application's project. Unit reservation and the status
// transition are delegated to the application lifecycle; on success a
// PENDING booking bound to the officer is created.
func (s *Service) Process(ctx context.Context, officer domain.NRIC, applicationID string) (*Booking, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationSuccessful {
		return nil, dErrors.New(dErrors.CodeStateConflict,
			"only successful applications can be booked, got "+app.Status.String())
	}

	proj, err := s.projects.FindByName(ctx, app.ProjectName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found: "+app.ProjectName)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}
	if !proj.HasOfficer(officer) {
		return nil, dErrors.New(dErrors.CodeConflict, "officer does not administer this project")
	}

	booked, err := s.apps.Book(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:            uuid.NewString(),
		ApplicationID: booked.ID,
		OfficerNRIC:   officer,
		ProjectName:   booked.ProjectName,
		FlatType:      booked.FlatType,
		Date:          requestcontext.Now(ctx),
		Status:        domain.BookingPending,
	}
	if err := s.store.CreateIfNoneLive(ctx, b); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create booking")
	}

	s.emit(ctx, audit.Event{Actor: officer, Action: audit.ActionBookingProcessed, Subject: b.ID, Project: b.ProjectName})
	if s.metrics != nil {
		s.metrics.BookingsProcessed.Inc()
	}
	return b, nil
}

// Confirm finalizes a PENDING booking and generates its receipt.
func (s *Service) Confirm(ctx context.Context, officer domain.NRIC, bookingID string) (*Booking, *Receipt, error) {
	b, err := s.store.Execute(ctx, bookingID,
		func(b *Booking) error { return b.CanTransition(domain.BookingConfirmed) },
		func(b *Booking) { b.Status = domain.BookingConfirmed },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "booking not found")
		}
		return nil, nil, err
	}

	receipt, err := s.GenerateReceipt(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	s.emit(ctx, audit.Event{Actor: officer, Action: audit.ActionBookingConfirmed, Subject: b.ID, Project: b.ProjectName})
	if s.metrics != nil {
		s.metrics.BookingsConfirmed.Inc()
	}
	return b, receipt, nil
}

// GenerateReceipt returns the booking's receipt, creating it on first call.
// Calling it twice yields the same receipt identity.
func (s *Service) GenerateReceipt(ctx context.Context, bookingID string) (*Receipt, error) {
	b, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "booking not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load booking")
	}
	if b.Status != domain.BookingConfirmed {
		return nil, dErrors.New(dErrors.CodeStateConflict, "receipts are generated for confirmed bookings only")
	}

	now := requestcontext.Now(ctx)
	receipt, created, err := s.store.GetOrCreateReceipt(ctx, bookingID, func() *Receipt {
		return &Receipt{
			Number:        uuid.NewString(),
			Date:          now,
			ApplicationID: b.ApplicationID,
			BookingID:     b.ID,
		}
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate receipt")
	}

	if created {
		s.emit(ctx, audit.Event{Actor: b.OfficerNRIC, Action: audit.ActionReceiptGenerated, Subject: receipt.Number, Project: b.ProjectName})
		if s.metrics != nil {
			s.metrics.ReceiptsGenerated.Inc()
		}
	}
	return receipt, nil
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED and releases the
// reserved unit. The release flag on the booking guarantees the unit goes
// back exactly once no matter how often cancellation is retried.
func (s *Service) Cancel(ctx context.Context, actor domain.NRIC, bookingID, reason string) (*Booking, error) {
	var needRelease bool
	b, err := s.store.Execute(ctx, bookingID,
		func(b *Booking) error { return b.CanTransition(domain.BookingCancelled) },
		func(b *Booking) {
			b.Status = domain.BookingCancelled
			needRelease = !b.UnitReleased
			b.UnitReleased = true
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "booking not found")
		}
		return nil, err
	}

	if needRelease {
		if err := s.alloc.ReleaseUnit(ctx, b.ProjectName, b.FlatType); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to release unit on cancellation")
		}
	}

	s.emit(ctx, audit.Event{Actor: actor, Action: audit.ActionBookingCancelled, Subject: b.ID, Project: b.ProjectName, Reason: reason})
	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	return b, nil
}

// CancelByApplication cancels the live booking attached to an application.
// It satisfies the application service's BookingCanceller port for approved
// withdrawals of booked applications.
//
// When the application's booking was already cancelled the unit went back to
// the pool at that point, so there is nothing left to release and the call
// succeeds as a no-op. CodeNotFound means the application never had a booking
// record at all; only then may the caller release the unit directly.
func (s *Service) CancelByApplication(ctx context.Context, applicationID, reason string) error {
	live, err := s.store.FindLiveByApplication(ctx, applicationID)
	if err == nil {
		_, err = s.Cancel(ctx, live.OfficerNRIC, live.ID, reason)
		return err
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up booking")
	}

	latest, err := s.store.FindLatestByApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "no booking for application")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up booking")
	}
	if latest.UnitReleased {
		return nil
	}
	// Cancelled booking still holding its unit: hand it back exactly once
	// through the release flag.
	_, err = s.store.Execute(ctx, latest.ID, nil, func(b *Booking) {
		b.UnitReleased = true
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark unit released")
	}
	if err := s.alloc.ReleaseUnit(ctx, latest.ProjectName, latest.FlatType); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release unit on cancellation")
	}
	return nil
}

// Get fetches a booking by ID.
func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	b, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "booking not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load booking")
	}
	return b, nil
}

// Report builds the manager-facing booking report: one row per live booking
// joined with the applicant's person record, narrowed by the filter.
func (s *Service) Report(ctx context.Context, filter ReportFilter) ([]ReportRow, error) {
	bookings, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bookings")
	}

	var rows []ReportRow
	for _, b := range bookings {
		if !b.IsLive() {
			continue
		}
		if filter.ProjectName != "" && filter.ProjectName != b.ProjectName {
			continue
		}
		if filter.FlatType != "" && filter.FlatType != b.FlatType {
			continue
		}

		app, err := s.apps.Get(ctx, b.ApplicationID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve application for booking "+b.ID)
		}
		person, err := s.persons.FindByNRIC(ctx, app.ApplicantNRIC)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve applicant for booking "+b.ID)
		}
		if filter.MaritalStatus != "" && person.MaritalStatus != filter.MaritalStatus {
			continue
		}

		rows = append(rows, ReportRow{
			ApplicantName: person.Name,
			Age:           person.Age,
			MaritalStatus: person.MaritalStatus,
			FlatType:      b.FlatType,
			ProjectName:   b.ProjectName,
		})
	}
	return rows, nil
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
