package assignment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"btocore/internal/audit"
	"btocore/internal/party"
	"btocore/internal/platform/metrics"
	"btocore/internal/project"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
	"btocore/pkg/platform/sentinel"
	"btocore/pkg/requestcontext"
)

// OfficerRegistry is the slice of the party store the service needs: role
// checks and the officer's single-assignment record.
type OfficerRegistry interface {
	HasRole(ctx context.Context, nric domain.NRIC, role party.Role) (bool, error)
	Officer(ctx context.Context, nric domain.NRIC) (*party.OfficerRole, error)
	ExecuteOfficer(ctx context.Context, nric domain.NRIC, validate func(*party.OfficerRole) error, mutate func(*party.OfficerRole)) (*party.OfficerRole, error)
}

// ProjectDirectory resolves projects. The project store satisfies it.
type ProjectDirectory interface {
	FindByName(ctx context.Context, name string) (*project.Project, error)
}

// ApplicationChecker reports whether a person holds an active BTO
// application on a project. The application store satisfies it.
type ApplicationChecker interface {
	HasActiveOnProject(ctx context.Context, applicant domain.NRIC, projectName string) (bool, error)
}

// AuditPublisher is the slice of the audit package the service needs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service drives the officer registration state machine and, on approval,
// binds the officer to the project through the allocation component.
type Service struct {
	store    Store
	officers OfficerRegistry
	projects ProjectDirectory
	apps     ApplicationChecker
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
func NewService(store Store, officers OfficerRegistry, projects ProjectDirectory, apps ApplicationChecker, alloc *project.Allocation, opts ...Option) *Service {
	s := &Service{store: store, officers: officers, projects: projects, apps: apps, alloc: alloc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit files a registration for a project.
//
// Fails with CodeStateConflict when the officer already has a pending
// registration or an assigned project, and with CodeConflict when the
// officer holds an active BTO application on the same project.
func (s *Service) Submit(ctx context.Context, officer domain.NRIC, projectName string) (*Registration, error) {
	isOfficer, err := s.officers.HasRole(ctx, officer, party.RoleOfficer)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "officer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check officer role")
	}
	if !isOfficer {
		return nil, dErrors.New(dErrors.CodeConflict, "person does not hold the officer role")
	}

	proj, err := s.projects.FindByName(ctx, projectName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found: "+projectName)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}

	record, err := s.officers.Officer(ctx, officer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer record")
	}
	if record.IsAssigned() {
		return nil, dErrors.New(dErrors.CodeStateConflict, "officer is already assigned to "+record.AssignedProject)
	}

	active, err := s.apps.HasActiveOnProject(ctx, officer, proj.Name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check applicant conflict")
	}
	if active {
		return nil, dErrors.New(dErrors.CodeConflict, "officer has an active application on this project")
	}

	reg := &Registration{
		ID:          uuid.NewString(),
		OfficerNRIC: officer,
		ProjectName: proj.Name,
		SubmittedAt: requestcontext.Now(ctx),
		Status:      domain.OfficerApplicationPending,
	}
	if err := s.store.CreateIfNonePending(ctx, reg); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeStateConflict, "officer already has a pending registration")
		case errors.Is(err, sentinel.ErrDuplicate):
			return nil, dErrors.New(dErrors.CodeDuplicate, "registration id already exists")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registration")
		}
	}

	s.emit(ctx, audit.Event{Actor: officer, Action: audit.ActionOfficerRegistered, Subject: reg.ID, Project: proj.Name})
	if s.metrics != nil {
		s.metrics.OfficerRegistrations.Inc()
	}
	return reg, nil
}

// Decide resolves a PENDING registration. Approval claims an officer slot
// through the allocation component first; when the project is full the
// decision fails with CodeCapacityExceeded and the registration stays
// PENDING. Only the project's manager may decide.
func (s *Service) Decide(ctx context.Context, manager domain.NRIC, id string, outcome domain.OfficerApplicationStatus) (*Registration, error) {
	if outcome != domain.OfficerApplicationApproved && outcome != domain.OfficerApplicationRejected {
		return nil, dErrors.New(dErrors.CodeValidation, "decision outcome must be APPROVED or REJECTED")
	}

	reg, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	if err := reg.CanDecide(); err != nil {
		return nil, err
	}

	proj, err := s.projects.FindByName(ctx, reg.ProjectName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found: "+reg.ProjectName)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}
	if proj.ManagerNRIC != manager {
		return nil, dErrors.New(dErrors.CodeConflict, "registration can only be decided by the project manager")
	}

	if outcome == domain.OfficerApplicationApproved {
		if err := s.alloc.AssignOfficer(ctx, reg.ProjectName, reg.OfficerNRIC); err != nil {
			return nil, err
		}
	}

	decided, err := s.store.Execute(ctx, id,
		func(r *Registration) error { return r.CanDecide() },
		func(r *Registration) { r.ApplyDecision(outcome) },
	)
	if err != nil {
		if outcome == domain.OfficerApplicationApproved {
			// Give the slot back so a racing decision cannot leak capacity.
			if unassignErr := s.alloc.UnassignOfficer(ctx, reg.ProjectName, reg.OfficerNRIC); unassignErr != nil {
				return nil, dErrors.Wrap(unassignErr, dErrors.CodeInternal, "failed to unassign after aborted decision")
			}
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, err
	}

	if outcome == domain.OfficerApplicationApproved {
		if _, err := s.officers.ExecuteOfficer(ctx, reg.OfficerNRIC, nil, func(o *party.OfficerRole) {
			o.AssignedProject = reg.ProjectName
		}); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record officer assignment")
		}
		if s.metrics != nil {
			s.metrics.OfficersAssigned.Inc()
		}
	}

	s.emit(ctx, audit.Event{Actor: manager, Action: audit.ActionOfficerDecided, Subject: decided.ID, Project: decided.ProjectName, Reason: outcome.String()})
	return decided, nil
}

// Get fetches a registration by ID.
func (s *Service) Get(ctx context.Context, id string) (*Registration, error) {
	reg, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return reg, nil
}

// ListByOfficer returns an officer's registration history.
func (s *Service) ListByOfficer(ctx context.Context, officer domain.NRIC) ([]*Registration, error) {
	regs, err := s.store.ListByOfficer(ctx, officer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return regs, nil
}

// ListByProject returns a project's registrations in submission order.
func (s *Service) ListByProject(ctx context.Context, projectName string) ([]*Registration, error) {
	regs, err := s.store.ListByProject(ctx, projectName)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return regs, nil
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
