package enquiry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"btocore/internal/audit"
	"btocore/internal/platform/metrics"
	"btocore/internal/project"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
	"btocore/pkg/platform/sentinel"
	"btocore/pkg/requestcontext"
)

// ProjectDirectory resolves projects. The project store satisfies it.
type ProjectDirectory interface {
	FindByName(ctx context.Context, name string) (*project.Project, error)
}

// AuditPublisher is the slice of the audit package the service needs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service drives the enquiry lifecycle: submit, edit and delete while
// pending, and a single staff reply that freezes the thread.
type Service struct {
	store    Store
	projects ProjectDirectory
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
func NewService(store Store, projects ProjectDirectory, opts ...Option) *Service {
	s := &Service{store: store, projects: projects}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit files an enquiry against a project. Any registered person may
// enquire about any existing project, visible or not.
func (s *Service) Submit(ctx context.Context, submitter domain.NRIC, projectName, content string) (*Enquiry, error) {
	proj, err := s.projects.FindByName(ctx, projectName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found: "+projectName)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}

	e, err := NewEnquiry(uuid.NewString(), submitter, proj.Name, content, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create enquiry")
	}

	s.emit(ctx, audit.Event{Actor: submitter, Action: audit.ActionEnquirySubmitted, Subject: e.ID, Project: e.ProjectName})
	if s.metrics != nil {
		s.metrics.EnquiriesSubmitted.Inc()
	}
	return e, nil
}

// Edit rewrites the content of a pending enquiry. Only the submitter may
// edit, and only before a reply lands.
func (s *Service) Edit(ctx context.Context, actor domain.NRIC, id, content string) (*Enquiry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "enquiry content must not be empty")
	}
	e, err := s.store.Execute(ctx, id,
		func(e *Enquiry) error { return e.CanModify(actor) },
		func(e *Enquiry) { e.Content = content },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "enquiry not found")
		}
		return nil, err
	}

	s.emit(ctx, audit.Event{Actor: actor, Action: audit.ActionEnquiryEdited, Subject: e.ID, Project: e.ProjectName})
	return e, nil
}

// Delete removes a pending enquiry. Only the submitter may delete, and only
// before a reply lands.
func (s *Service) Delete(ctx context.Context, actor domain.NRIC, id string) error {
	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "enquiry not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load enquiry")
	}
	if err := s.store.Remove(ctx, id, func(e *Enquiry) error { return e.CanModify(actor) }); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "enquiry not found")
		}
		return err
	}

	s.emit(ctx, audit.Event{Actor: actor, Action: audit.ActionEnquiryDeleted, Subject: e.ID, Project: e.ProjectName})
	return nil
}

// Respond records the single staff reply on a pending enquiry. The
// respondent must manage the project or be one of its assigned officers;
// a second reply fails with CodeStateConflict.
func (s *Service) Respond(ctx context.Context, respondent domain.NRIC, id, reply string) (*Enquiry, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "reply must not be empty")
	}

	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "enquiry not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load enquiry")
	}

	proj, err := s.projects.FindByName(ctx, e.ProjectName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found: "+e.ProjectName)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}
	if proj.ManagerNRIC != respondent && !proj.HasOfficer(respondent) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "enquiries can only be answered by the project's staff")
	}

	now := requestcontext.Now(ctx)
	replied, err := s.store.Execute(ctx, id,
		func(e *Enquiry) error { return e.CanReply() },
		func(e *Enquiry) { e.ApplyReply(respondent, reply, now) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "enquiry not found")
		}
		return nil, err
	}

	s.emit(ctx, audit.Event{Actor: respondent, Action: audit.ActionEnquiryReplied, Subject: replied.ID, Project: replied.ProjectName})
	if s.metrics != nil {
		s.metrics.EnquiriesReplied.Inc()
	}
	return replied, nil
}

// Get fetches an enquiry by ID.
func (s *Service) Get(ctx context.Context, id string) (*Enquiry, error) {
	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "enquiry not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load enquiry")
	}
	return e, nil
}

// ListBySubmitter returns a person's enquiries in submission order.
func (s *Service) ListBySubmitter(ctx context.Context, submitter domain.NRIC) ([]*Enquiry, error) {
	out, err := s.store.ListBySubmitter(ctx, submitter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list enquiries")
	}
	return out, nil
}

// ListByProject returns a project's enquiries in submission order.
func (s *Service) ListByProject(ctx context.Context, projectName string) ([]*Enquiry, error) {
	out, err := s.store.ListByProject(ctx, projectName)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list enquiries")
	}
	return out, nil
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
