package project

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"btocore/internal/audit"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
	"btocore/pkg/platform/sentinel"
)

// AuditPublisher is the slice of the audit package the service needs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates project management on behalf of managers.
type Service struct {
	store    Store
	logger   *slog.Logger
	auditPub AuditPublisher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) { s.auditPub = pub }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the raw project input.
type CreateParams struct {
	Name         string
	Neighborhood string
	OpensAt      time.Time
	ClosesAt     time.Time
	Manager      domain.NRIC
	OfficerSlots int
	FlatTypes    []FlatType
}

// Create validates and registers a new project. A manager may not run two
// projects with overlapping application periods.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Project, error) {
	items := make([]FlatType, len(params.FlatTypes))
	for i, ft := range params.FlatTypes {
		items[i] = ft
		items[i].AvailableUnits = ft.TotalUnits
	}
	p, err := NewProject(params.Name, params.Neighborhood, params.OpensAt, params.ClosesAt,
		params.Manager, params.OfficerSlots, items)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.store.CreateIfNoPeriodOverlap(ctx, p); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrDuplicate):
			return nil, dErrors.New(dErrors.CodeDuplicate, "project name must be unique")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "manager already runs a project in this period")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create project")
		}
	}

	s.emit(ctx, audit.Event{Actor: params.Manager, Action: audit.ActionProjectCreated, Project: p.Name})
	return p, nil
}

// Get fetches a project by name.
func (s *Service) Get(ctx context.Context, name string) (*Project, error) {
	p, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found: "+name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}
	return p, nil
}

// SetVisibility toggles whether applicants can see the project. Only the
// owning manager may do this.
func (s *Service) SetVisibility(ctx context.Context, name string, manager domain.NRIC, visibility Visibility) (*Project, error) {
	if !visibility.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid visibility")
	}
	p, err := s.store.Execute(ctx, name,
		func(p *Project) error {
			if p.ManagerNRIC != manager {
				return dErrors.New(dErrors.CodeConflict, "project is managed by someone else")
			}
			return nil
		},
		func(p *Project) {
			p.Visibility = visibility
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found: "+name)
		}
		return nil, err
	}

	s.emit(ctx, audit.Event{Actor: manager, Action: audit.ActionProjectVisibilitySet, Project: p.Name, Reason: string(visibility)})
	return p, nil
}

// List returns projects matching the filter, sorted by name. Hidden projects
// are excluded unless includeHidden is set (managers and assigned officers
// see their own projects regardless of visibility).
func (s *Service) List(ctx context.Context, filter domain.ProjectFilter, includeHidden bool) ([]*Project, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	var out []*Project
	for _, p := range all {
		if !includeHidden && p.Visibility != VisibilityVisible {
			continue
		}
		if p.Matches(filter) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// ListByManager returns a manager's own projects in insertion order.
func (s *Service) ListByManager(ctx context.Context, manager domain.NRIC) ([]*Project, error) {
	out, err := s.store.ListByManager(ctx, manager)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	return out, nil
}

// HandledBy returns the project an officer currently administers.
func (s *Service) HandledBy(ctx context.Context, officer domain.NRIC) (*Project, error) {
	p, err := s.store.FindByOfficer(ctx, officer)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "officer has no assigned project")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up assignment")
	}
	return p, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			"actor", event.Actor.String(), "project", event.Project, "log_type", "audit")
	}
	if s.auditPub != nil {
		_ = s.auditPub.Emit(ctx, event)
	}
}
