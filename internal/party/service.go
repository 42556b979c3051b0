package party

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"btocore/internal/audit"
	"btocore/pkg/domain"
	dErrors "btocore/pkg/domain-errors"
	"btocore/pkg/platform/sentinel"
)

// AuditPublisher is the slice of the audit package the service needs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages person registration, role grants, and credentials.
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

// NewService constructs a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterParams carries the raw registration input; everything is validated
// here so callers can pass interchange strings directly.
type RegisterParams struct {
	Name          string
	NRIC          string
	Age           int
	MaritalStatus string
	Password      string
	Roles         []Role
}

// Register creates a person with the given roles. RoleApplicant is implied
// for officers, matching the capability model.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Person, error) {
	nric, err := domain.ParseNRIC(params.NRIC)
	if err != nil {
		return nil, err
	}
	marital, err := domain.ParseMaritalStatus(params.MaritalStatus)
	if err != nil {
		return nil, err
	}
	if params.Password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	person, err := NewPerson(nric, params.Name, params.Age, marital, string(hash))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.store.Create(ctx, person); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeDuplicate, "nric or name already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create person")
	}

	roles := params.Roles
	if len(roles) == 0 {
		roles = []Role{RoleApplicant}
	}
	for _, role := range roles {
		if !role.IsValid() {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid role: "+string(role))
		}
		if err := s.store.GrantRole(ctx, nric, role); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant role")
		}
		if role == RoleOfficer {
			if err := s.store.GrantRole(ctx, nric, RoleApplicant); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant role")
			}
		}
	}

	s.emit(ctx, audit.Event{Actor: nric, Action: audit.ActionPersonRegistered, Subject: person.Name})
	return person, nil
}

// Grant adds a role to an existing person. Granting RoleOfficer also grants
// RoleApplicant, matching the capability model.
func (s *Service) Grant(ctx context.Context, nric domain.NRIC, role Role) error {
	if !role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid role: "+string(role))
	}
	if err := s.store.GrantRole(ctx, nric, role); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant role")
	}
	if role == RoleOfficer {
		if err := s.store.GrantRole(ctx, nric, RoleApplicant); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant role")
		}
	}
	return nil
}

// Get fetches a person by NRIC.
func (s *Service) Get(ctx context.Context, nric domain.NRIC) (*Person, error) {
	person, err := s.store.FindByNRIC(ctx, nric)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}
	return person, nil
}

// GetByName resolves an interchange name reference.
func (s *Service) GetByName(ctx context.Context, name string) (*Person, error) {
	person, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found: "+name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}
	return person, nil
}

// Authenticate checks a password against the stored hash. It returns the
// same error for unknown NRIC and wrong password so callers cannot probe for
// registered NRICs.
func (s *Service) Authenticate(ctx context.Context, nric domain.NRIC, password string) (*Person, error) {
	person, err := s.store.FindByNRIC(ctx, nric)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid nric or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(person.PasswordHash), []byte(password)) != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid nric or password")
	}
	return person, nil
}

// ChangePassword verifies the old password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, nric domain.NRIC, oldPassword, newPassword string) error {
	if newPassword == "" {
		return dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	_, err = s.store.Execute(ctx, nric,
		func(p *Person) error {
			if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(oldPassword)) != nil {
				return dErrors.New(dErrors.CodeUnauthorized, "invalid nric or password")
			}
			return nil
		},
		func(p *Person) {
			p.PasswordHash = string(hash)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid nric or password")
		}
		return err
	}

	s.emit(ctx, audit.Event{Actor: nric, Action: audit.ActionPasswordChanged})
	return nil
}

// SaveFilter persists a person's search filter between sessions.
func (s *Service) SaveFilter(ctx context.Context, nric domain.NRIC, filter domain.ProjectFilter) error {
	_, err := s.store.Execute(ctx, nric, nil, func(p *Person) {
		p.SavedFilter = filter
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save filter")
	}
	s.emit(ctx, audit.Event{Actor: nric, Action: audit.ActionSavedFilterUpdated})
	return nil
}

// RequireRole returns CodeConflict when the person lacks the role.
func (s *Service) RequireRole(ctx context.Context, nric domain.NRIC, role Role) error {
	has, err := s.store.HasRole(ctx, nric, role)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check role")
	}
	if !has {
		return dErrors.New(dErrors.CodeConflict, "person does not hold role "+string(role))
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			"actor", event.Actor.String(), "subject", event.Subject, "log_type", "audit")
	}
	if s.auditPub != nil {
		_ = s.auditPub.Emit(ctx, event)
	}
}
