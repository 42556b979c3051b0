package application

import (
	"context"
	"strings"
	"sync"

	"btocore/pkg/domain"
	"btocore/pkg/platform/sentinel"
)

// InMemory implements Store with mutex-guarded maps plus an insertion-order
// index.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[string]*Application
	order []string
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]*Application)}
}

func (s *InMemory) CreateIfNoActive(_ context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[app.ID]; ok {
		return sentinel.ErrDuplicate
	}
	if app.IsActive() {
		for _, id := range s.order {
			existing := s.byID[id]
			if existing.ApplicantNRIC == app.ApplicantNRIC && existing.IsActive() {
				return sentinel.ErrConflict
			}
		}
	}
	clone := *app
	s.byID[app.ID] = &clone
	s.order = append(s.order, app.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *app
	return &clone, nil
}

func (s *InMemory) FindActiveByApplicant(_ context.Context, applicant domain.NRIC) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		app := s.byID[id]
		if app.ApplicantNRIC == applicant && app.IsActive() {
			clone := *app
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) HasActiveOnProject(_ context.Context, applicant domain.NRIC, projectName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		app := s.byID[id]
		if app.ApplicantNRIC == applicant && app.IsActive() && strings.EqualFold(app.ProjectName, projectName) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemory) ListByApplicant(_ context.Context, applicant domain.NRIC) ([]*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Application
	for _, id := range s.order {
		if s.byID[id].ApplicantNRIC == applicant {
			clone := *s.byID[id]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemory) ListByProject(_ context.Context, projectName string) ([]*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Application
	for _, id := range s.order {
		if strings.EqualFold(s.byID[id].ProjectName, projectName) {
			clone := *s.byID[id]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemory) List(_ context.Context) ([]*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Application, 0, len(s.order))
	for _, id := range s.order {
		clone := *s.byID[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, id string, validate func(*Application) error, mutate func(*Application)) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(app); err != nil {
			return nil, err
		}
	}
	mutate(app)
	clone := *app
	return &clone, nil
}
