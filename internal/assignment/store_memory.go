package assignment

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
	byID  map[string]*Registration
	order []string
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]*Registration)}
}

func (s *InMemory) CreateIfNonePending(_ context.Context, r *Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[r.ID]; ok {
		return sentinel.ErrDuplicate
	}
	for _, id := range s.order {
		existing := s.byID[id]
		if existing.OfficerNRIC == r.OfficerNRIC && existing.Status == domain.OfficerApplicationPending {
			return sentinel.ErrConflict
		}
	}
	clone := *r
	s.byID[r.ID] = &clone
	s.order = append(s.order, r.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (s *InMemory) HasOpenRegistration(_ context.Context, officer domain.NRIC, projectName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		r := s.byID[id]
		if r.OfficerNRIC == officer && r.IsOpen() && strings.EqualFold(r.ProjectName, projectName) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemory) ListByOfficer(_ context.Context, officer domain.NRIC) ([]*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Registration
	for _, id := range s.order {
		if s.byID[id].OfficerNRIC == officer {
			clone := *s.byID[id]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemory) ListByProject(_ context.Context, projectName string) ([]*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Registration
	for _, id := range s.order {
		if strings.EqualFold(s.byID[id].ProjectName, projectName) {
			clone := *s.byID[id]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemory) List(_ context.Context) ([]*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Registration, 0, len(s.order))
	for _, id := range s.order {
		clone := *s.byID[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, id string, validate func(*Registration) error, mutate func(*Registration)) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(r); err != nil {
			return nil, err
		}
	}
	mutate(r)
	clone := *r
	return &clone, nil
}
