package project

import (
	"context"
	"strings"
	"sync"

	"btocore/pkg/domain"
	"btocore/pkg/platform/sentinel"
)

// InMemory implements Store with a mutex-guarded map plus an insertion-order
// index.
type InMemory struct {
	mu       sync.RWMutex
	projects map[string]*Project
	order    []string
}

func NewInMemory() *InMemory {
	return &InMemory{projects: make(map[string]*Project)}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func clone(p *Project) *Project {
	cp := *p
	cp.FlatTypes = append([]FlatType{}, p.FlatTypes...)
	cp.AssignedOfficers = append([]domain.NRIC{}, p.AssignedOfficers...)
	return &cp
}

func (s *InMemory) CreateIfNoPeriodOverlap(_ context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(p.Name)
	if _, ok := s.projects[k]; ok {
		return sentinel.ErrDuplicate
	}
	for _, existingKey := range s.order {
		existing := s.projects[existingKey]
		if existing.ManagerNRIC == p.ManagerNRIC && existing.PeriodOverlaps(p) {
			return sentinel.ErrConflict
		}
	}
	s.projects[k] = clone(p)
	s.order = append(s.order, k)
	return nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[key(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(p), nil
}

func (s *InMemory) List(_ context.Context) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Project, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, clone(s.projects[k]))
	}
	return out, nil
}

func (s *InMemory) ListByManager(_ context.Context, manager domain.NRIC) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Project
	for _, k := range s.order {
		if s.projects[k].ManagerNRIC == manager {
			out = append(out, clone(s.projects[k]))
		}
	}
	return out, nil
}

func (s *InMemory) FindByOfficer(_ context.Context, officer domain.NRIC) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.order {
		if s.projects[k].HasOfficer(officer) {
			return clone(s.projects[k]), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Execute(_ context.Context, name string, validate func(*Project) error, mutate func(*Project)) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[key(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(p); err != nil {
			return nil, err
		}
	}
	mutate(p)
	return clone(p), nil
}

func (s *InMemory) Remove(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(name)
	if _, ok := s.projects[k]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.projects, k)
	for i, existing := range s.order {
		if existing == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
