package enquiry

import (
	"context"
	"sync"

	"btocore/pkg/domain"
	"btocore/pkg/platform/sentinel"
)

// InMemory implements Store with a mutex-guarded map plus an insertion-order
// index.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[string]*Enquiry
	order []string
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]*Enquiry)}
}

func (s *InMemory) Create(_ context.Context, e *Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[e.ID]; ok {
		return sentinel.ErrDuplicate
	}
	clone := *e
	s.byID[e.ID] = &clone
	s.order = append(s.order, e.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (s *InMemory) ListBySubmitter(_ context.Context, submitter domain.NRIC) ([]*Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Enquiry
	for _, id := range s.order {
		if e := s.byID[id]; e.SubmitterNRIC == submitter {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemory) ListByProject(_ context.Context, projectName string) ([]*Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Enquiry
	for _, id := range s.order {
		if e := s.byID[id]; e.ProjectName == projectName {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *InMemory) List(_ context.Context) ([]*Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Enquiry, 0, len(s.order))
	for _, id := range s.order {
		clone := *s.byID[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, id string, validate func(*Enquiry) error, mutate func(*Enquiry)) (*Enquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(e); err != nil {
			return nil, err
		}
	}
	mutate(e)
	clone := *e
	return &clone, nil
}

func (s *InMemory) Remove(_ context.Context, id string, validate func(*Enquiry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(e); err != nil {
			return err
		}
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
