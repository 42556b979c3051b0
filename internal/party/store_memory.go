package party

import (
	"context"
	"strings"
	"sync"

	"btocore/pkg/domain"
	"btocore/pkg/platform/sentinel"
)

// InMemory implements Store with mutex-guarded maps plus an insertion-order
// index. It favors clarity over performance.
type InMemory struct {
	mu       sync.RWMutex
	persons  map[domain.NRIC]*Person
	byName   map[string]domain.NRIC
	order    []domain.NRIC
	roles    map[domain.NRIC]map[Role]bool
	officers map[domain.NRIC]*OfficerRole
}

func NewInMemory() *InMemory {
	return &InMemory{
		persons:  make(map[domain.NRIC]*Person),
		byName:   make(map[string]domain.NRIC),
		roles:    make(map[domain.NRIC]map[Role]bool),
		officers: make(map[domain.NRIC]*OfficerRole),
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *InMemory) Create(_ context.Context, p *Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[p.NRIC]; ok {
		return sentinel.ErrDuplicate
	}
	if _, ok := s.byName[nameKey(p.Name)]; ok {
		return sentinel.ErrDuplicate
	}
	clone := *p
	s.persons[p.NRIC] = &clone
	s.byName[nameKey(p.Name)] = p.NRIC
	s.order = append(s.order, p.NRIC)
	return nil
}

func (s *InMemory) FindByNRIC(_ context.Context, nric domain.NRIC) (*Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[nric]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nric, ok := s.byName[nameKey(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *s.persons[nric]
	return &clone, nil
}

func (s *InMemory) List(_ context.Context) ([]*Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Person, 0, len(s.order))
	for _, nric := range s.order {
		clone := *s.persons[nric]
		out = append(out, &clone)
	}
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, nric domain.NRIC, validate func(*Person) error, mutate func(*Person)) (*Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.persons[nric]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(p); err != nil {
			return nil, err
		}
	}
	mutate(p)
	clone := *p
	return &clone, nil
}

func (s *InMemory) GrantRole(_ context.Context, nric domain.NRIC, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[nric]; !ok {
		return sentinel.ErrNotFound
	}
	if s.roles[nric] == nil {
		s.roles[nric] = make(map[Role]bool)
	}
	s.roles[nric][role] = true
	if role == RoleOfficer {
		if _, ok := s.officers[nric]; !ok {
			s.officers[nric] = &OfficerRole{NRIC: nric}
		}
	}
	return nil
}

func (s *InMemory) HasRole(_ context.Context, nric domain.NRIC, role Role) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.persons[nric]; !ok {
		return false, sentinel.ErrNotFound
	}
	return s.roles[nric][role], nil
}

func (s *InMemory) Officer(_ context.Context, nric domain.NRIC) (*OfficerRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.officers[nric]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

func (s *InMemory) ExecuteOfficer(_ context.Context, nric domain.NRIC, validate func(*OfficerRole) error, mutate func(*OfficerRole)) (*OfficerRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.officers[nric]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(o); err != nil {
			return nil, err
		}
	}
	mutate(o)
	clone := *o
	return &clone, nil
}
