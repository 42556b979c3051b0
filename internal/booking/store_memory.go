package booking

import (
	"context"
	"sync"

	"btocore/pkg/platform/sentinel"
)

// InMemory implements Store with mutex-guarded maps plus insertion-order
// indexes for bookings and receipts.
type InMemory struct {
	mu           sync.RWMutex
	byID         map[string]*Booking
	order        []string
	receipts     map[string]*Receipt // keyed by booking ID
	receiptOrder []string
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:     make(map[string]*Booking),
		receipts: make(map[string]*Receipt),
	}
}

func (s *InMemory) CreateIfNoneLive(_ context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[b.ID]; ok {
		return sentinel.ErrDuplicate
	}
	for _, id := range s.order {
		existing := s.byID[id]
		if existing.ApplicationID == b.ApplicationID && existing.IsLive() {
			return sentinel.ErrConflict
		}
	}
	clone := *b
	s.byID[b.ID] = &clone
	s.order = append(s.order, b.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *InMemory) FindLiveByApplication(_ context.Context, applicationID string) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		b := s.byID[id]
		if b.ApplicationID == applicationID && b.IsLive() {
			clone := *b
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindLatestByApplication(_ context.Context, applicationID string) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		b := s.byID[s.order[i]]
		if b.ApplicationID == applicationID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Booking, 0, len(s.order))
	for _, id := range s.order {
		clone := *s.byID[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, id string, validate func(*Booking) error, mutate func(*Booking)) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(b); err != nil {
			return nil, err
		}
	}
	mutate(b)
	clone := *b
	return &clone, nil
}

func (s *InMemory) GetOrCreateReceipt(_ context.Context, bookingID string, build func() *Receipt) (*Receipt, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[bookingID]; !ok {
		return nil, false, sentinel.ErrNotFound
	}
	if existing, ok := s.receipts[bookingID]; ok {
		clone := *existing
		return &clone, false, nil
	}
	r := build()
	clone := *r
	s.receipts[bookingID] = &clone
	s.receiptOrder = append(s.receiptOrder, bookingID)
	out := clone
	return &out, true, nil
}

func (s *InMemory) FindReceiptByBooking(_ context.Context, bookingID string) (*Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[bookingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (s *InMemory) ListReceipts(_ context.Context) ([]*Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Receipt, 0, len(s.receiptOrder))
	for _, id := range s.receiptOrder {
		clone := *s.receipts[id]
		out = append(out, &clone)
	}
	return out, nil
}
