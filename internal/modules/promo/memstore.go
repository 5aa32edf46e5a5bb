// README: In-memory promo store for tests and DB-less local runs.
package promo

import (
	"context"
	"sync"

	"ridefare/internal/types"
)

// MemStore implements Store with the same reservation semantics as PGStore,
// serialized by a single mutex. Good enough for one process; multi-instance
// deployments need the transactional store.
type MemStore struct {
	mu     sync.Mutex
	codes  map[string]*Code // keyed by canonical code
	usages []Usage
}

func NewMemStore() *MemStore {
	return &MemStore{codes: make(map[string]*Code)}
}

// Add registers a promo code, keyed case-insensitively.
func (s *MemStore) Add(c Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[Canonical(c.Code)] = &c
}

func (s *MemStore) FindByCode(ctx context.Context, canonical string) (*Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[canonical]
	if !ok {
		return nil, ErrPromoNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemStore) Reserve(ctx context.Context, code *Code, usage *Usage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total, byUser int
	for _, u := range s.usages {
		if u.PromoCodeID != code.ID {
			continue
		}
		total++
		if u.UserID == usage.UserID {
			byUser++
		}
	}

	// same check order as PGStore: global cap before per-user cap
	if code.TotalUsageLimit != nil && total >= *code.TotalUsageLimit {
		return ErrPromoUsageExceeded
	}
	if byUser >= code.MaxUsagePerUser {
		return ErrPromoUserLimitExceeded
	}

	s.usages = append(s.usages, *usage)
	return nil
}

// Usages returns a copy of all recorded usages for a promo code.
func (s *MemStore) Usages(promoCodeID types.ID) []Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Usage
	for _, u := range s.usages {
		if u.PromoCodeID == promoCodeID {
			out = append(out, u)
		}
	}
	return out
}
