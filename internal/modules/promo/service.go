// README: Promo validation chain and usage reservation.
package promo

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ridefare/internal/types"
)

// Store abstracts promo persistence. Reserve must be atomic: it enforces the
// global and per-user caps and records the usage as one indivisible operation,
// so that N concurrent reservations against a limit with R slots left yield
// exactly min(N, R) successes.
type Store interface {
	FindByCode(ctx context.Context, canonical string) (*Code, error)
	Reserve(ctx context.Context, code *Code, usage *Usage) error
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Reserve validates a promo code against the given subtotal and consumes one
// usage slot. Checks run in a fixed order and short-circuit on the first
// failure: existence+active, validity window, minimum trip amount, then the
// caps (enforced atomically inside the store). Call at most once per trip, at
// charge time; quoting must not burn slots.
func (s *Service) Reserve(ctx context.Context, code string, userID, tripID types.ID, subtotal decimal.Decimal, now time.Time) (*Usage, error) {
	if userID == "" || tripID == "" {
		return nil, fmt.Errorf("reserve promo: missing user or trip id")
	}

	c, err := s.store.FindByCode(ctx, Canonical(code))
	if err != nil {
		return nil, err
	}
	if !c.Active {
		// an inactive code is indistinguishable from a missing one to the user
		return nil, ErrPromoNotFound
	}
	if now.Before(c.ValidFrom) {
		return nil, ErrPromoNotYetValid
	}
	if now.After(c.ValidTo) {
		return nil, ErrPromoExpired
	}
	if c.MinTripAmount != nil && subtotal.LessThan(*c.MinTripAmount) {
		return nil, ErrPromoBelowMinimum
	}

	u := &Usage{
		ID:              types.ID(ulid.Make().String()),
		PromoCodeID:     c.ID,
		UserID:          userID,
		TripID:          tripID,
		RedeemedAt:      now,
		DiscountApplied: c.Discount(subtotal),
	}
	if err := s.store.Reserve(ctx, c, u); err != nil {
		return nil, err
	}

	s.logger.Info("promo reserved",
		zap.String("promo_code_id", string(c.ID)),
		zap.String("user_id", string(userID)),
		zap.String("trip_id", string(tripID)),
		zap.String("discount", u.DiscountApplied.String()),
	)
	return u, nil
}
