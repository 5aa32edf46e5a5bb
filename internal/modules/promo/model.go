// README: Promo code master data, usage records, and redemption errors.
package promo

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ridefare/internal/types"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// Redemption errors are expected, recoverable business outcomes: the trip
// proceeds at full fare and the caller surfaces the specific reason.
var (
	ErrPromoNotFound          = errors.New("promo code not found")
	ErrPromoExpired           = errors.New("promo code expired")
	ErrPromoNotYetValid       = errors.New("promo code not yet valid")
	ErrPromoBelowMinimum      = errors.New("trip amount below promo minimum")
	ErrPromoUsageExceeded     = errors.New("promo code usage limit reached")
	ErrPromoUserLimitExceeded = errors.New("promo code user limit reached")
)

// Code is admin-managed master data. Codes are unique case-insensitively;
// Canonical is the comparison form used at every store boundary.
type Code struct {
	ID                types.ID
	Code              string
	DiscountType      DiscountType
	DiscountValue     decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	MinTripAmount     *decimal.Decimal
	TotalUsageLimit   *int // nil = unlimited
	MaxUsagePerUser   int
	ValidFrom         time.Time
	ValidTo           time.Time
	Active            bool
}

func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount returns the amount this code takes off the given subtotal:
// percentage or flat, capped by MaxDiscountAmount when set, and never more
// than the subtotal itself (the discounted total cannot go negative).
func (c Code) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		d = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
	case DiscountFlat:
		d = c.DiscountValue
	default:
		return decimal.Zero
	}
	if c.MaxDiscountAmount != nil && d.GreaterThan(*c.MaxDiscountAmount) {
		d = *c.MaxDiscountAmount
	}
	if d.GreaterThan(subtotal) {
		d = subtotal
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return types.RoundMoney(d)
}

// Usage is created only by a successful atomic reservation and never mutated
// afterwards; administrative rollback is the only path that deletes one.
type Usage struct {
	ID              types.ID        `json:"id"`
	PromoCodeID     types.ID        `json:"promo_code_id"`
	UserID          types.ID        `json:"user_id"`
	TripID          types.ID        `json:"trip_id"`
	RedeemedAt      time.Time       `json:"redeemed_at"`
	DiscountApplied decimal.Decimal `json:"discount_applied"`
}
