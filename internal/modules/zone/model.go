// README: Geofenced zone master data.
package zone

import (
	"errors"

	"github.com/shopspring/decimal"

	"ridefare/internal/geo"
	"ridefare/internal/types"
)

type Type string

const (
	TypeServiceArea Type = "service_area"
	TypePremiumArea Type = "premium_area"
	TypeRestricted  Type = "restricted"
)

var ErrInvalidZone = errors.New("invalid zone configuration")

// Zone is admin-managed master data; the engine only reads it.
type Zone struct {
	ID                types.ID        `json:"id"`
	Name              string          `json:"name"`
	Type              Type            `json:"type"`
	Boundary          geo.Polygon     `json:"boundary"`
	PricingMultiplier decimal.Decimal `json:"pricing_multiplier"`
	AirportFee        decimal.Decimal `json:"airport_fee"`
	Active            bool            `json:"active"`
}

func (z Zone) Validate() error {
	switch z.Type {
	case TypeServiceArea, TypePremiumArea, TypeRestricted:
	default:
		return ErrInvalidZone
	}
	if z.PricingMultiplier.IsNegative() || z.AirportFee.IsNegative() {
		return ErrInvalidZone
	}
	return z.Boundary.Validate()
}
