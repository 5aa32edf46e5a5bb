// README: Resolves which zones contain a coordinate, restricted zones first.
package zone

import (
	"github.com/shopspring/decimal"

	"ridefare/internal/types"
)

// MatchResult holds the active zones containing a point. Restricted zones are
// ordered first so the trip-request flow can reject dispatch on sight; within
// each type group the input order is preserved, keeping results deterministic.
type MatchResult struct {
	Zones []Zone
}

// Match returns all active zones whose boundary contains pt. A zone with a
// degenerate boundary fails the whole match: a half-configured zone must not
// silently stop affecting fares.
func Match(zones []Zone, pt types.Point) (MatchResult, error) {
	var restricted, rest []Zone
	for _, z := range zones {
		if !z.Active {
			continue
		}
		inside, err := z.Boundary.Contains(pt)
		if err != nil {
			return MatchResult{}, err
		}
		if !inside {
			continue
		}
		if z.Type == TypeRestricted {
			restricted = append(restricted, z)
		} else {
			rest = append(rest, z)
		}
	}
	return MatchResult{Zones: append(restricted, rest...)}, nil
}

// Restricted reports whether any matched zone forbids dispatch.
func (r MatchResult) Restricted() bool {
	for _, z := range r.Zones {
		if z.Type == TypeRestricted {
			return true
		}
	}
	return false
}

// Multiplier compounds the pricing multipliers of all matched non-restricted
// zones. Multipliers multiply (cost-of-service modifiers), fees add.
func (r MatchResult) Multiplier() decimal.Decimal {
	m := decimal.NewFromInt(1)
	for _, z := range r.Zones {
		if z.Type == TypeRestricted {
			continue
		}
		m = m.Mul(z.PricingMultiplier)
	}
	return m
}

// Fees sums the flat airport fees of all matched non-restricted zones. Two
// overlapping approach zones each charge their own surcharge.
func (r MatchResult) Fees() decimal.Decimal {
	f := decimal.Zero
	for _, z := range r.Zones {
		if z.Type == TypeRestricted {
			continue
		}
		f = f.Add(z.AirportFee)
	}
	return f
}

// Names returns matched zone names in precedence order.
func (r MatchResult) Names() []string {
	names := make([]string, len(r.Zones))
	for i, z := range r.Zones {
		names[i] = z.Name
	}
	return names
}
