// README: Fare formula; fixed composition order for reproducibility.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ridefare/internal/types"
)

// Calculate applies the resolved rule set to measured distance and duration.
//
//	distanceCharge = perKmRate * distanceKm
//	timeCharge     = perMinuteRate * durationMin
//	rawSubtotal    = baseFare + bookingFee + distanceCharge + timeCharge
//	surged         = rawSubtotal * surgeMultiplier * zoneMultiplier
//	subtotal       = max(surged + zoneFees, minimumFare)
//
// The minimum fare floors the post-surge, post-fee subtotal, not the raw base.
// Intermediate math keeps full decimal precision; each exported field is
// rounded to 2dp (banker's) exactly once at assembly.
func Calculate(r ResolvedRuleSet, distanceKm, durationMin float64) (FareBreakdown, error) {
	if distanceKm < 0 || durationMin < 0 {
		return FareBreakdown{}, fmt.Errorf("%w: negative distance or duration", ErrInvalidInput)
	}

	dist := decimal.NewFromFloat(distanceKm)
	dur := decimal.NewFromFloat(durationMin)

	distanceCharge := r.Base.PerKmRate.Mul(dist)
	timeCharge := r.Base.PerMinuteRate.Mul(dur)
	rawSubtotal := r.Base.BaseFare.Add(r.Base.BookingFee).Add(distanceCharge).Add(timeCharge)
	surged := rawSubtotal.Mul(r.SurgeMultiplier).Mul(r.ZoneMultiplier)

	subtotal := surged.Add(r.ZoneFees)
	if subtotal.LessThan(r.Base.MinimumFare) {
		subtotal = r.Base.MinimumFare
	}

	round := types.RoundMoney
	return FareBreakdown{
		BaseFare:        round(r.Base.BaseFare),
		BookingFee:      round(r.Base.BookingFee),
		DistanceCharge:  round(distanceCharge),
		TimeCharge:      round(timeCharge),
		SurgeMultiplier: r.SurgeMultiplier,
		ZoneMultiplier:  r.ZoneMultiplier,
		ZoneFees:        round(r.ZoneFees),
		Subtotal:        round(subtotal),
		Discount:        decimal.Zero,
		Total:           round(subtotal),
		Currency:        types.DefaultCurrency,
	}, nil
}
