// README: Pricing rule variants and the per-request fare breakdown.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ridefare/internal/types"
)

type RuleType string

const (
	RuleBase      RuleType = "base"
	RuleTimeBased RuleType = "time_based"
	RuleZoneBased RuleType = "zone_based"
)

var (
	// ErrNoBaseRule is a configuration error: fares without a base tariff are
	// meaningless. It propagates to the caller as a server-side failure and is
	// never defaulted away.
	ErrNoBaseRule = errors.New("no active base pricing rule configured")
	// ErrMultipleBaseRules: the system invariant is exactly one active base rule.
	ErrMultipleBaseRules = errors.New("more than one active base pricing rule")
	ErrInvalidRule       = errors.New("invalid pricing rule")
	ErrInvalidInput      = errors.New("invalid trip input")
)

// BaseRates is the always-applicable tariff carried by the single active base rule.
type BaseRates struct {
	BaseFare      decimal.Decimal `json:"base_fare"`
	BookingFee    decimal.Decimal `json:"booking_fee"`
	PerKmRate     decimal.Decimal `json:"per_km_rate"`
	PerMinuteRate decimal.Decimal `json:"per_minute_rate"`
	MinimumFare   decimal.Decimal `json:"minimum_fare"`
}

func (b BaseRates) validate() error {
	for _, d := range []decimal.Decimal{b.BaseFare, b.BookingFee, b.PerKmRate, b.PerMinuteRate, b.MinimumFare} {
		if d.IsNegative() {
			return fmt.Errorf("%w: negative base rate", ErrInvalidRule)
		}
	}
	return nil
}

// MinuteOfDay is a local time of day in minutes since midnight (0..1439).
type MinuteOfDay int

func MinuteOf(t time.Time) MinuteOfDay {
	return MinuteOfDay(t.Hour()*60 + t.Minute())
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// ParseMinuteOfDay parses "HH:MM".
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: time of day %q", ErrInvalidRule, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time of day %q", ErrInvalidRule, s)
	}
	return MinuteOfDay(h*60 + m), nil
}

// DaySet is a bitmask of weekdays, bit 0 = Sunday (time.Weekday numbering).
type DaySet uint8

const EveryDay DaySet = 0x7f

func NewDaySet(days ...time.Weekday) DaySet {
	var s DaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

func (s DaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// TimeWindow is a local time-of-day window with a day-of-week filter.
// End at or before Start wraps past midnight (22:00-04:00 covers late night).
type TimeWindow struct {
	Start      MinuteOfDay `json:"start"`
	End        MinuteOfDay `json:"end"`
	DaysOfWeek DaySet      `json:"days_of_week"`
}

// Rule is a closed tagged variant: Type selects which payload must be set, and
// consumers type-switch over RuleType so a new variant cannot slip through
// unhandled.
type Rule struct {
	ID              types.ID        `json:"id"`
	Name            string          `json:"name"`
	Type            RuleType        `json:"type"`
	Active          bool            `json:"active"`
	SurgeMultiplier decimal.Decimal `json:"surge_multiplier"`

	// exactly one of the following is set, per Type
	Base   *BaseRates  `json:"base,omitempty"`    // RuleBase
	Window *TimeWindow `json:"window,omitempty"`  // RuleTimeBased
	ZoneID types.ID    `json:"zone_id,omitempty"` // RuleZoneBased
}

func (r Rule) Validate() error {
	if r.SurgeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: surge multiplier %s < 1", ErrInvalidRule, r.SurgeMultiplier)
	}
	switch r.Type {
	case RuleBase:
		if r.Base == nil {
			return fmt.Errorf("%w: base rule %s missing rates", ErrInvalidRule, r.ID)
		}
		return r.Base.validate()
	case RuleTimeBased:
		if r.Window == nil {
			return fmt.Errorf("%w: time rule %s missing window", ErrInvalidRule, r.ID)
		}
		return nil
	case RuleZoneBased:
		if r.ZoneID == "" {
			return fmt.Errorf("%w: zone rule %s missing zone id", ErrInvalidRule, r.ID)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown rule type %q", ErrInvalidRule, r.Type)
	}
}

// FareBreakdown is computed per request and owned by the caller; the engine
// never persists it. All monetary fields are rounded to 2dp (banker's).
type FareBreakdown struct {
	BaseFare        decimal.Decimal `json:"base_fare"`
	BookingFee      decimal.Decimal `json:"booking_fee"`
	DistanceCharge  decimal.Decimal `json:"distance_charge"`
	TimeCharge      decimal.Decimal `json:"time_charge"`
	SurgeMultiplier decimal.Decimal `json:"surge_multiplier"`
	ZoneMultiplier  decimal.Decimal `json:"zone_multiplier"`
	ZoneFees        decimal.Decimal `json:"zone_fees"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	Currency        string          `json:"currency"`
}
