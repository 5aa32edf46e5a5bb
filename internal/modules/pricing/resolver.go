// README: Aggregates base, time and zone rules into one resolved set.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"ridefare/internal/modules/zone"
	"ridefare/internal/types"
)

// ResolvedRuleSet is the composed pricing pipeline for one trip context.
type ResolvedRuleSet struct {
	Base            BaseRates
	SurgeMultiplier decimal.Decimal
	ZoneMultiplier  decimal.Decimal
	ZoneFees        decimal.Decimal
	Zones           zone.MatchResult
}

// Resolve builds the rule set for a pickup point at a given time:
// the single active base rule, the product of matching time-rule surge
// multipliers, and the zone multiplier/fees from the matched zones.
// zone_based rules whose zone matched fold their surge multiplier into the
// zone multiplier (they are per-area cost modifiers, not demand surge).
func Resolve(rules []Rule, zones []zone.Zone, pt types.Point, t time.Time) (ResolvedRuleSet, error) {
	var base *BaseRates
	for _, r := range rules {
		if !r.Active || r.Type != RuleBase {
			continue
		}
		if base != nil {
			return ResolvedRuleSet{}, ErrMultipleBaseRules
		}
		if err := r.Validate(); err != nil {
			return ResolvedRuleSet{}, err
		}
		b := *r.Base
		base = &b
	}
	if base == nil {
		return ResolvedRuleSet{}, ErrNoBaseRule
	}

	matched, err := zone.Match(zones, pt)
	if err != nil {
		return ResolvedRuleSet{}, err
	}

	surge := decimal.NewFromInt(1)
	for _, r := range MatchTimeRules(rules, t) {
		surge = surge.Mul(r.SurgeMultiplier)
	}

	zoneMult := matched.Multiplier()
	for _, r := range rules {
		if !r.Active || r.Type != RuleZoneBased {
			continue
		}
		if containsZone(matched, r.ZoneID) {
			zoneMult = zoneMult.Mul(r.SurgeMultiplier)
		}
	}

	return ResolvedRuleSet{
		Base:            *base,
		SurgeMultiplier: surge,
		ZoneMultiplier:  zoneMult,
		ZoneFees:        matched.Fees(),
		Zones:           matched,
	}, nil
}

func containsZone(m zone.MatchResult, id types.ID) bool {
	for _, z := range m.Zones {
		if z.ID == id && z.Type != zone.TypeRestricted {
			return true
		}
	}
	return false
}
