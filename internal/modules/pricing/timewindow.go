// README: Time-window matching for surge rules, including overnight wrap.
package pricing

import "time"

// Contains reports whether t falls inside the window. The window is
// [Start, End) in the timestamp's own location; End <= Start wraps past
// midnight, so 22:00-04:00 matches 23:30 but not 05:00. Start == End is a
// full-day window. The day filter applies to the timestamp's own weekday,
// even inside the wrapped tail of an overnight window.
func (w TimeWindow) Contains(t time.Time) bool {
	if !w.DaysOfWeek.Has(t.Weekday()) {
		return false
	}
	m := MinuteOf(t)
	if w.End <= w.Start {
		return m >= w.Start || m < w.End
	}
	return m >= w.Start && m < w.End
}

// MatchTimeRules returns the active time_based rules whose window contains t,
// preserving input order. Multiple matches compose by multiplying their surge
// multipliers, consistent with zone multiplier compounding.
func MatchTimeRules(rules []Rule, t time.Time) []Rule {
	var matched []Rule
	for _, r := range rules {
		if !r.Active || r.Type != RuleTimeBased || r.Window == nil {
			continue
		}
		if r.Window.Contains(t) {
			matched = append(matched, r)
		}
	}
	return matched
}
