package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ridefare/internal/geo"
	"ridefare/internal/modules/zone"
	"ridefare/internal/types"
)

func baseRule() Rule {
	b := standardBase()
	return Rule{ID: "r_base", Name: "standard tariff", Type: RuleBase, Active: true,
		SurgeMultiplier: decimal.NewFromInt(1), Base: &b}
}

func nightRule() Rule {
	return Rule{ID: "r_night", Name: "late night", Type: RuleTimeBased, Active: true,
		SurgeMultiplier: dec("1.2"),
		Window:          &TimeWindow{Start: 22 * 60, End: 4 * 60, DaysOfWeek: EveryDay}}
}

func premiumZone() zone.Zone {
	return zone.Zone{
		ID: "z_premium", Name: "premium", Type: zone.TypePremiumArea, Active: true,
		Boundary: geo.Polygon{
			{Lat: 0, Lng: 0}, {Lat: 0, Lng: 10}, {Lat: 10, Lng: 10}, {Lat: 10, Lng: 0},
		},
		PricingMultiplier: dec("1.5"),
		AirportFee:        dec("2.00"),
	}
}

func noon() time.Time {
	return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
}

func TestResolve_BaseOnly(t *testing.T) {
	r, err := Resolve([]Rule{baseRule()}, nil, types.Point{Lat: 50, Lng: 50}, noon())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !r.SurgeMultiplier.Equal(dec("1")) || !r.ZoneMultiplier.Equal(dec("1")) {
		t.Errorf("multipliers = %s/%s, want 1/1", r.SurgeMultiplier, r.ZoneMultiplier)
	}
	if !r.ZoneFees.IsZero() {
		t.Errorf("ZoneFees = %s, want 0", r.ZoneFees)
	}
	if !r.Base.BaseFare.Equal(dec("2.50")) {
		t.Errorf("BaseFare = %s, want 2.50", r.Base.BaseFare)
	}
}

func TestResolve_NoBaseRule(t *testing.T) {
	_, err := Resolve([]Rule{nightRule()}, nil, types.Point{}, noon())
	if !errors.Is(err, ErrNoBaseRule) {
		t.Errorf("err = %v, want ErrNoBaseRule", err)
	}

	// an inactive base rule does not count
	inactive := baseRule()
	inactive.Active = false
	_, err = Resolve([]Rule{inactive}, nil, types.Point{}, noon())
	if !errors.Is(err, ErrNoBaseRule) {
		t.Errorf("inactive base: err = %v, want ErrNoBaseRule", err)
	}
}

func TestResolve_MultipleBaseRules(t *testing.T) {
	second := baseRule()
	second.ID = "r_base2"
	_, err := Resolve([]Rule{baseRule(), second}, nil, types.Point{}, noon())
	if !errors.Is(err, ErrMultipleBaseRules) {
		t.Errorf("err = %v, want ErrMultipleBaseRules", err)
	}
}

func TestResolve_TimeSurgeCompounds(t *testing.T) {
	extra := Rule{ID: "r_event", Type: RuleTimeBased, Active: true,
		SurgeMultiplier: dec("1.5"),
		Window:          &TimeWindow{Start: 22 * 60, End: 4 * 60, DaysOfWeek: EveryDay}}

	at := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	r, err := Resolve([]Rule{baseRule(), nightRule(), extra}, nil, types.Point{}, at)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// 1.2 * 1.5 = 1.8
	if !r.SurgeMultiplier.Equal(dec("1.8")) {
		t.Errorf("SurgeMultiplier = %s, want 1.8", r.SurgeMultiplier)
	}
}

func TestResolve_ZoneMultiplierAndFees(t *testing.T) {
	r, err := Resolve([]Rule{baseRule()}, []zone.Zone{premiumZone()}, types.Point{Lat: 5, Lng: 5}, noon())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !r.ZoneMultiplier.Equal(dec("1.5")) {
		t.Errorf("ZoneMultiplier = %s, want 1.5", r.ZoneMultiplier)
	}
	if !r.ZoneFees.Equal(dec("2.00")) {
		t.Errorf("ZoneFees = %s, want 2.00", r.ZoneFees)
	}
}

// zone_based rules fold their multiplier into the zone multiplier, but only
// when their zone actually contains the pickup.
func TestResolve_ZoneBasedRule(t *testing.T) {
	zr := Rule{ID: "r_zone", Type: RuleZoneBased, Active: true,
		SurgeMultiplier: dec("1.1"), ZoneID: "z_premium"}
	other := Rule{ID: "r_other_zone", Type: RuleZoneBased, Active: true,
		SurgeMultiplier: dec("9"), ZoneID: "z_elsewhere"}

	inZone := types.Point{Lat: 5, Lng: 5}
	r, err := Resolve([]Rule{baseRule(), zr, other}, []zone.Zone{premiumZone()}, inZone, noon())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// 1.5 (zone) * 1.1 (zone rule); the unmatched zone rule is ignored
	if !r.ZoneMultiplier.Equal(dec("1.65")) {
		t.Errorf("ZoneMultiplier = %s, want 1.65", r.ZoneMultiplier)
	}

	outside := types.Point{Lat: 50, Lng: 50}
	r, err = Resolve([]Rule{baseRule(), zr}, []zone.Zone{premiumZone()}, outside, noon())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !r.ZoneMultiplier.Equal(dec("1")) {
		t.Errorf("outside zone: ZoneMultiplier = %s, want 1", r.ZoneMultiplier)
	}
}

func TestResolve_RestrictedZoneSurfaces(t *testing.T) {
	nogo := zone.Zone{
		ID: "z_nogo", Name: "nogo", Type: zone.TypeRestricted, Active: true,
		Boundary: geo.Polygon{
			{Lat: 0, Lng: 0}, {Lat: 0, Lng: 10}, {Lat: 10, Lng: 10}, {Lat: 10, Lng: 0},
		},
		PricingMultiplier: decimal.NewFromInt(1),
	}
	r, err := Resolve([]Rule{baseRule()}, []zone.Zone{nogo}, types.Point{Lat: 5, Lng: 5}, noon())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !r.Zones.Restricted() {
		t.Error("restricted match not surfaced; callers need it to reject dispatch")
	}
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Rule)
		wantErr bool
	}{
		{"valid base", func(r *Rule) {}, false},
		{"surge below one", func(r *Rule) { r.SurgeMultiplier = dec("0.9") }, true},
		{"base missing rates", func(r *Rule) { r.Base = nil }, true},
		{"unknown type", func(r *Rule) { r.Type = "dynamic" }, true},
		{"negative rate", func(r *Rule) {
			b := *r.Base
			b.PerKmRate = dec("-1")
			r.Base = &b
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseRule()
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRule) {
				t.Errorf("Validate() = %v, want wrapped ErrInvalidRule", err)
			}
		})
	}

	tr := nightRule()
	if err := tr.Validate(); err != nil {
		t.Errorf("time rule Validate() = %v", err)
	}
	tr.Window = nil
	if err := tr.Validate(); err == nil {
		t.Error("time rule without window passed validation")
	}
}
