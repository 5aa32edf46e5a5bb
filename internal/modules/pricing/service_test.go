package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"ridefare/internal/modules/zone"
	"ridefare/internal/types"
)

type staticRules []Rule

func (s staticRules) ListActive(ctx context.Context) ([]Rule, error) { return s, nil }

type staticZones []zone.Zone

func (s staticZones) ListActive(ctx context.Context) ([]zone.Zone, error) { return s, nil }

type fixedRoute struct {
	km, mins float64
	err      error
}

func (f fixedRoute) Estimate(ctx context.Context, origin, destination types.Point) (float64, float64, error) {
	return f.km, f.mins, f.err
}

func newTestService(rules []Rule, zones []zone.Zone, routes RouteEstimator) *Service {
	return NewService(staticRules(rules), staticZones(zones), routes, Config{}, nil)
}

func TestServiceEstimate(t *testing.T) {
	svc := newTestService([]Rule{baseRule()}, nil, nil)

	res, err := svc.Estimate(context.Background(), EstimateRequest{
		DistanceKm:  3,
		DurationMin: 10,
		Timestamp:   noon(),
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if !res.Breakdown.Subtotal.Equal(dec("9.60")) {
		t.Errorf("Subtotal = %s, want 9.60", res.Breakdown.Subtotal)
	}
	if res.Restricted {
		t.Error("unexpected restricted flag")
	}
}

// Repeated estimates with identical inputs return identical fares.
func TestServiceEstimate_Idempotent(t *testing.T) {
	svc := newTestService([]Rule{baseRule(), nightRule()}, []zone.Zone{premiumZone()}, nil)
	req := EstimateRequest{
		Origin:      types.Point{Lat: 5, Lng: 5},
		DistanceKm:  7.3,
		DurationMin: 21,
		Timestamp:   time.Date(2026, 3, 2, 23, 15, 0, 0, time.UTC),
	}

	first, err := svc.Estimate(context.Background(), req)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := svc.Estimate(context.Background(), req)
		if err != nil {
			t.Fatalf("Estimate() error = %v", err)
		}
		if !again.Breakdown.Total.Equal(first.Breakdown.Total) {
			t.Fatalf("quote changed between calls: %s vs %s", again.Breakdown.Total, first.Breakdown.Total)
		}
	}
}

func TestServiceEstimate_NoBaseRule(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	_, err := svc.Estimate(context.Background(), EstimateRequest{DistanceKm: 1, DurationMin: 1})
	if !errors.Is(err, ErrNoBaseRule) {
		t.Errorf("err = %v, want ErrNoBaseRule", err)
	}
}

func TestServiceEstimate_NegativeInput(t *testing.T) {
	svc := newTestService([]Rule{baseRule()}, nil, nil)
	_, err := svc.Estimate(context.Background(), EstimateRequest{DistanceKm: -2, DurationMin: 1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestServiceEstimate_RouteResolution(t *testing.T) {
	svc := newTestService([]Rule{baseRule()}, nil, fixedRoute{km: 3, mins: 10})

	res, err := svc.Estimate(context.Background(), EstimateRequest{
		Origin:      types.Point{Lat: 37.77, Lng: -122.42},
		Destination: types.Point{Lat: 37.79, Lng: -122.40},
		Timestamp:   noon(),
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if res.DistanceKm != 3 || res.DurationMin != 10 {
		t.Errorf("trip = %v km / %v min, want 3/10 from route", res.DistanceKm, res.DurationMin)
	}
	if !res.Breakdown.Subtotal.Equal(dec("9.60")) {
		t.Errorf("Subtotal = %s, want 9.60", res.Breakdown.Subtotal)
	}
}

func TestServiceEstimate_HaversineFallback(t *testing.T) {
	// route estimator fails; straight-line distance at the default 30 km/h
	svc := newTestService([]Rule{baseRule()}, nil, fixedRoute{err: errors.New("quota exceeded")})

	res, err := svc.Estimate(context.Background(), EstimateRequest{
		Origin:      types.Point{Lat: 37.70, Lng: -122.42},
		Destination: types.Point{Lat: 37.79, Lng: -122.42},
		Timestamp:   noon(),
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	// 0.09 degrees of latitude is ~10km
	if res.DistanceKm < 9 || res.DistanceKm > 11 {
		t.Errorf("DistanceKm = %v, want ~10", res.DistanceKm)
	}
	wantMins := res.DistanceKm / 30 * 60
	if res.DurationMin != wantMins {
		t.Errorf("DurationMin = %v, want %v", res.DurationMin, wantMins)
	}
}

func TestServiceEstimate_NoTripData(t *testing.T) {
	svc := newTestService([]Rule{baseRule()}, nil, nil)
	_, err := svc.Estimate(context.Background(), EstimateRequest{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
