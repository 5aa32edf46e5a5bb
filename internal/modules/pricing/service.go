// README: Fare estimation service; pure composition over rule and zone sources.
package pricing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ridefare/internal/geo"
	"ridefare/internal/modules/zone"
	"ridefare/internal/types"
)

// RuleSource and ZoneSource are the read-only master data feeds owned by the
// admin CRUD layer; the engine never writes rule or zone tables.
type RuleSource interface {
	ListActive(ctx context.Context) ([]Rule, error)
}

type ZoneSource interface {
	ListActive(ctx context.Context) ([]zone.Zone, error)
}

// RouteEstimator resolves road distance and duration for quotes that arrive
// with only coordinates. Optional collaborator.
type RouteEstimator interface {
	Estimate(ctx context.Context, origin, destination types.Point) (distanceKm, durationMin float64, err error)
}

type Config struct {
	Currency string
	// AvgSpeedKmh converts straight-line distance into a duration estimate
	// when no route estimator is configured.
	AvgSpeedKmh float64
}

type Service struct {
	rules  RuleSource
	zones  ZoneSource
	routes RouteEstimator
	cfg    Config
	logger *zap.Logger
}

func NewService(rules RuleSource, zones ZoneSource, routes RouteEstimator, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Currency == "" {
		cfg.Currency = types.DefaultCurrency
	}
	if cfg.AvgSpeedKmh <= 0 {
		cfg.AvgSpeedKmh = 30
	}
	return &Service{rules: rules, zones: zones, routes: routes, cfg: cfg, logger: logger}
}

type EstimateRequest struct {
	Origin      types.Point
	Destination types.Point
	// DistanceKm/DurationMin are used as given when positive; otherwise the
	// service resolves them from the route.
	DistanceKm  float64
	DurationMin float64
	Timestamp   time.Time // zero means now
}

type EstimateResult struct {
	Breakdown   FareBreakdown `json:"breakdown"`
	DistanceKm  float64       `json:"distance_km"`
	DurationMin float64       `json:"duration_min"`
	Zones       []string      `json:"zones,omitempty"`
	Restricted  bool          `json:"restricted"`
}

// Estimate computes a fare quote. Read-only and idempotent: safe to call
// repeatedly; promo redemption happens elsewhere at charge time.
func (s *Service) Estimate(ctx context.Context, req EstimateRequest) (EstimateResult, error) {
	if req.DistanceKm < 0 || req.DurationMin < 0 {
		return EstimateResult{}, fmt.Errorf("%w: negative distance or duration", ErrInvalidInput)
	}

	at := req.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	distanceKm, durationMin, err := s.resolveTrip(ctx, req)
	if err != nil {
		return EstimateResult{}, err
	}

	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return EstimateResult{}, fmt.Errorf("load pricing rules: %w", err)
	}
	zones, err := s.zones.ListActive(ctx)
	if err != nil {
		return EstimateResult{}, fmt.Errorf("load zones: %w", err)
	}

	resolved, err := Resolve(rules, zones, req.Origin, at)
	if err != nil {
		return EstimateResult{}, err
	}

	breakdown, err := Calculate(resolved, distanceKm, durationMin)
	if err != nil {
		return EstimateResult{}, err
	}
	breakdown.Currency = s.cfg.Currency

	s.logger.Info("fare estimated",
		zap.Float64("distance_km", distanceKm),
		zap.Float64("duration_min", durationMin),
		zap.String("subtotal", breakdown.Subtotal.String()),
		zap.Strings("zones", resolved.Zones.Names()),
		zap.Bool("restricted", resolved.Zones.Restricted()),
	)

	return EstimateResult{
		Breakdown:   breakdown,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Zones:       resolved.Zones.Names(),
		Restricted:  resolved.Zones.Restricted(),
	}, nil
}

// resolveTrip fills in distance and duration when the caller did not measure
// them: road routing when available, straight-line haversine at a configured
// average speed as the fallback.
func (s *Service) resolveTrip(ctx context.Context, req EstimateRequest) (float64, float64, error) {
	if req.DistanceKm > 0 && req.DurationMin > 0 {
		return req.DistanceKm, req.DurationMin, nil
	}
	if req.Origin == req.Destination && req.DistanceKm == 0 && req.DurationMin == 0 {
		return 0, 0, fmt.Errorf("%w: no distance, duration or route given", ErrInvalidInput)
	}

	if s.routes != nil {
		km, mins, err := s.routes.Estimate(ctx, req.Origin, req.Destination)
		if err == nil {
			return km, mins, nil
		}
		s.logger.Warn("route estimate failed, falling back to straight-line", zap.Error(err))
	}

	km := req.DistanceKm
	if km == 0 {
		km = geo.HaversineKm(req.Origin, req.Destination)
	}
	mins := req.DurationMin
	if mins == 0 {
		mins = km / s.cfg.AvgSpeedKmh * 60
	}
	return km, mins, nil
}
