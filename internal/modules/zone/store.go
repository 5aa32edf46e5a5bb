// README: Zone store backed by PostgreSQL with a Redis snapshot cache.
package zone

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"ridefare/internal/geo"
	"ridefare/internal/types"
)

const activeSnapshotKey = "zones:active:snapshot"

type Store struct {
	db       *pgxpool.Pool
	redis    *redis.Client
	cacheTTL time.Duration
}

// NewStore creates a zone store. redis may be nil; caching is then disabled.
func NewStore(db *pgxpool.Pool, redis *redis.Client, cacheTTL time.Duration) *Store {
	return &Store{db: db, redis: redis, cacheTTL: cacheTTL}
}

// ListActive returns all active zones. Reads go through a short-TTL Redis
// snapshot so hot quoting does not hit Postgres per request; master data
// changes become visible within cacheTTL.
func (s *Store) ListActive(ctx context.Context) ([]Zone, error) {
	if zones, ok := s.fromCache(ctx); ok {
		return zones, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, type, boundary, pricing_multiplier::text, airport_fee::text
		FROM zones
		WHERE active
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var (
			z                    Zone
			boundaryJSON         []byte
			multiplier, feeValue string
		)
		if err := rows.Scan(&z.ID, &z.Name, &z.Type, &boundaryJSON, &multiplier, &feeValue); err != nil {
			return nil, err
		}
		var pts []types.Point
		if err := json.Unmarshal(boundaryJSON, &pts); err != nil {
			return nil, err
		}
		z.Boundary = geo.Polygon(pts)
		if z.PricingMultiplier, err = decimal.NewFromString(multiplier); err != nil {
			return nil, err
		}
		if z.AirportFee, err = decimal.NewFromString(feeValue); err != nil {
			return nil, err
		}
		z.Active = true
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.toCache(ctx, zones)
	return zones, nil
}

func (s *Store) fromCache(ctx context.Context) ([]Zone, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.Get(ctx, activeSnapshotKey).Bytes()
	if err != nil {
		return nil, false
	}
	var zones []Zone
	if err := json.Unmarshal(raw, &zones); err != nil {
		return nil, false
	}
	return zones, true
}

func (s *Store) toCache(ctx context.Context, zones []Zone) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(zones)
	if err != nil {
		return
	}
	// cache set is best-effort; the DB read already succeeded
	_ = s.redis.Set(ctx, activeSnapshotKey, raw, s.cacheTTL).Err()
}
