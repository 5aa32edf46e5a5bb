// README: Pricing rule store backed by PostgreSQL with a Redis snapshot cache.
package pricing

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"ridefare/internal/types"
)

const activeSnapshotKey = "pricing:rules:active:snapshot"

type Store struct {
	db       *pgxpool.Pool
	redis    *redis.Client
	cacheTTL time.Duration
}

// NewStore creates a rule store. redis may be nil; caching is then disabled.
func NewStore(db *pgxpool.Pool, redis *redis.Client, cacheTTL time.Duration) *Store {
	return &Store{db: db, redis: redis, cacheTTL: cacheTTL}
}

// ListActive returns all active pricing rules through the same short-TTL
// snapshot cache the zone store uses.
func (s *Store) ListActive(ctx context.Context) ([]Rule, error) {
	if rules, ok := s.fromCache(ctx); ok {
		return rules, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, type, surge_multiplier::text,
		       base_fare::text, booking_fee::text, per_km_rate::text,
		       per_minute_rate::text, minimum_fare::text,
		       start_minute, end_minute, days_of_week, zone_id
		FROM pricing_rules
		WHERE active
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.toCache(ctx, rules)
	return rules, nil
}

type ruleRow interface {
	Scan(dest ...any) error
}

func scanRule(row ruleRow) (Rule, error) {
	var (
		r                       Rule
		surge                   string
		baseFare, bookingFee    sql.NullString
		perKm, perMin, minFare  sql.NullString
		startMinute, endMinute  sql.NullInt64
		daysOfWeek              sql.NullInt64
		zoneID                  sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Type, &surge,
		&baseFare, &bookingFee, &perKm, &perMin, &minFare,
		&startMinute, &endMinute, &daysOfWeek, &zoneID); err != nil {
		return Rule{}, err
	}
	r.Active = true

	var err error
	if r.SurgeMultiplier, err = decimal.NewFromString(surge); err != nil {
		return Rule{}, err
	}

	switch r.Type {
	case RuleBase:
		b := BaseRates{}
		for _, f := range []struct {
			src sql.NullString
			dst *decimal.Decimal
		}{
			{baseFare, &b.BaseFare},
			{bookingFee, &b.BookingFee},
			{perKm, &b.PerKmRate},
			{perMin, &b.PerMinuteRate},
			{minFare, &b.MinimumFare},
		} {
			if !f.src.Valid {
				return Rule{}, fmt.Errorf("%w: base rule %s has incomplete rates", ErrInvalidRule, r.ID)
			}
			if *f.dst, err = decimal.NewFromString(f.src.String); err != nil {
				return Rule{}, err
			}
		}
		r.Base = &b
	case RuleTimeBased:
		if !startMinute.Valid || !endMinute.Valid || !daysOfWeek.Valid {
			return Rule{}, fmt.Errorf("%w: time rule %s has incomplete window", ErrInvalidRule, r.ID)
		}
		r.Window = &TimeWindow{
			Start:      MinuteOfDay(startMinute.Int64),
			End:        MinuteOfDay(endMinute.Int64),
			DaysOfWeek: DaySet(daysOfWeek.Int64),
		}
	case RuleZoneBased:
		if !zoneID.Valid {
			return Rule{}, fmt.Errorf("%w: zone rule %s has no zone id", ErrInvalidRule, r.ID)
		}
		r.ZoneID = types.ID(zoneID.String)
	default:
		return Rule{}, fmt.Errorf("%w: unknown rule type %q", ErrInvalidRule, r.Type)
	}
	return r, nil
}

func (s *Store) fromCache(ctx context.Context) ([]Rule, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.Get(ctx, activeSnapshotKey).Bytes()
	if err != nil {
		return nil, false
	}
	var rules []Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, false
	}
	return rules, true
}

func (s *Store) toCache(ctx context.Context, rules []Rule) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(rules)
	if err != nil {
		return
	}
	// cache set is best-effort; the DB read already succeeded
	_ = s.redis.Set(ctx, activeSnapshotKey, raw, s.cacheTTL).Err()
}
