// README: Promo store backed by PostgreSQL; reservation is one transaction.
package promo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"ridefare/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) FindByCode(ctx context.Context, canonical string) (*Code, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, code, discount_type, discount_value::text,
		       max_discount_amount::text, min_trip_amount::text,
		       total_usage_limit, max_usage_per_user,
		       valid_from, valid_to, active
		FROM promo_codes
		WHERE upper(code) = $1`, canonical)

	var (
		c                  Code
		discountValue      string
		maxDiscount, minTrip sql.NullString
		totalLimit         sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.Code, &c.DiscountType, &discountValue,
		&maxDiscount, &minTrip, &totalLimit, &c.MaxUsagePerUser,
		&c.ValidFrom, &c.ValidTo, &c.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, err
	}

	if c.DiscountValue, err = decimal.NewFromString(discountValue); err != nil {
		return nil, err
	}
	if maxDiscount.Valid {
		d, err := decimal.NewFromString(maxDiscount.String)
		if err != nil {
			return nil, err
		}
		c.MaxDiscountAmount = &d
	}
	if minTrip.Valid {
		d, err := decimal.NewFromString(minTrip.String)
		if err != nil {
			return nil, err
		}
		c.MinTripAmount = &d
	}
	if totalLimit.Valid {
		n := int(totalLimit.Int64)
		c.TotalUsageLimit = &n
	}
	return &c, nil
}

// Reserve consumes one usage slot in a single transaction. The conditional
// UPDATE both takes the global slot and row-locks the promo, serializing
// per-user counting for the same code across concurrent service instances.
// RowsAffected == 0 means the last global slot is gone. The per-user cap is a
// guarded INSERT under that lock.
func (s *PGStore) Reserve(ctx context.Context, code *Code, usage *Usage) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reserve: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE promo_codes
		SET usage_count = usage_count + 1
		WHERE id = $1
		  AND (total_usage_limit IS NULL OR usage_count < total_usage_limit)`,
		string(code.ID))
	if err != nil {
		return fmt.Errorf("take usage slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPromoUsageExceeded
	}

	var inserted bool
	err = tx.QueryRow(ctx, `
		INSERT INTO promo_code_usages (id, promo_code_id, user_id, trip_id, redeemed_at, discount_applied)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE (SELECT count(*) FROM promo_code_usages
		       WHERE promo_code_id = $2 AND user_id = $3) < $7
		RETURNING true`,
		string(usage.ID), string(code.ID), string(usage.UserID), string(usage.TripID),
		usage.RedeemedAt, usage.DiscountApplied.String(), code.MaxUsagePerUser,
	).Scan(&inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPromoUserLimitExceeded
	}
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}

	return tx.Commit(ctx)
}

// UsageCounts reports global and per-user redemption counts, for admin reads.
func (s *PGStore) UsageCounts(ctx context.Context, promoCodeID, userID types.ID) (total, byUser int, err error) {
	err = s.db.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE user_id = $2)
		FROM promo_code_usages
		WHERE promo_code_id = $1`,
		string(promoCodeID), string(userID)).Scan(&total, &byUser)
	return total, byUser, err
}
