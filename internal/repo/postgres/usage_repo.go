package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageRepo tracks per-user daily swipe counters keyed by a local date
// string. A new day key starts a fresh row, which is the implicit reset.
type UsageRepo struct {
	pool *pgxpool.Pool
}

func NewUsageRepo(pool *pgxpool.Pool) *UsageRepo {
	return &UsageRepo{pool: pool}
}

func (r *UsageRepo) GetSwipesUsed(ctx context.Context, userID int64, dayKey string) (int, error) {
	if userID <= 0 || strings.TrimSpace(dayKey) == "" {
		return 0, fmt.Errorf("invalid usage lookup payload")
	}
	if r.pool == nil {
		return 0, nil
	}

	var swipesUsed int
	err := r.pool.QueryRow(ctx, `
SELECT swipes_used
FROM usage_daily
WHERE user_id = $1 AND day_key = $2::date
LIMIT 1
`, userID, dayKey).Scan(&swipesUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get daily swipe usage: %w", err)
	}

	return swipesUsed, nil
}

func (r *UsageRepo) IncrementSwipes(ctx context.Context, userID int64, dayKey, timezone string, delta int) (int, error) {
	if userID <= 0 || strings.TrimSpace(dayKey) == "" {
		return 0, fmt.Errorf("invalid usage update payload")
	}
	if delta <= 0 {
		delta = 1
	}
	if strings.TrimSpace(timezone) == "" {
		timezone = "UTC"
	}
	if r.pool == nil {
		return delta, nil
	}

	var swipesUsed int
	err := r.pool.QueryRow(ctx, `
INSERT INTO usage_daily (
	user_id,
	day_key,
	tz_name,
	swipes_used,
	updated_at
) VALUES ($1, $2::date, $3, $4, NOW())
ON CONFLICT (user_id, day_key) DO UPDATE SET
	swipes_used = usage_daily.swipes_used + EXCLUDED.swipes_used,
	tz_name = EXCLUDED.tz_name,
	updated_at = NOW()
RETURNING swipes_used
`, userID, dayKey, timezone, delta).Scan(&swipesUsed)
	if err != nil {
		return 0, fmt.Errorf("increment daily swipe usage: %w", err)
	}

	return swipesUsed, nil
}
