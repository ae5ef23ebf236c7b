package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `
	id,
	COALESCE(name, ''),
	COALESCE(handle, ''),
	COALESCE(bio, ''),
	COALESCE(age, 0),
	COALESCE(photo_count, 0),
	has_completed_onboarding,
	is_premium,
	COALESCE(subscription_tier, 'free'),
	premium_since,
	premium_expires_at,
	created_at
`

func (r *UserRepo) Get(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.User{}, ErrUserNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+userColumns+`
FROM users
WHERE id = $1
LIMIT 1
`, userID)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// ExpirePremium downgrades a lapsed premium user to the free tier. Safe
// to call on every read; a no-op once the user is already free.
func (r *UserRepo) ExpirePremium(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users
SET
	is_premium = FALSE,
	subscription_tier = 'free',
	premium_expires_at = NULL,
	updated_at = NOW()
WHERE id = $1 AND is_premium = TRUE
`, userID); err != nil {
		return fmt.Errorf("expire premium: %w", err)
	}

	return nil
}

func (r *UserRepo) ActivatePremium(ctx context.Context, userID int64, since, expiresAt time.Time) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users
SET
	is_premium = TRUE,
	subscription_tier = 'premium',
	premium_since = $2,
	premium_expires_at = $3,
	updated_at = NOW()
WHERE id = $1
`, userID, since, expiresAt)
	if err != nil {
		return fmt.Errorf("activate premium: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) DeactivatePremium(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users
SET
	is_premium = FALSE,
	subscription_tier = 'free',
	premium_since = NULL,
	premium_expires_at = NULL,
	updated_at = NOW()
WHERE id = $1
`, userID)
	if err != nil {
		return fmt.Errorf("deactivate premium: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListCandidates returns onboarded users not in excludeIDs. Dating mode
// only surfaces profiles with at least one photo.
func (r *UserRepo) ListCandidates(ctx context.Context, userID int64, excludeIDs []int64, mode enums.MatchMode, limit int) ([]model.User, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 20
	}
	if r.pool == nil {
		return []model.User{}, nil
	}

	exclude := append([]int64{userID}, excludeIDs...)
	requirePhoto := mode == enums.MatchModeDating

	rows, err := r.pool.Query(ctx, `
SELECT`+userColumns+`
FROM users
WHERE
	id <> ALL($1)
	AND has_completed_onboarding = TRUE
	AND (NOT $2 OR COALESCE(photo_count, 0) > 0)
ORDER BY created_at DESC, id DESC
LIMIT $3
`, exclude, requirePhoto, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	items := make([]model.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidates: %w", rows.Err())
	}

	return items, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Handle,
		&user.Bio,
		&user.Age,
		&user.PhotoCount,
		&user.HasCompletedOnboarding,
		&user.IsPremium,
		&user.SubscriptionTier,
		&user.PremiumSince,
		&user.PremiumExpiresAt,
		&user.CreatedAt,
	); err != nil {
		return model.User{}, err
	}
	return user, nil
}
