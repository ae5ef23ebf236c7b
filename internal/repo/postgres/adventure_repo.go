package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
)

type AdventureRepo struct {
	pool *pgxpool.Pool
}

func NewAdventureRepo(pool *pgxpool.Pool) *AdventureRepo {
	return &AdventureRepo{pool: pool}
}

func (r *AdventureRepo) Create(ctx context.Context, adventure model.Adventure) (model.Adventure, error) {
	if adventure.CreatorID <= 0 || adventure.Title == "" {
		return model.Adventure{}, fmt.Errorf("invalid adventure payload")
	}
	if r.pool == nil {
		return model.Adventure{}, fmt.Errorf("postgres pool is nil")
	}

	var created model.Adventure
	err := r.pool.QueryRow(ctx, `
INSERT INTO adventures (
	creator_id,
	title,
	description,
	category,
	max_participants,
	starts_at,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, NOW())
RETURNING id, creator_id, title, description, category, max_participants, starts_at, created_at
`, adventure.CreatorID,
		adventure.Title,
		adventure.Description,
		adventure.Category,
		adventure.MaxParticipants,
		adventure.StartsAt,
	).Scan(
		&created.ID,
		&created.CreatorID,
		&created.Title,
		&created.Description,
		&created.Category,
		&created.MaxParticipants,
		&created.StartsAt,
		&created.CreatedAt,
	)
	if err != nil {
		return model.Adventure{}, fmt.Errorf("create adventure: %w", err)
	}

	return created, nil
}

func (r *AdventureRepo) CountByCreatorSince(ctx context.Context, creatorID int64, since time.Time) (int, error) {
	if creatorID <= 0 {
		return 0, fmt.Errorf("invalid creator id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM adventures
WHERE creator_id = $1 AND created_at >= $2
`, creatorID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count adventures since: %w", err)
	}

	return count, nil
}

func (r *AdventureRepo) List(ctx context.Context, category string, limit int) ([]model.Adventure, error) {
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []model.Adventure{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, creator_id, title, description, category, max_participants, starts_at, created_at
FROM adventures
WHERE $1 = '' OR category = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("list adventures: %w", err)
	}
	defer rows.Close()

	items := make([]model.Adventure, 0, limit)
	for rows.Next() {
		var adventure model.Adventure
		if err := rows.Scan(
			&adventure.ID,
			&adventure.CreatorID,
			&adventure.Title,
			&adventure.Description,
			&adventure.Category,
			&adventure.MaxParticipants,
			&adventure.StartsAt,
			&adventure.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan adventure: %w", err)
		}
		items = append(items, adventure)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate adventures: %w", rows.Err())
	}

	return items, nil
}
