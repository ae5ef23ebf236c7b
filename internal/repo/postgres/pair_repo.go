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
	"github.com/maisachinsharmahu/vanbackend/internal/domain/rules"
)

var (
	ErrPairNotFound = errors.New("match pair not found")
	ErrPairExists   = errors.New("match pair already exists")
)

// PairRepo stores one row per unordered user pair. Concurrent swipes on
// the same pair serialize on the row lock taken by the ForUpdate lookups.
type PairRepo struct {
	pool *pgxpool.Pool
}

func NewPairRepo(pool *pgxpool.Pool) *PairRepo {
	return &PairRepo{pool: pool}
}

type PairUserRecord struct {
	UserID int64
	Name   string
	Handle string
	Bio    string
	Age    int
}

type LikedPairRecord struct {
	Pair  model.MatchPair
	Other PairUserRecord
}

type IncomingPairRecord struct {
	Pair  model.MatchPair
	Other PairUserRecord
}

type AcceptedPairRecord struct {
	Pair  model.MatchPair
	Other PairUserRecord
}

const pairColumns = `
	id,
	user_a_id,
	user_b_id,
	mode,
	swipe_a,
	swipe_b,
	is_accepted,
	matched_at,
	created_at
`

func (r *PairRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userA, userB int64) (model.MatchPair, error) {
	if userA <= 0 || userB <= 0 || userA == userB {
		return model.MatchPair{}, fmt.Errorf("invalid pair lookup payload")
	}
	if tx == nil {
		return model.MatchPair{}, fmt.Errorf("transaction is required")
	}

	lo, hi := rules.NormalizePair(userA, userB)

	row := tx.QueryRow(ctx, `
SELECT`+pairColumns+`
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
FOR UPDATE
`, lo, hi)

	pair, err := scanPair(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MatchPair{}, ErrPairNotFound
		}
		return model.MatchPair{}, fmt.Errorf("lock match pair: %w", err)
	}

	return pair, nil
}

func (r *PairRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, pairID int64) (model.MatchPair, error) {
	if pairID <= 0 {
		return model.MatchPair{}, fmt.Errorf("invalid pair id")
	}
	if tx == nil {
		return model.MatchPair{}, fmt.Errorf("transaction is required")
	}

	row := tx.QueryRow(ctx, `
SELECT`+pairColumns+`
FROM matches
WHERE id = $1
FOR UPDATE
`, pairID)

	pair, err := scanPair(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MatchPair{}, ErrPairNotFound
		}
		return model.MatchPair{}, fmt.Errorf("lock match pair by id: %w", err)
	}

	return pair, nil
}

func (r *PairRepo) GetByID(ctx context.Context, pairID int64) (model.MatchPair, error) {
	if pairID <= 0 {
		return model.MatchPair{}, fmt.Errorf("invalid pair id")
	}
	if r.pool == nil {
		return model.MatchPair{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+pairColumns+`
FROM matches
WHERE id = $1
`, pairID)

	pair, err := scanPair(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MatchPair{}, ErrPairNotFound
		}
		return model.MatchPair{}, fmt.Errorf("get match pair by id: %w", err)
	}

	return pair, nil
}

// Create inserts the pair row with the actor's swipe slot filled. The
// unordered-pair unique index turns a concurrent create into ErrPairExists
// so the caller can retry against the winner's row.
func (r *PairRepo) Create(ctx context.Context, tx pgx.Tx, actorID, targetID int64, mode enums.MatchMode, action enums.SwipeAction, now time.Time) (model.MatchPair, error) {
	if actorID <= 0 || targetID <= 0 || actorID == targetID {
		return model.MatchPair{}, fmt.Errorf("invalid pair create payload")
	}
	if tx == nil {
		return model.MatchPair{}, fmt.Errorf("transaction is required")
	}

	lo, hi := rules.NormalizePair(actorID, targetID)
	swipeA, swipeB := (*enums.SwipeAction)(nil), (*enums.SwipeAction)(nil)
	if actorID == lo {
		swipeA = &action
	} else {
		swipeB = &action
	}

	row := tx.QueryRow(ctx, `
INSERT INTO matches (
	user_a_id,
	user_b_id,
	mode,
	swipe_a,
	swipe_b,
	is_accepted,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING`+pairColumns+`
`, lo, hi, string(mode), actionValue(swipeA), actionValue(swipeB), now)

	pair, err := scanPair(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MatchPair{}, ErrPairExists
		}
		return model.MatchPair{}, fmt.Errorf("create match pair: %w", err)
	}

	return pair, nil
}

// SetSwipe overwrites the actor's slot on an existing pair.
func (r *PairRepo) SetSwipe(ctx context.Context, tx pgx.Tx, pairID, actorID int64, action enums.SwipeAction) error {
	if pairID <= 0 || actorID <= 0 {
		return fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
UPDATE matches
SET
	swipe_a = CASE WHEN user_a_id = $2 THEN $3 ELSE swipe_a END,
	swipe_b = CASE WHEN user_b_id = $2 THEN $3 ELSE swipe_b END,
	updated_at = NOW()
WHERE id = $1 AND (user_a_id = $2 OR user_b_id = $2)
`, pairID, actorID, string(action))
	if err != nil {
		return fmt.Errorf("set pair swipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPairNotFound
	}

	return nil
}

// Accept promotes the pair to matched and records the actor's like in the
// same statement. The is_accepted guard means only one of two racing
// writers performs the transition.
func (r *PairRepo) Accept(ctx context.Context, tx pgx.Tx, pairID, actorID int64, matchedAt time.Time) (bool, error) {
	if pairID <= 0 || actorID <= 0 {
		return false, fmt.Errorf("invalid accept payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
UPDATE matches
SET
	is_accepted = TRUE,
	matched_at = $3,
	swipe_a = CASE WHEN user_a_id = $2 THEN 'like' ELSE swipe_a END,
	swipe_b = CASE WHEN user_b_id = $2 THEN 'like' ELSE swipe_b END,
	updated_at = NOW()
WHERE id = $1 AND is_accepted = FALSE AND (user_a_id = $2 OR user_b_id = $2)
`, pairID, actorID, matchedAt)
	if err != nil {
		return false, fmt.Errorf("accept match pair: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *PairRepo) ListAcceptedForUser(ctx context.Context, userID int64, mode enums.MatchMode, limit int) ([]AcceptedPairRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []AcceptedPairRecord{}, nil
	}

	modeFilter := string(mode)
	rows, err := r.pool.Query(ctx, `
SELECT`+pairColumns+`,
	u.id,
	COALESCE(u.name, ''),
	COALESCE(u.handle, ''),
	COALESCE(u.bio, ''),
	COALESCE(u.age, 0)
FROM matches m
JOIN users u ON u.id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE
	(m.user_a_id = $1 OR m.user_b_id = $1)
	AND m.is_accepted = TRUE
	AND ($2 = '' OR m.mode = $2)
ORDER BY m.matched_at DESC NULLS LAST, m.id DESC
LIMIT $3
`, userID, modeFilter, limit)
	if err != nil {
		return nil, fmt.Errorf("list accepted pairs: %w", err)
	}
	defer rows.Close()

	items := make([]AcceptedPairRecord, 0, limit)
	for rows.Next() {
		var item AcceptedPairRecord
		if err := scanPairWithUser(rows, &item.Pair, &item.Other); err != nil {
			return nil, fmt.Errorf("scan accepted pair: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate accepted pairs: %w", rows.Err())
	}

	return items, nil
}

// ListLikedBy returns every pair where userID's own slot holds a like,
// with the other participant's summary for categorization.
func (r *PairRepo) ListLikedBy(ctx context.Context, userID int64, limit int) ([]LikedPairRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []LikedPairRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+pairColumns+`,
	u.id,
	COALESCE(u.name, ''),
	COALESCE(u.handle, ''),
	COALESCE(u.bio, ''),
	COALESCE(u.age, 0)
FROM matches m
JOIN users u ON u.id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE
	(m.user_a_id = $1 AND m.swipe_a = 'like')
	OR (m.user_b_id = $1 AND m.swipe_b = 'like')
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list liked pairs: %w", err)
	}
	defer rows.Close()

	items := make([]LikedPairRecord, 0, limit)
	for rows.Next() {
		var item LikedPairRecord
		if err := scanPairWithUser(rows, &item.Pair, &item.Other); err != nil {
			return nil, fmt.Errorf("scan liked pair: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate liked pairs: %w", rows.Err())
	}

	return items, nil
}

// ListIncoming returns pairs awaiting userID's response: the other side
// liked, the pair is not accepted, and userID's slot is still empty.
func (r *PairRepo) ListIncoming(ctx context.Context, userID int64, limit int) ([]IncomingPairRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []IncomingPairRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+pairColumns+`,
	u.id,
	COALESCE(u.name, ''),
	COALESCE(u.handle, ''),
	COALESCE(u.bio, ''),
	COALESCE(u.age, 0)
FROM matches m
JOIN users u ON u.id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE
	m.is_accepted = FALSE
	AND (
		(m.user_a_id = $1 AND m.swipe_a IS NULL AND m.swipe_b = 'like')
		OR (m.user_b_id = $1 AND m.swipe_b IS NULL AND m.swipe_a = 'like')
	)
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list incoming pairs: %w", err)
	}
	defer rows.Close()

	items := make([]IncomingPairRecord, 0, limit)
	for rows.Next() {
		var item IncomingPairRecord
		if err := scanPairWithUser(rows, &item.Pair, &item.Other); err != nil {
			return nil, fmt.Errorf("scan incoming pair: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate incoming pairs: %w", rows.Err())
	}

	return items, nil
}

// SwipedUserIDs lists everyone userID already shares a pair with, used to
// filter swipe suggestions.
func (r *PairRepo) SwipedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT CASE WHEN user_a_id = $1 THEN user_b_id ELSE user_a_id END
FROM matches
WHERE user_a_id = $1 OR user_b_id = $1
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list swiped user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 64)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swiped user id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate swiped user ids: %w", rows.Err())
	}

	return ids, nil
}

func scanPair(row pgx.Row) (model.MatchPair, error) {
	var (
		pair           model.MatchPair
		mode           string
		swipeA, swipeB *string
	)
	if err := row.Scan(
		&pair.ID,
		&pair.UserAID,
		&pair.UserBID,
		&mode,
		&swipeA,
		&swipeB,
		&pair.IsAccepted,
		&pair.MatchedAt,
		&pair.CreatedAt,
	); err != nil {
		return model.MatchPair{}, err
	}

	pair.Mode = enums.MatchMode(mode)
	pair.SwipeA = actionPtr(swipeA)
	pair.SwipeB = actionPtr(swipeB)
	return pair, nil
}

func scanPairWithUser(rows pgx.Rows, pair *model.MatchPair, other *PairUserRecord) error {
	var (
		mode           string
		swipeA, swipeB *string
	)
	if err := rows.Scan(
		&pair.ID,
		&pair.UserAID,
		&pair.UserBID,
		&mode,
		&swipeA,
		&swipeB,
		&pair.IsAccepted,
		&pair.MatchedAt,
		&pair.CreatedAt,
		&other.UserID,
		&other.Name,
		&other.Handle,
		&other.Bio,
		&other.Age,
	); err != nil {
		return err
	}

	pair.Mode = enums.MatchMode(mode)
	pair.SwipeA = actionPtr(swipeA)
	pair.SwipeB = actionPtr(swipeB)
	return nil
}

func actionPtr(value *string) *enums.SwipeAction {
	if value == nil {
		return nil
	}
	action := enums.SwipeAction(*value)
	return &action
}

func actionValue(action *enums.SwipeAction) *string {
	if action == nil {
		return nil
	}
	value := string(*action)
	return &value
}
