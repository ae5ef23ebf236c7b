package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, roomKey string, senderID int64, content string) (model.Message, error) {
	if roomKey == "" || senderID <= 0 || content == "" {
		return model.Message{}, fmt.Errorf("invalid message payload")
	}
	if r.pool == nil {
		return model.Message{}, fmt.Errorf("postgres pool is nil")
	}

	var msg model.Message
	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (
	room_key,
	sender_id,
	content,
	is_read,
	created_at
) VALUES ($1, $2, $3, FALSE, NOW())
RETURNING id, room_key, sender_id, content, is_read, created_at
`, roomKey, senderID, content).Scan(
		&msg.ID,
		&msg.RoomKey,
		&msg.SenderID,
		&msg.Content,
		&msg.IsRead,
		&msg.CreatedAt,
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}

	return msg, nil
}

func (r *MessageRepo) LastInRoom(ctx context.Context, roomKey string) (model.Message, error) {
	if roomKey == "" {
		return model.Message{}, fmt.Errorf("room key is required")
	}
	if r.pool == nil {
		return model.Message{}, ErrMessageNotFound
	}

	var msg model.Message
	err := r.pool.QueryRow(ctx, `
SELECT id, room_key, sender_id, content, is_read, created_at
FROM messages
WHERE room_key = $1
ORDER BY created_at DESC, id DESC
LIMIT 1
`, roomKey).Scan(
		&msg.ID,
		&msg.RoomKey,
		&msg.SenderID,
		&msg.Content,
		&msg.IsRead,
		&msg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Message{}, ErrMessageNotFound
		}
		return model.Message{}, fmt.Errorf("get last room message: %w", err)
	}

	return msg, nil
}

// CountUnread counts messages in the room sent by the other participant
// and not yet read by userID.
func (r *MessageRepo) CountUnread(ctx context.Context, roomKey string, userID int64) (int, error) {
	if roomKey == "" || userID <= 0 {
		return 0, fmt.Errorf("invalid unread lookup payload")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM messages
WHERE room_key = $1 AND sender_id <> $2 AND is_read = FALSE
`, roomKey, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return count, nil
}

func (r *MessageRepo) MarkRead(ctx context.Context, roomKey string, userID int64) error {
	if roomKey == "" || userID <= 0 {
		return fmt.Errorf("invalid mark read payload")
	}
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE messages
SET is_read = TRUE
WHERE room_key = $1 AND sender_id <> $2 AND is_read = FALSE
`, roomKey, userID); err != nil {
		return fmt.Errorf("mark room messages read: %w", err)
	}

	return nil
}
