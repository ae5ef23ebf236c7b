package dto

import "time"

type SendMessageRequest struct {
	MatchID int64  `json:"match_id"`
	Content string `json:"content"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	RoomKey   string    `json:"room_key"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ThreadResponse struct {
	MatchID     int64            `json:"match_id"`
	RoomKey     string           `json:"room_key"`
	UserID      int64            `json:"user_id"`
	Name        string           `json:"name"`
	Handle      string           `json:"handle"`
	Mode        string           `json:"mode"`
	LastMessage *MessageResponse `json:"last_message"`
	UnreadCount int              `json:"unread_count"`
	MatchedAt   *time.Time       `json:"matched_at"`
}

type ThreadsResponse struct {
	Items []ThreadResponse `json:"items"`
}
