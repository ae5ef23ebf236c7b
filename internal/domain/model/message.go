package model

import "time"

type Message struct {
	ID        int64     `json:"id"`
	RoomKey   string    `json:"room_key"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
