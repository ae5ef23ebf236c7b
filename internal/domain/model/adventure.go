package model

import "time"

type Adventure struct {
	ID              int64      `json:"id"`
	CreatorID       int64      `json:"creator_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	MaxParticipants int        `json:"max_participants"`
	StartsAt        *time.Time `json:"starts_at"`
	CreatedAt       time.Time  `json:"created_at"`
}
