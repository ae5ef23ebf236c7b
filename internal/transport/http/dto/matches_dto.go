package dto

import "time"

type MatchItemResponse struct {
	MatchID   int64      `json:"match_id"`
	UserID    int64      `json:"user_id"`
	Name      string     `json:"name"`
	Handle    string     `json:"handle"`
	Bio       string     `json:"bio"`
	Age       int        `json:"age"`
	Mode      string     `json:"mode"`
	RoomKey   string     `json:"room_key"`
	MatchedAt *time.Time `json:"matched_at"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}
