package dto

import "time"

type LikeItemResponse struct {
	MatchID   int64      `json:"match_id"`
	UserID    int64      `json:"user_id"`
	Name      string     `json:"name"`
	Handle    string     `json:"handle"`
	Bio       string     `json:"bio"`
	Age       int        `json:"age"`
	Mode      string     `json:"mode"`
	MatchedAt *time.Time `json:"matched_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type LikesResponse struct {
	Accepted []LikeItemResponse `json:"accepted"`
	Pending  []LikeItemResponse `json:"pending"`
	Rejected []LikeItemResponse `json:"rejected"`
}

type IncomingLikesResponse struct {
	Items []LikeItemResponse `json:"items"`
}
