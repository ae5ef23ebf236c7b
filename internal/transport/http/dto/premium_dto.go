package dto

import "time"

type ActivatePremiumRequest struct {
	Plan string `json:"plan"`
}

type PremiumStatusResponse struct {
	IsPremium      bool       `json:"is_premium"`
	Tier           string     `json:"tier"`
	Since          *time.Time `json:"since"`
	ExpiresAt      *time.Time `json:"expires_at"`
	SwipesUsed     int        `json:"swipes_used"`
	SwipeLimit     int        `json:"swipe_limit"`
	PostsUsed      int        `json:"posts_used"`
	PostLimit      int        `json:"post_limit"`
	AdventuresUsed int        `json:"adventures_used"`
	AdventureLimit int        `json:"adventure_limit"`
}
