package model

import "time"

type User struct {
	ID                     int64      `json:"id"`
	Name                   string     `json:"name"`
	Handle                 string     `json:"handle"`
	Bio                    string     `json:"bio"`
	Age                    int        `json:"age"`
	PhotoCount             int        `json:"photo_count"`
	HasCompletedOnboarding bool       `json:"has_completed_onboarding"`
	IsPremium              bool       `json:"is_premium"`
	SubscriptionTier       string     `json:"subscription_tier"`
	PremiumSince           *time.Time `json:"premium_since"`
	PremiumExpiresAt       *time.Time `json:"premium_expires_at"`
	CreatedAt              time.Time  `json:"created_at"`
}
