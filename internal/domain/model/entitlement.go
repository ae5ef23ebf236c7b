package model

// EntitlementWindow is the per-user usage snapshot the evaluator works
// over. SwipeDay is the local date string of the stored swipe counter;
// when it differs from today the effective count is zero.
type EntitlementWindow struct {
	UserID          int64  `json:"user_id"`
	SwipeDay        string `json:"swipe_day"`
	SwipesUsed      int    `json:"swipes_used"`
	PostsUsed       int    `json:"posts_used"`
	AdventuresMonth int    `json:"adventures_month"`
}
