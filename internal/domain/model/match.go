package model

import (
	"time"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
)

// MatchPair is the single record for an unordered user pair. UserAID is
// always the smaller identifier. Each side owns one swipe slot; a later
// swipe from the same side overwrites its slot.
type MatchPair struct {
	ID         int64              `json:"id"`
	UserAID    int64              `json:"user_a_id"`
	UserBID    int64              `json:"user_b_id"`
	Mode       enums.MatchMode    `json:"mode"`
	SwipeA     *enums.SwipeAction `json:"swipe_a"`
	SwipeB     *enums.SwipeAction `json:"swipe_b"`
	IsAccepted bool               `json:"is_accepted"`
	MatchedAt  *time.Time         `json:"matched_at"`
	CreatedAt  time.Time          `json:"created_at"`
}

// SwipeOf returns the swipe slot belonging to userID, or nil when that
// side has not swiped yet or userID is not a participant.
func (p MatchPair) SwipeOf(userID int64) *enums.SwipeAction {
	switch userID {
	case p.UserAID:
		return p.SwipeA
	case p.UserBID:
		return p.SwipeB
	}
	return nil
}

func (p MatchPair) OtherUser(userID int64) int64 {
	if userID == p.UserAID {
		return p.UserBID
	}
	return p.UserAID
}

func (p MatchPair) HasParticipant(userID int64) bool {
	return userID == p.UserAID || userID == p.UserBID
}
