package rules

import "github.com/maisachinsharmahu/vanbackend/internal/domain/enums"

// NormalizePair orders two user identifiers so the smaller one is the
// pair's A side. The unordered pair (a, b) and (b, a) map to the same key.
func NormalizePair(userA, userB int64) (int64, int64) {
	if userA > userB {
		return userB, userA
	}
	return userA, userB
}

// CompletesMatch reports whether the actor's action against the target's
// existing swipe slot promotes the pair to an accepted match.
func CompletesMatch(targetSwipe *enums.SwipeAction, action enums.SwipeAction) bool {
	return targetSwipe != nil && *targetSwipe == enums.SwipeActionLike && action == enums.SwipeActionLike
}
