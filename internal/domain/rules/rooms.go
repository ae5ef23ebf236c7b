package rules

import (
	"fmt"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
)

// RoomKey derives the chat room identifier for a matched pair. The two
// user identifiers are ordered so both participants derive the same key.
func RoomKey(mode enums.MatchMode, userA, userB int64) string {
	lo, hi := NormalizePair(userA, userB)
	prefix := "friend"
	if mode == enums.MatchModeDating {
		prefix = "date"
	}
	return fmt.Sprintf("%s_%d_%d", prefix, lo, hi)
}
