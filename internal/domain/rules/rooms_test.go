package rules

import (
	"testing"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
)

func TestRoomKeyIsOrderIndependent(t *testing.T) {
	a := RoomKey(enums.MatchModeDating, 12, 5)
	b := RoomKey(enums.MatchModeDating, 5, 12)
	if a != b {
		t.Fatalf("room keys differ by argument order: %s vs %s", a, b)
	}
	if a != "date_5_12" {
		t.Fatalf("unexpected room key: %s", a)
	}
}

func TestRoomKeyModePrefix(t *testing.T) {
	if got := RoomKey(enums.MatchModeFriends, 1, 2); got != "friend_1_2" {
		t.Fatalf("unexpected friends room key: %s", got)
	}
}
