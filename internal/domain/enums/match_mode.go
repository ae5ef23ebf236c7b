package enums

type MatchMode string

const (
	MatchModeDating  MatchMode = "dating"
	MatchModeFriends MatchMode = "friends"
)

func (m MatchMode) Valid() bool {
	return m == MatchModeDating || m == MatchModeFriends
}
