package dto

type SwipeRequest struct {
	TargetID int64  `json:"target_id"`
	Action   string `json:"action"`
	Mode     string `json:"mode,omitempty"`
}

type RespondRequest struct {
	Action string `json:"action"`
}

type SwipeResponse struct {
	OK      bool   `json:"ok"`
	MatchID int64  `json:"match_id"`
	Matched bool   `json:"matched"`
	RoomKey string `json:"room_key,omitempty"`
}
