package enums

// ActionKind is an entitlement-gated user action.
type ActionKind string

const (
	ActionCreatePost      ActionKind = "create_post"
	ActionSwipe           ActionKind = "swipe"
	ActionMessage         ActionKind = "message"
	ActionCreateAdventure ActionKind = "create_adventure"
)
