package enums

type NotificationKind string

const (
	NotificationKindLike    NotificationKind = "like"
	NotificationKindComment NotificationKind = "comment"
	NotificationKindMatch   NotificationKind = "match"
	NotificationKindMessage NotificationKind = "message"
	NotificationKindSystem  NotificationKind = "system"
)
