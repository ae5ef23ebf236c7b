package entitlements

import (
	"fmt"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
)

// LimitError is returned when a freemium quota blocks an action. The
// payload is surfaced to clients together with the upgrade prompt.
type LimitError struct {
	Action enums.ActionKind
	Reason string
	Limit  int
	Used   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s blocked: %s", e.Action, e.Reason)
}

// Deny converts a negative decision into a LimitError for the given
// action. It must only be called when the decision denied the action.
func Deny(action enums.ActionKind, decision Decision) *LimitError {
	return &LimitError{
		Action: action,
		Reason: decision.Reason,
		Limit:  decision.Limit,
		Used:   decision.Used,
	}
}
