package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
)

// Event is the payload handed to the notification fabric. Delivery is
// fire-and-forget: a failed publish never rolls back the state change
// that produced it.
type Event struct {
	EventID   string                 `json:"event_id"`
	Kind      enums.NotificationKind `json:"kind"`
	Recipient int64                  `json:"recipient"`
	Sender    int64                  `json:"sender"`
	Content   string                 `json:"content"`
	RelatedID int64                  `json:"related_id,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type Sink interface {
	Publish(ctx context.Context, body []byte) error
}

type Emitter struct {
	sink Sink
	log  *zap.Logger
	now  func() time.Time
}

func NewEmitter(sink Sink, log *zap.Logger) *Emitter {
	return &Emitter{
		sink: sink,
		log:  log,
		now:  time.Now,
	}
}

// Emit publishes the event. Errors are logged and swallowed.
func (e *Emitter) Emit(ctx context.Context, event Event) {
	if e == nil || e.sink == nil {
		return
	}

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = e.now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		if e.log != nil {
			e.log.Warn("marshal notification event",
				zap.String("kind", string(event.Kind)),
				zap.Error(err),
			)
		}
		return
	}

	if err := e.sink.Publish(ctx, body); err != nil {
		if e.log != nil {
			e.log.Warn("publish notification event",
				zap.String("kind", string(event.Kind)),
				zap.Int64("recipient", event.Recipient),
				zap.Error(err),
			)
		}
	}
}
