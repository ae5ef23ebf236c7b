package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
)

type sinkStub struct {
	bodies [][]byte
	err    error
}

func (s *sinkStub) Publish(_ context.Context, body []byte) error {
	s.bodies = append(s.bodies, body)
	return s.err
}

func TestEmitFillsEventIDAndTimestamp(t *testing.T) {
	sink := &sinkStub{}
	emitter := NewEmitter(sink, nil)
	emitter.now = func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) }

	emitter.Emit(context.Background(), Event{
		Kind:      enums.NotificationKindMatch,
		Recipient: 7,
		Sender:    9,
		Content:   "It's a Match!",
		RelatedID: 42,
	})

	if len(sink.bodies) != 1 {
		t.Fatalf("expected one published event, got %d", len(sink.bodies))
	}

	var event Event
	if err := json.Unmarshal(sink.bodies[0], &event); err != nil {
		t.Fatalf("unmarshal published event: %v", err)
	}
	if event.EventID == "" {
		t.Fatal("expected event id to be generated")
	}
	if event.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be stamped")
	}
	if event.Kind != enums.NotificationKindMatch || event.Recipient != 7 || event.RelatedID != 42 {
		t.Fatalf("unexpected event payload: %+v", event)
	}
}

func TestEmitSwallowsPublishError(t *testing.T) {
	sink := &sinkStub{err: errors.New("broker down")}
	emitter := NewEmitter(sink, nil)

	emitter.Emit(context.Background(), Event{
		Kind:      enums.NotificationKindLike,
		Recipient: 1,
		Sender:    2,
	})

	if len(sink.bodies) != 1 {
		t.Fatalf("expected publish attempt despite error, got %d", len(sink.bodies))
	}
}

func TestEmitWithoutSinkIsNoop(t *testing.T) {
	emitter := NewEmitter(nil, nil)
	emitter.Emit(context.Background(), Event{Kind: enums.NotificationKindSystem})
}
