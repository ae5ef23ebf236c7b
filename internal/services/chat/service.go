package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/rules"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	"github.com/maisachinsharmahu/vanbackend/internal/services/notify"
)

const maxMessageLength = 2000

var (
	ErrValidation     = errors.New("validation error")
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("not a participant of this match")
	ErrNotMatched     = errors.New("match is not accepted yet")
	ErrMessageTooLong = errors.New("message is too long")
)

type PairStore interface {
	GetByID(ctx context.Context, pairID int64) (model.MatchPair, error)
	ListAcceptedForUser(ctx context.Context, userID int64, mode enums.MatchMode, limit int) ([]pgrepo.AcceptedPairRecord, error)
}

type MessageStore interface {
	Create(ctx context.Context, roomKey string, senderID int64, content string) (model.Message, error)
	LastInRoom(ctx context.Context, roomKey string) (model.Message, error)
	CountUnread(ctx context.Context, roomKey string, userID int64) (int, error)
	MarkRead(ctx context.Context, roomKey string, userID int64) error
}

type EntitlementGate interface {
	Evaluate(ctx context.Context, userID int64, action enums.ActionKind) (entitlements.Decision, error)
}

type Notifier interface {
	Emit(ctx context.Context, event notify.Event)
}

// Thread is one chat room in the user's inbox, ordered by activity.
type Thread struct {
	MatchID     int64           `json:"match_id"`
	RoomKey     string          `json:"room_key"`
	UserID      int64           `json:"user_id"`
	Name        string          `json:"name"`
	Handle      string          `json:"handle"`
	Mode        enums.MatchMode `json:"mode"`
	LastMessage *model.Message  `json:"last_message"`
	UnreadCount int             `json:"unread_count"`
	MatchedAt   *time.Time      `json:"matched_at"`
}

type Dependencies struct {
	Pairs        PairStore
	Messages     MessageStore
	Entitlements EntitlementGate
	Notifier     Notifier
}

type Config struct {
	DefaultLimit int
}

type Service struct {
	pairs        PairStore
	messages     MessageStore
	entitlements EntitlementGate
	notifier     Notifier
	cfg          Config
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	return &Service{
		pairs:        deps.Pairs,
		messages:     deps.Messages,
		entitlements: deps.Entitlements,
		notifier:     deps.Notifier,
		cfg:          cfg,
	}
}

// Send delivers a message into the match's room. Messaging is gated by
// the entitlement evaluator and requires an accepted match.
func (s *Service) Send(ctx context.Context, senderID, matchID int64, content string) (model.Message, error) {
	if senderID <= 0 || matchID <= 0 {
		return model.Message{}, ErrValidation
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, ErrValidation
	}
	if len(content) > maxMessageLength {
		return model.Message{}, ErrMessageTooLong
	}
	if s.pairs == nil || s.messages == nil || s.entitlements == nil {
		return model.Message{}, fmt.Errorf("chat dependencies are not configured")
	}

	decision, err := s.entitlements.Evaluate(ctx, senderID, enums.ActionMessage)
	if err != nil {
		return model.Message{}, err
	}
	if !decision.Allowed {
		return model.Message{}, entitlements.Deny(enums.ActionMessage, decision)
	}

	pair, err := s.pairs.GetByID(ctx, matchID)
	if errors.Is(err, pgrepo.ErrPairNotFound) {
		return model.Message{}, ErrMatchNotFound
	}
	if err != nil {
		return model.Message{}, err
	}
	if !pair.HasParticipant(senderID) {
		return model.Message{}, ErrNotParticipant
	}
	if !pair.IsAccepted {
		return model.Message{}, ErrNotMatched
	}

	roomKey := rules.RoomKey(pair.Mode, pair.UserAID, pair.UserBID)

	message, err := s.messages.Create(ctx, roomKey, senderID, content)
	if err != nil {
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Emit(ctx, notify.Event{
			Kind:      enums.NotificationKindMessage,
			Recipient: pair.OtherUser(senderID),
			Sender:    senderID,
			Content:   preview(content),
			RelatedID: pair.ID,
		})
	}

	return message, nil
}

// Threads lists the user's chat rooms for the given mode, most recently
// active first. Rooms with no messages sort by match time.
func (s *Service) Threads(ctx context.Context, userID int64, mode enums.MatchMode, limit int) ([]Thread, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if mode != "" && !mode.Valid() {
		return nil, ErrValidation
	}
	if s.pairs == nil || s.messages == nil {
		return nil, fmt.Errorf("chat dependencies are not configured")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	records, err := s.pairs.ListAcceptedForUser(ctx, userID, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("list accepted matches: %w", err)
	}

	threads := make([]Thread, 0, len(records))
	for _, record := range records {
		roomKey := rules.RoomKey(record.Pair.Mode, record.Pair.UserAID, record.Pair.UserBID)

		thread := Thread{
			MatchID:   record.Pair.ID,
			RoomKey:   roomKey,
			UserID:    record.Other.UserID,
			Name:      record.Other.Name,
			Handle:    record.Other.Handle,
			Mode:      record.Pair.Mode,
			MatchedAt: record.Pair.MatchedAt,
		}

		last, err := s.messages.LastInRoom(ctx, roomKey)
		if err != nil && !errors.Is(err, pgrepo.ErrMessageNotFound) {
			return nil, fmt.Errorf("load last message: %w", err)
		}
		if err == nil {
			lastCopy := last
			thread.LastMessage = &lastCopy
		}

		unread, err := s.messages.CountUnread(ctx, roomKey, userID)
		if err != nil {
			return nil, fmt.Errorf("count unread: %w", err)
		}
		thread.UnreadCount = unread

		threads = append(threads, thread)
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return activityOf(threads[i]).After(activityOf(threads[j]))
	})

	return threads, nil
}

// MarkRead clears the unread counter of the match's room for userID.
func (s *Service) MarkRead(ctx context.Context, userID, matchID int64) error {
	if userID <= 0 || matchID <= 0 {
		return ErrValidation
	}
	if s.pairs == nil || s.messages == nil {
		return fmt.Errorf("chat dependencies are not configured")
	}

	pair, err := s.pairs.GetByID(ctx, matchID)
	if errors.Is(err, pgrepo.ErrPairNotFound) {
		return ErrMatchNotFound
	}
	if err != nil {
		return err
	}
	if !pair.HasParticipant(userID) {
		return ErrNotParticipant
	}

	roomKey := rules.RoomKey(pair.Mode, pair.UserAID, pair.UserBID)
	if err := s.messages.MarkRead(ctx, roomKey, userID); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}

	return nil
}

func activityOf(thread Thread) time.Time {
	if thread.LastMessage != nil {
		return thread.LastMessage.CreatedAt
	}
	if thread.MatchedAt != nil {
		return *thread.MatchedAt
	}
	return time.Time{}
}

func preview(content string) string {
	const max = 120
	if len(content) <= max {
		return content
	}
	return content[:max]
}
