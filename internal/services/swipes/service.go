package swipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/rules"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	"github.com/maisachinsharmahu/vanbackend/internal/services/notify"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrSelfSwipe      = errors.New("cannot swipe on yourself")
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("not a participant of this match")
)

// TooFastError signals the premium burst guard tripped. Free accounts
// never see it; the daily quota throttles them first.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type PairStore interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, userA, userB int64) (model.MatchPair, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, pairID int64) (model.MatchPair, error)
	Create(ctx context.Context, tx pgx.Tx, actorID, targetID int64, mode enums.MatchMode, action enums.SwipeAction, now time.Time) (model.MatchPair, error)
	SetSwipe(ctx context.Context, tx pgx.Tx, pairID, actorID int64, action enums.SwipeAction) error
	Accept(ctx context.Context, tx pgx.Tx, pairID, actorID int64, matchedAt time.Time) (bool, error)
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type EntitlementGate interface {
	Evaluate(ctx context.Context, userID int64, action enums.ActionKind) (entitlements.Decision, error)
	RecordSwipe(ctx context.Context, userID int64) error
}

type Notifier interface {
	Emit(ctx context.Context, event notify.Event)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (int64, bool, error)
}

type Dependencies struct {
	Tx           TxRunner
	Pairs        PairStore
	Entitlements EntitlementGate
	Notifier     Notifier
	RateLimiter  RateLimiter
	Logger       *zap.Logger
}

type SwipeResult struct {
	Pair    model.MatchPair
	Matched bool
	RoomKey string
}

type Service struct {
	tx           TxRunner
	pairs        PairStore
	entitlements EntitlementGate
	notifier     Notifier
	rateLimiter  RateLimiter
	log          *zap.Logger
	now          func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		tx:           deps.Tx,
		pairs:        deps.Pairs,
		entitlements: deps.Entitlements,
		notifier:     deps.Notifier,
		rateLimiter:  deps.RateLimiter,
		log:          deps.Logger,
		now:          time.Now,
	}
}

// Swipe records the actor's verdict on the target and promotes the pair
// to an accepted match when both slots hold a like. The pair row lock
// serializes concurrent swipes on the same pair.
func (s *Service) Swipe(ctx context.Context, actorID, targetID int64, action enums.SwipeAction, mode enums.MatchMode) (SwipeResult, error) {
	if actorID <= 0 || targetID <= 0 {
		return SwipeResult{}, ErrValidation
	}
	if actorID == targetID {
		return SwipeResult{}, ErrSelfSwipe
	}
	if !action.Valid() {
		return SwipeResult{}, ErrValidation
	}
	if mode == "" {
		mode = enums.MatchModeDating
	}
	if !mode.Valid() {
		return SwipeResult{}, ErrValidation
	}
	if s.tx == nil || s.pairs == nil || s.entitlements == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	isPremium := false
	if action == enums.SwipeActionLike {
		decision, err := s.entitlements.Evaluate(ctx, actorID, enums.ActionSwipe)
		if err != nil {
			return SwipeResult{}, err
		}
		if !decision.Allowed {
			return SwipeResult{}, entitlements.Deny(enums.ActionSwipe, decision)
		}
		isPremium = decision.Premium

		if isPremium && s.rateLimiter != nil {
			retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, actorID)
			if err != nil {
				return SwipeResult{}, fmt.Errorf("apply premium rate limiter: %w", err)
			}
			if !allowed {
				return SwipeResult{}, TooFastError{RetryAfterSec: retryAfter}
			}
		}
	}

	now := s.now().UTC()

	var (
		result       SwipeResult
		alreadyMatch bool
		events       []notify.Event
	)

	if err := s.tx.WithinTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		pair, err := s.pairs.GetForUpdate(txCtx, tx, actorID, targetID)
		if errors.Is(err, pgrepo.ErrPairNotFound) {
			created, createErr := s.pairs.Create(txCtx, tx, actorID, targetID, mode, action, now)
			if errors.Is(createErr, pgrepo.ErrPairExists) {
				// Lost the creation race; the winner's row is now
				// visible and lockable.
				pair, err = s.pairs.GetForUpdate(txCtx, tx, actorID, targetID)
				if err != nil {
					return err
				}
			} else if createErr != nil {
				return createErr
			} else {
				result.Pair = created
				if action == enums.SwipeActionLike {
					events = append(events, notify.Event{
						Kind:      enums.NotificationKindLike,
						Recipient: targetID,
						Sender:    actorID,
						Content:   "Someone liked your profile!",
						RelatedID: created.ID,
					})
				}
				return nil
			}
		} else if err != nil {
			return err
		}

		if pair.IsAccepted {
			// Already matched; a late swipe changes nothing and
			// consumes nothing.
			result.Pair = pair
			result.Matched = true
			alreadyMatch = true
			return nil
		}

		targetSwipe := pair.SwipeOf(pair.OtherUser(actorID))

		if rules.CompletesMatch(targetSwipe, action) {
			accepted, err := s.pairs.Accept(txCtx, tx, pair.ID, actorID, now)
			if err != nil {
				return err
			}
			if accepted {
				actorAction := action
				pair.IsAccepted = true
				pair.MatchedAt = &now
				if actorID == pair.UserAID {
					pair.SwipeA = &actorAction
				} else {
					pair.SwipeB = &actorAction
				}
				result.Matched = true
				events = append(events,
					notify.Event{
						Kind:      enums.NotificationKindMatch,
						Recipient: actorID,
						Sender:    targetID,
						Content:   "It's a match!",
						RelatedID: pair.ID,
					},
					notify.Event{
						Kind:      enums.NotificationKindMatch,
						Recipient: targetID,
						Sender:    actorID,
						Content:   "It's a match!",
						RelatedID: pair.ID,
					},
				)
			}
			result.Pair = pair
			return nil
		}

		if err := s.pairs.SetSwipe(txCtx, tx, pair.ID, actorID, action); err != nil {
			return err
		}
		actorAction := action
		if actorID == pair.UserAID {
			pair.SwipeA = &actorAction
		} else {
			pair.SwipeB = &actorAction
		}
		result.Pair = pair

		if action == enums.SwipeActionLike {
			events = append(events, notify.Event{
				Kind:      enums.NotificationKindLike,
				Recipient: targetID,
				Sender:    actorID,
				Content:   "Someone liked your profile!",
				RelatedID: pair.ID,
			})
		}
		return nil
	}); err != nil {
		return SwipeResult{}, err
	}

	if result.Matched {
		result.RoomKey = rules.RoomKey(result.Pair.Mode, result.Pair.UserAID, result.Pair.UserBID)
	}

	// The like is committed; count it even when it completed a match.
	// A swipe against an already-accepted pair stays free.
	if action == enums.SwipeActionLike && !alreadyMatch {
		if err := s.entitlements.RecordSwipe(ctx, actorID); err != nil {
			if s.log != nil {
				s.log.Warn("record swipe usage",
					zap.Int64("user_id", actorID),
					zap.Error(err),
				)
			}
		}
	}

	s.emitAll(ctx, events)

	return result, nil
}

// Respond lets a participant answer an existing pair by its identifier.
// The transition rules are the same as for Swipe; no quota applies.
func (s *Service) Respond(ctx context.Context, actorID, matchID int64, action enums.SwipeAction) (SwipeResult, error) {
	if actorID <= 0 || matchID <= 0 {
		return SwipeResult{}, ErrValidation
	}
	if !action.Valid() {
		return SwipeResult{}, ErrValidation
	}
	if s.tx == nil || s.pairs == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	now := s.now().UTC()

	var (
		result SwipeResult
		events []notify.Event
	)

	if err := s.tx.WithinTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		pair, err := s.pairs.GetByIDForUpdate(txCtx, tx, matchID)
		if errors.Is(err, pgrepo.ErrPairNotFound) {
			return ErrMatchNotFound
		}
		if err != nil {
			return err
		}
		if !pair.HasParticipant(actorID) {
			return ErrNotParticipant
		}

		if pair.IsAccepted {
			result.Pair = pair
			result.Matched = true
			return nil
		}

		targetSwipe := pair.SwipeOf(pair.OtherUser(actorID))

		if rules.CompletesMatch(targetSwipe, action) {
			accepted, err := s.pairs.Accept(txCtx, tx, pair.ID, actorID, now)
			if err != nil {
				return err
			}
			if accepted {
				actorAction := action
				pair.IsAccepted = true
				pair.MatchedAt = &now
				if actorID == pair.UserAID {
					pair.SwipeA = &actorAction
				} else {
					pair.SwipeB = &actorAction
				}
				result.Matched = true
				otherID := pair.OtherUser(actorID)
				events = append(events,
					notify.Event{
						Kind:      enums.NotificationKindMatch,
						Recipient: actorID,
						Sender:    otherID,
						Content:   "It's a match!",
						RelatedID: pair.ID,
					},
					notify.Event{
						Kind:      enums.NotificationKindMatch,
						Recipient: otherID,
						Sender:    actorID,
						Content:   "It's a match!",
						RelatedID: pair.ID,
					},
				)
			}
			result.Pair = pair
			return nil
		}

		if err := s.pairs.SetSwipe(txCtx, tx, pair.ID, actorID, action); err != nil {
			return err
		}
		actorAction := action
		if actorID == pair.UserAID {
			pair.SwipeA = &actorAction
		} else {
			pair.SwipeB = &actorAction
		}
		result.Pair = pair
		return nil
	}); err != nil {
		return SwipeResult{}, err
	}

	if result.Matched {
		result.RoomKey = rules.RoomKey(result.Pair.Mode, result.Pair.UserAID, result.Pair.UserBID)
	}

	s.emitAll(ctx, events)

	return result, nil
}

func (s *Service) emitAll(ctx context.Context, events []notify.Event) {
	if s.notifier == nil {
		return
	}
	for _, event := range events {
		s.notifier.Emit(ctx, event)
	}
}
