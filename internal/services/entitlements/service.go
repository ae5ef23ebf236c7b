package entitlements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/rules"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUserNotFound = errors.New("user not found")
)

const (
	reasonPostLimit      = "Free users can create up to 5 posts. Upgrade to Premium for unlimited posts!"
	reasonSwipeLimit     = "Free users get 2 swipes per day. Upgrade to Premium for unlimited swipes!"
	reasonMessageLocked  = "Messaging is a Premium feature. Upgrade to connect with other nomads!"
	reasonAdventureLimit = "Free users can create 1 adventure per month. Upgrade to Premium for unlimited!"
)

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.User, error)
	ExpirePremium(ctx context.Context, userID int64) error
}

type UsageStore interface {
	GetSwipesUsed(ctx context.Context, userID int64, dayKey string) (int, error)
	IncrementSwipes(ctx context.Context, userID int64, dayKey, timezone string, delta int) (int, error)
}

type PostStore interface {
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
}

type AdventureStore interface {
	CountByCreatorSince(ctx context.Context, creatorID int64, since time.Time) (int, error)
}

type Config struct {
	FreeSwipesPerDay       int
	FreePostsTotal         int
	FreeAdventuresPerMonth int
	DefaultTimezone        string
}

// Decision is the evaluator's verdict for one action. Limit and Used are
// only meaningful when a counter-backed rule denied the action.
type Decision struct {
	Allowed bool
	Premium bool
	Reason  string
	Limit   int
	Used    int
}

type Dependencies struct {
	Users      UserStore
	Usage      UsageStore
	Posts      PostStore
	Adventures AdventureStore
	Logger     *zap.Logger
}

type Service struct {
	users      UserStore
	usage      UsageStore
	posts      PostStore
	adventures AdventureStore
	log        *zap.Logger
	cfg        Config
	now        func() time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.FreeSwipesPerDay <= 0 {
		cfg.FreeSwipesPerDay = rules.FreeSwipesPerDay
	}
	if cfg.FreePostsTotal <= 0 {
		cfg.FreePostsTotal = rules.FreePostsTotal
	}
	if cfg.FreeAdventuresPerMonth <= 0 {
		cfg.FreeAdventuresPerMonth = rules.FreeAdventuresPerMonth
	}
	if strings.TrimSpace(cfg.DefaultTimezone) == "" {
		cfg.DefaultTimezone = "UTC"
	}

	return &Service{
		users:      deps.Users,
		usage:      deps.Usage,
		posts:      deps.Posts,
		adventures: deps.Adventures,
		log:        deps.Logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Evaluate decides whether userID may perform action. Premium users are
// always allowed; a lapsed premium subscription is downgraded first.
func (s *Service) Evaluate(ctx context.Context, userID int64, action enums.ActionKind) (Decision, error) {
	if userID <= 0 {
		return Decision{}, ErrValidation
	}
	if s.users == nil {
		return Decision{}, fmt.Errorf("entitlement user store is nil")
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	if user.IsPremium {
		return Decision{Allowed: true, Premium: true}, nil
	}

	now := s.now().UTC()
	loc := s.location()

	switch action {
	case enums.ActionCreatePost:
		if s.posts == nil {
			return Decision{}, fmt.Errorf("entitlement post store is nil")
		}
		used, err := s.posts.CountByAuthor(ctx, userID)
		if err != nil {
			return Decision{}, fmt.Errorf("count posts: %w", err)
		}
		if used >= s.cfg.FreePostsTotal {
			return Decision{
				Reason: reasonPostLimit,
				Limit:  s.cfg.FreePostsTotal,
				Used:   used,
			}, nil
		}
		return Decision{Allowed: true}, nil

	case enums.ActionSwipe:
		if s.usage == nil {
			return Decision{}, fmt.Errorf("entitlement usage store is nil")
		}
		used, err := s.usage.GetSwipesUsed(ctx, userID, rules.DayKey(now, loc))
		if err != nil {
			return Decision{}, fmt.Errorf("read swipe usage: %w", err)
		}
		if used >= s.cfg.FreeSwipesPerDay {
			return Decision{
				Reason: reasonSwipeLimit,
				Limit:  s.cfg.FreeSwipesPerDay,
				Used:   used,
			}, nil
		}
		return Decision{Allowed: true}, nil

	case enums.ActionMessage:
		return Decision{Reason: reasonMessageLocked}, nil

	case enums.ActionCreateAdventure:
		if s.adventures == nil {
			return Decision{}, fmt.Errorf("entitlement adventure store is nil")
		}
		used, err := s.adventures.CountByCreatorSince(ctx, userID, rules.MonthStart(now, loc))
		if err != nil {
			return Decision{}, fmt.Errorf("count adventures: %w", err)
		}
		if used >= s.cfg.FreeAdventuresPerMonth {
			return Decision{
				Reason: reasonAdventureLimit,
				Limit:  s.cfg.FreeAdventuresPerMonth,
				Used:   used,
			}, nil
		}
		return Decision{Allowed: true}, nil
	}

	return Decision{Allowed: true}, nil
}

// RecordSwipe advances the daily counter for a committed like swipe. A
// new day key starts a fresh counter row; premium users are not counted.
func (s *Service) RecordSwipe(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrValidation
	}
	if s.users == nil || s.usage == nil {
		return fmt.Errorf("entitlement dependencies are not configured")
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsPremium {
		return nil
	}

	now := s.now().UTC()
	loc := s.location()
	if _, err := s.usage.IncrementSwipes(ctx, userID, rules.DayKey(now, loc), s.cfg.DefaultTimezone, 1); err != nil {
		return fmt.Errorf("record swipe: %w", err)
	}

	return nil
}

// Window assembles the per-user usage snapshot for status endpoints.
func (s *Service) Window(ctx context.Context, userID int64) (model.EntitlementWindow, error) {
	if userID <= 0 {
		return model.EntitlementWindow{}, ErrValidation
	}
	if s.usage == nil || s.posts == nil || s.adventures == nil {
		return model.EntitlementWindow{}, fmt.Errorf("entitlement dependencies are not configured")
	}

	now := s.now().UTC()
	loc := s.location()
	dayKey := rules.DayKey(now, loc)

	swipes, err := s.usage.GetSwipesUsed(ctx, userID, dayKey)
	if err != nil {
		return model.EntitlementWindow{}, fmt.Errorf("read swipe usage: %w", err)
	}
	posts, err := s.posts.CountByAuthor(ctx, userID)
	if err != nil {
		return model.EntitlementWindow{}, fmt.Errorf("count posts: %w", err)
	}
	adventures, err := s.adventures.CountByCreatorSince(ctx, userID, rules.MonthStart(now, loc))
	if err != nil {
		return model.EntitlementWindow{}, fmt.Errorf("count adventures: %w", err)
	}

	return model.EntitlementWindow{
		UserID:          userID,
		SwipeDay:        dayKey,
		SwipesUsed:      swipes,
		PostsUsed:       posts,
		AdventuresMonth: adventures,
	}, nil
}

func (s *Service) Limits() Config {
	return s.cfg
}

// resolveUser loads the user and applies the idempotent premium-expiry
// downgrade before any rule runs.
func (s *Service) resolveUser(ctx context.Context, userID int64) (model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}

	now := s.now().UTC()
	if user.IsPremium && user.PremiumExpiresAt != nil && user.PremiumExpiresAt.Before(now) {
		if err := s.users.ExpirePremium(ctx, userID); err != nil {
			return model.User{}, fmt.Errorf("expire premium: %w", err)
		}
		user.IsPremium = false
		user.SubscriptionTier = "free"
		user.PremiumExpiresAt = nil
		if s.log != nil {
			s.log.Info("premium auto-expired", zap.Int64("user_id", userID))
		}
	}

	return user, nil
}

func (s *Service) location() *time.Location {
	loc, err := time.LoadLocation(s.cfg.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
