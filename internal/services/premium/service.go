package premium

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
)

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"

	monthlyDuration = 30 * 24 * time.Hour
	yearlyDuration  = 365 * 24 * time.Hour
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUserNotFound = errors.New("user not found")
	ErrUnknownPlan  = errors.New("unknown subscription plan")
)

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.User, error)
	ActivatePremium(ctx context.Context, userID int64, since, expiresAt time.Time) error
	DeactivatePremium(ctx context.Context, userID int64) error
}

type UsageProvider interface {
	Window(ctx context.Context, userID int64) (model.EntitlementWindow, error)
	Limits() entitlements.Config
}

// Status is the subscription snapshot returned to clients, including
// the usage counters against the free-tier allowances.
type Status struct {
	UserID       int64                   `json:"user_id"`
	IsPremium    bool                    `json:"is_premium"`
	Tier         string                  `json:"tier"`
	Since        *time.Time              `json:"since"`
	ExpiresAt    *time.Time              `json:"expires_at"`
	Usage        model.EntitlementWindow `json:"usage"`
	SwipeLimit   int                     `json:"swipe_limit"`
	PostLimit    int                     `json:"post_limit"`
	AdventureCap int                     `json:"adventure_cap"`
}

type Dependencies struct {
	Users  UserStore
	Usage  UsageProvider
	Logger *zap.Logger
}

type Service struct {
	users UserStore
	usage UsageProvider
	log   *zap.Logger
	now   func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		users: deps.Users,
		usage: deps.Usage,
		log:   deps.Logger,
		now:   time.Now,
	}
}

func (s *Service) Status(ctx context.Context, userID int64) (Status, error) {
	if userID <= 0 {
		return Status{}, ErrValidation
	}
	if s.users == nil || s.usage == nil {
		return Status{}, fmt.Errorf("premium dependencies are not configured")
	}

	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, pgrepo.ErrUserNotFound) {
		return Status{}, ErrUserNotFound
	}
	if err != nil {
		return Status{}, err
	}

	// A lapsed subscription reads as free even before the evaluator
	// persists the downgrade.
	isPremium := user.IsPremium
	tier := user.SubscriptionTier
	if isPremium && user.PremiumExpiresAt != nil && user.PremiumExpiresAt.Before(s.now().UTC()) {
		isPremium = false
		tier = "free"
	}

	window, err := s.usage.Window(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	limits := s.usage.Limits()

	return Status{
		UserID:       userID,
		IsPremium:    isPremium,
		Tier:         tier,
		Since:        user.PremiumSince,
		ExpiresAt:    user.PremiumExpiresAt,
		Usage:        window,
		SwipeLimit:   limits.FreeSwipesPerDay,
		PostLimit:    limits.FreePostsTotal,
		AdventureCap: limits.FreeAdventuresPerMonth,
	}, nil
}

// Activate grants premium for the plan's duration starting now. An
// existing subscription is replaced, not extended.
func (s *Service) Activate(ctx context.Context, userID int64, plan string) (Status, error) {
	if userID <= 0 {
		return Status{}, ErrValidation
	}
	if s.users == nil {
		return Status{}, fmt.Errorf("premium dependencies are not configured")
	}

	duration, err := planDuration(plan)
	if err != nil {
		return Status{}, err
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Status{}, ErrUserNotFound
		}
		return Status{}, err
	}

	since := s.now().UTC()
	expiresAt := since.Add(duration)

	if err := s.users.ActivatePremium(ctx, userID, since, expiresAt); err != nil {
		return Status{}, fmt.Errorf("activate premium: %w", err)
	}

	if s.log != nil {
		s.log.Info("premium activated",
			zap.Int64("user_id", userID),
			zap.String("plan", plan),
			zap.Time("expires_at", expiresAt),
		)
	}

	return s.Status(ctx, userID)
}

func (s *Service) Deactivate(ctx context.Context, userID int64) (Status, error) {
	if userID <= 0 {
		return Status{}, ErrValidation
	}
	if s.users == nil {
		return Status{}, fmt.Errorf("premium dependencies are not configured")
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Status{}, ErrUserNotFound
		}
		return Status{}, err
	}

	if err := s.users.DeactivatePremium(ctx, userID); err != nil {
		return Status{}, fmt.Errorf("deactivate premium: %w", err)
	}

	if s.log != nil {
		s.log.Info("premium deactivated", zap.Int64("user_id", userID))
	}

	return s.Status(ctx, userID)
}

func planDuration(plan string) (time.Duration, error) {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case PlanMonthly:
		return monthlyDuration, nil
	case PlanYearly:
		return yearlyDuration, nil
	default:
		return 0, ErrUnknownPlan
	}
}
