package premium

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
)

type userStoreStub struct {
	users map[int64]model.User
}

func (s *userStoreStub) Get(_ context.Context, userID int64) (model.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *userStoreStub) ActivatePremium(_ context.Context, userID int64, since, expiresAt time.Time) error {
	user := s.users[userID]
	user.IsPremium = true
	user.SubscriptionTier = "premium"
	user.PremiumSince = &since
	user.PremiumExpiresAt = &expiresAt
	s.users[userID] = user
	return nil
}

func (s *userStoreStub) DeactivatePremium(_ context.Context, userID int64) error {
	user := s.users[userID]
	user.IsPremium = false
	user.SubscriptionTier = "free"
	user.PremiumExpiresAt = nil
	s.users[userID] = user
	return nil
}

type usageStub struct{}

func (usageStub) Window(_ context.Context, userID int64) (model.EntitlementWindow, error) {
	return model.EntitlementWindow{UserID: userID, SwipesUsed: 1}, nil
}

func (usageStub) Limits() entitlements.Config {
	return entitlements.Config{FreeSwipesPerDay: 2, FreePostsTotal: 5, FreeAdventuresPerMonth: 1}
}

func newTestService(users *userStoreStub, now time.Time) *Service {
	svc := NewService(Dependencies{Users: users, Usage: usageStub{}})
	svc.now = func() time.Time { return now }
	return svc
}

func TestActivateMonthlyPlan(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{5: {ID: 5, SubscriptionTier: "free"}}}
	svc := newTestService(users, now)

	status, err := svc.Activate(context.Background(), 5, "monthly")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !status.IsPremium || status.Tier != "premium" {
		t.Fatalf("unexpected status: %+v", status)
	}
	wantExpiry := now.Add(30 * 24 * time.Hour)
	if status.ExpiresAt == nil || !status.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("unexpected expiry %v, want %s", status.ExpiresAt, wantExpiry)
	}
	if status.SwipeLimit != 2 || status.PostLimit != 5 || status.AdventureCap != 1 {
		t.Fatalf("limits not carried: %+v", status)
	}
}

func TestActivateRejectsUnknownPlan(t *testing.T) {
	users := &userStoreStub{users: map[int64]model.User{5: {ID: 5}}}
	svc := newTestService(users, time.Now())

	if _, err := svc.Activate(context.Background(), 5, "weekly"); !errors.Is(err, ErrUnknownPlan) {
		t.Fatalf("expected ErrUnknownPlan, got %v", err)
	}
}

func TestStatusReportsLapsedSubscriptionAsFree(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Hour)
	users := &userStoreStub{users: map[int64]model.User{
		5: {ID: 5, IsPremium: true, SubscriptionTier: "premium", PremiumExpiresAt: &expired},
	}}
	svc := newTestService(users, now)

	status, err := svc.Status(context.Background(), 5)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.IsPremium || status.Tier != "free" {
		t.Fatalf("lapsed subscription must read as free: %+v", status)
	}
}

func TestDeactivateClearsSubscription(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)
	users := &userStoreStub{users: map[int64]model.User{
		5: {ID: 5, IsPremium: true, SubscriptionTier: "premium", PremiumExpiresAt: &expires},
	}}
	svc := newTestService(users, now)

	status, err := svc.Deactivate(context.Background(), 5)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if status.IsPremium || status.Tier != "free" || status.ExpiresAt != nil {
		t.Fatalf("unexpected status after deactivate: %+v", status)
	}
}

func TestStatusUnknownUser(t *testing.T) {
	svc := newTestService(&userStoreStub{users: map[int64]model.User{}}, time.Now())

	if _, err := svc.Status(context.Background(), 404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
