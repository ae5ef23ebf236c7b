package entitlements

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
)

type userStoreStub struct {
	users        map[int64]model.User
	expireCalls  int
	expiredUsers []int64
}

func (s *userStoreStub) Get(_ context.Context, userID int64) (model.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *userStoreStub) ExpirePremium(_ context.Context, userID int64) error {
	s.expireCalls++
	s.expiredUsers = append(s.expiredUsers, userID)
	user := s.users[userID]
	user.IsPremium = false
	user.SubscriptionTier = "free"
	user.PremiumExpiresAt = nil
	s.users[userID] = user
	return nil
}

type usageStoreStub struct {
	used     map[string]int
	incCalls int
	lastDay  string
}

func usageKey(userID int64, dayKey string) string {
	return fmt.Sprintf("%d:%s", userID, dayKey)
}

func (s *usageStoreStub) GetSwipesUsed(_ context.Context, userID int64, dayKey string) (int, error) {
	return s.used[usageKey(userID, dayKey)], nil
}

func (s *usageStoreStub) IncrementSwipes(_ context.Context, userID int64, dayKey, _ string, delta int) (int, error) {
	s.incCalls++
	s.lastDay = dayKey
	key := usageKey(userID, dayKey)
	if s.used == nil {
		s.used = map[string]int{}
	}
	s.used[key] += delta
	return s.used[key], nil
}

type postStoreStub struct{ count int }

func (s postStoreStub) CountByAuthor(context.Context, int64) (int, error) {
	return s.count, nil
}

type adventureStoreStub struct {
	count int
	since time.Time
}

func (s *adventureStoreStub) CountByCreatorSince(_ context.Context, _ int64, since time.Time) (int, error) {
	s.since = since
	return s.count, nil
}

func newTestService(users *userStoreStub, usage *usageStoreStub, posts postStoreStub, adventures *adventureStoreStub, now time.Time) *Service {
	svc := NewService(Dependencies{
		Users:      users,
		Usage:      usage,
		Posts:      posts,
		Adventures: adventures,
	}, Config{})
	svc.now = func() time.Time { return now }
	return svc
}

func freeUser(id int64) model.User {
	return model.User{ID: id, SubscriptionTier: "free"}
}

func TestEvaluatePremiumAlwaysAllowed(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{
		1: {ID: 1, IsPremium: true, SubscriptionTier: "premium"},
	}}
	usage := &usageStoreStub{used: map[string]int{usageKey(1, "2026-05-10"): 99}}
	svc := newTestService(users, usage, postStoreStub{count: 99}, &adventureStoreStub{count: 99}, now)

	for _, action := range []enums.ActionKind{
		enums.ActionCreatePost,
		enums.ActionSwipe,
		enums.ActionMessage,
		enums.ActionCreateAdventure,
	} {
		decision, err := svc.Evaluate(context.Background(), 1, action)
		if err != nil {
			t.Fatalf("evaluate %s: %v", action, err)
		}
		if !decision.Allowed || !decision.Premium {
			t.Fatalf("premium user denied %s: %+v", action, decision)
		}
	}
}

func TestEvaluateSwipeDeniedAtDailyLimit(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{1: freeUser(1)}}
	usage := &usageStoreStub{used: map[string]int{usageKey(1, "2026-05-10"): 2}}
	svc := newTestService(users, usage, postStoreStub{}, &adventureStoreStub{}, now)

	decision, err := svc.Evaluate(context.Background(), 1, enums.ActionSwipe)
	if err != nil {
		t.Fatalf("evaluate swipe: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected swipe to be denied at limit")
	}
	if decision.Limit != 2 || decision.Used != 2 {
		t.Fatalf("unexpected limit payload: limit=%d used=%d", decision.Limit, decision.Used)
	}
}

func TestEvaluateSwipeResetsOnNewDay(t *testing.T) {
	// Counter stored under yesterday's key; today's lookup sees zero
	// without any write.
	now := time.Date(2026, 5, 11, 0, 0, 1, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{1: freeUser(1)}}
	usage := &usageStoreStub{used: map[string]int{usageKey(1, "2026-05-10"): 2}}
	svc := newTestService(users, usage, postStoreStub{}, &adventureStoreStub{}, now)

	decision, err := svc.Evaluate(context.Background(), 1, enums.ActionSwipe)
	if err != nil {
		t.Fatalf("evaluate swipe: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected swipe allowed on new day, got %+v", decision)
	}
	if usage.incCalls != 0 {
		t.Fatal("evaluation must not mutate stored counters")
	}
}

func TestEvaluatePostLimit(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{1: freeUser(1)}}
	svc := newTestService(users, &usageStoreStub{}, postStoreStub{count: 5}, &adventureStoreStub{}, now)

	decision, err := svc.Evaluate(context.Background(), 1, enums.ActionCreatePost)
	if err != nil {
		t.Fatalf("evaluate create_post: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected post creation denied at lifetime limit")
	}
	if decision.Limit != 5 || decision.Used != 5 {
		t.Fatalf("unexpected limit payload: limit=%d used=%d", decision.Limit, decision.Used)
	}
}

func TestEvaluateMessageAlwaysDeniedForFree(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{1: freeUser(1)}}
	svc := newTestService(users, &usageStoreStub{}, postStoreStub{}, &adventureStoreStub{}, now)

	decision, err := svc.Evaluate(context.Background(), 1, enums.ActionMessage)
	if err != nil {
		t.Fatalf("evaluate message: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected messaging denied for free user")
	}
	if decision.Reason == "" {
		t.Fatal("expected a fixed upgrade reason")
	}
	if decision.Limit != 0 || decision.Used != 0 {
		t.Fatalf("message denial carries no counter: %+v", decision)
	}
}

func TestEvaluateAdventureMonthlyLimit(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{1: freeUser(1)}}
	adventures := &adventureStoreStub{count: 1}
	svc := newTestService(users, &usageStoreStub{}, postStoreStub{}, adventures, now)

	decision, err := svc.Evaluate(context.Background(), 1, enums.ActionCreateAdventure)
	if err != nil {
		t.Fatalf("evaluate create_adventure: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected adventure creation denied")
	}
	wantSince := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if !adventures.since.Equal(wantSince) {
		t.Fatalf("unexpected month start: got %s want %s", adventures.since, wantSince)
	}
}

func TestEvaluateDowngradesLapsedPremium(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Second)
	users := &userStoreStub{users: map[int64]model.User{
		1: {ID: 1, IsPremium: true, SubscriptionTier: "premium", PremiumExpiresAt: &expired},
	}}
	usage := &usageStoreStub{used: map[string]int{usageKey(1, "2026-05-10"): 2}}
	svc := newTestService(users, usage, postStoreStub{}, &adventureStoreStub{}, now)

	decision, err := svc.Evaluate(context.Background(), 1, enums.ActionSwipe)
	if err != nil {
		t.Fatalf("evaluate swipe: %v", err)
	}
	if users.expireCalls != 1 {
		t.Fatalf("expected one downgrade call, got %d", users.expireCalls)
	}
	if decision.Allowed || decision.Premium {
		t.Fatalf("lapsed premium must be evaluated as free: %+v", decision)
	}

	// A second evaluation is a no-op downgrade-wise.
	if _, err := svc.Evaluate(context.Background(), 1, enums.ActionSwipe); err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if users.expireCalls != 1 {
		t.Fatalf("downgrade must be idempotent, got %d calls", users.expireCalls)
	}
}

func TestRecordSwipeSkipsPremium(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{
		1: {ID: 1, IsPremium: true},
	}}
	usage := &usageStoreStub{}
	svc := newTestService(users, usage, postStoreStub{}, &adventureStoreStub{}, now)

	if err := svc.RecordSwipe(context.Background(), 1); err != nil {
		t.Fatalf("record swipe: %v", err)
	}
	if usage.incCalls != 0 {
		t.Fatalf("premium swipe must not touch counters, got %d calls", usage.incCalls)
	}
}

func TestRecordSwipeIncrementsTodayKey(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{1: freeUser(1)}}
	usage := &usageStoreStub{}
	svc := newTestService(users, usage, postStoreStub{}, &adventureStoreStub{}, now)

	if err := svc.RecordSwipe(context.Background(), 1); err != nil {
		t.Fatalf("record swipe: %v", err)
	}
	if usage.incCalls != 1 || usage.lastDay != "2026-05-10" {
		t.Fatalf("unexpected counter write: calls=%d day=%s", usage.incCalls, usage.lastDay)
	}
}

func TestEvaluateUnknownUser(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	users := &userStoreStub{users: map[int64]model.User{}}
	svc := newTestService(users, &usageStoreStub{}, postStoreStub{}, &adventureStoreStub{}, now)

	if _, err := svc.Evaluate(context.Background(), 404, enums.ActionSwipe); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
