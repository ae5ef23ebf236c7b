package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
	redrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/redis"
	authsvc "github.com/maisachinsharmahu/vanbackend/internal/services/auth"
	entsvc "github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	ratesvc "github.com/maisachinsharmahu/vanbackend/internal/services/rate"
	swipesvc "github.com/maisachinsharmahu/vanbackend/internal/services/swipes"
)

type handlerTxRunner struct{}

func (handlerTxRunner) WithinTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	return fn(ctx, nil)
}

type handlerPairStore struct {
	pairs  map[int64]model.MatchPair
	nextID int64
}

func newHandlerPairStore() *handlerPairStore {
	return &handlerPairStore{pairs: make(map[int64]model.MatchPair), nextID: 1}
}

func (s *handlerPairStore) GetForUpdate(_ context.Context, _ pgx.Tx, userA, userB int64) (model.MatchPair, error) {
	for _, p := range s.pairs {
		if p.HasParticipant(userA) && p.HasParticipant(userB) {
			return p, nil
		}
	}
	return model.MatchPair{}, pgrepo.ErrPairNotFound
}

func (s *handlerPairStore) GetByIDForUpdate(_ context.Context, _ pgx.Tx, pairID int64) (model.MatchPair, error) {
	p, ok := s.pairs[pairID]
	if !ok {
		return model.MatchPair{}, pgrepo.ErrPairNotFound
	}
	return p, nil
}

func (s *handlerPairStore) Create(_ context.Context, _ pgx.Tx, actorID, targetID int64, mode enums.MatchMode, action enums.SwipeAction, now time.Time) (model.MatchPair, error) {
	userA, userB := actorID, targetID
	if userB < userA {
		userA, userB = userB, userA
	}
	p := model.MatchPair{ID: s.nextID, UserAID: userA, UserBID: userB, Mode: mode, CreatedAt: now}
	if actorID == userA {
		p.SwipeA = &action
	} else {
		p.SwipeB = &action
	}
	s.nextID++
	s.pairs[p.ID] = p
	return p, nil
}

func (s *handlerPairStore) SetSwipe(_ context.Context, _ pgx.Tx, pairID, actorID int64, action enums.SwipeAction) error {
	p := s.pairs[pairID]
	if actorID == p.UserAID {
		p.SwipeA = &action
	} else {
		p.SwipeB = &action
	}
	s.pairs[pairID] = p
	return nil
}

func (s *handlerPairStore) Accept(_ context.Context, _ pgx.Tx, pairID, actorID int64, matchedAt time.Time) (bool, error) {
	p := s.pairs[pairID]
	if p.IsAccepted {
		return false, nil
	}
	p.IsAccepted = true
	p.MatchedAt = &matchedAt
	s.pairs[pairID] = p
	return true, nil
}

type handlerGate struct {
	decision entsvc.Decision
}

func (g handlerGate) Evaluate(context.Context, int64, enums.ActionKind) (entsvc.Decision, error) {
	return g.decision, nil
}

func (g handlerGate) RecordSwipe(context.Context, int64) error { return nil }

func TestSwipeHandlerCreatesPair(t *testing.T) {
	svc := swipesvc.NewService(swipesvc.Dependencies{
		Tx:           handlerTxRunner{},
		Pairs:        newHandlerPairStore(),
		Entitlements: handlerGate{decision: entsvc.Decision{Allowed: true}},
	})
	h := NewSwipeHandler(svc)

	resp := performSwipeRequest(t, h, 200, "like")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.Code, http.StatusOK)
	}

	var payload struct {
		OK      bool  `json:"ok"`
		MatchID int64 `json:"match_id"`
		Matched bool  `json:"matched"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.OK || payload.MatchID == 0 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Matched {
		t.Fatalf("first swipe should not match")
	}
}

func TestSwipeHandlerReturnsLimitReached(t *testing.T) {
	svc := swipesvc.NewService(swipesvc.Dependencies{
		Tx:    handlerTxRunner{},
		Pairs: newHandlerPairStore(),
		Entitlements: handlerGate{decision: entsvc.Decision{
			Allowed: false,
			Reason:  "daily swipe limit reached",
			Limit:   2,
			Used:    2,
		}},
	})
	h := NewSwipeHandler(svc)

	resp := performSwipeRequest(t, h, 200, "like")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", resp.Code, http.StatusForbidden)
	}

	var payload struct {
		Code              string `json:"code"`
		IsPremiumRequired bool   `json:"is_premium_required"`
		Limit             int    `json:"limit"`
		Used              int    `json:"used"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "LIMIT_REACHED" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "LIMIT_REACHED")
	}
	if !payload.IsPremiumRequired {
		t.Fatalf("expected is_premium_required in response")
	}
	if payload.Limit != 2 || payload.Used != 2 {
		t.Fatalf("unexpected counters: limit=%d used=%d", payload.Limit, payload.Used)
	}
}

func TestSwipeHandlerReturnsTooFastOnPremiumBurst(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = redisClient.Close() }()

	rateRepo := redrepo.NewRateRepo(redisClient)
	rateLimiter := ratesvc.NewLimiter(rateRepo, 60, 2)

	svc := swipesvc.NewService(swipesvc.Dependencies{
		Tx:           handlerTxRunner{},
		Pairs:        newHandlerPairStore(),
		Entitlements: handlerGate{decision: entsvc.Decision{Allowed: true, Premium: true}},
		RateLimiter:  rateLimiter,
	})
	h := NewSwipeHandler(svc)

	for i := 0; i < 2; i++ {
		if code := performSwipeRequest(t, h, 200+int64(i), "like").Code; code != http.StatusOK {
			t.Fatalf("warmup swipe %d: got status %d", i, code)
		}
	}

	resp := performSwipeRequest(t, h, 300, "like")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status on burst: got %d want %d", resp.Code, http.StatusTooManyRequests)
	}

	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "TOO_FAST" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "TOO_FAST")
	}
	if payload.RetryAfterSec <= 0 {
		t.Fatalf("expected positive retry_after_sec, got %d", payload.RetryAfterSec)
	}
}

func performSwipeRequest(t *testing.T, h *SwipeHandler, targetID int64, action string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"target_id": targetID,
		"action":    action,
	})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/match/swipe", bytes.NewReader(body))
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: 101}))
	rec := httptest.NewRecorder()
	h.Swipe(rec, req)
	return rec
}
