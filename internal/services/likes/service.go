package likes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

// LikeStatus is the actor-side outcome of a like they sent.
type LikeStatus string

const (
	LikeStatusPending  LikeStatus = "pending"
	LikeStatusAccepted LikeStatus = "accepted"
	LikeStatusRejected LikeStatus = "rejected"
)

type LikeView struct {
	MatchID   int64           `json:"match_id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Handle    string          `json:"handle"`
	Bio       string          `json:"bio"`
	Age       int             `json:"age"`
	Mode      enums.MatchMode `json:"mode"`
	MatchedAt *time.Time      `json:"matched_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// LikesSummary groups the user's sent likes by what became of each one.
type LikesSummary struct {
	Accepted []LikeView `json:"accepted"`
	Pending  []LikeView `json:"pending"`
	Rejected []LikeView `json:"rejected"`
}

type PairListStore interface {
	ListLikedBy(ctx context.Context, userID int64, limit int) ([]pgrepo.LikedPairRecord, error)
	ListIncoming(ctx context.Context, userID int64, limit int) ([]pgrepo.IncomingPairRecord, error)
}

type Config struct {
	DefaultLimit int
}

type Service struct {
	pairs PairListStore
	cfg   Config
}

func NewService(pairs PairListStore, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	return &Service{pairs: pairs, cfg: cfg}
}

// Mine lists the profiles the user liked, grouped into accepted,
// pending and rejected by what the other side did.
func (s *Service) Mine(ctx context.Context, userID int64, limit int) (LikesSummary, error) {
	summary := LikesSummary{
		Accepted: []LikeView{},
		Pending:  []LikeView{},
		Rejected: []LikeView{},
	}

	if userID <= 0 {
		return summary, ErrValidation
	}
	if s.pairs == nil {
		return summary, fmt.Errorf("likes store is nil")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	records, err := s.pairs.ListLikedBy(ctx, userID, limit)
	if err != nil {
		return summary, fmt.Errorf("list liked profiles: %w", err)
	}

	for _, record := range records {
		view := viewOf(record.Pair, record.Other)
		switch statusOf(record, userID) {
		case LikeStatusAccepted:
			summary.Accepted = append(summary.Accepted, view)
		case LikeStatusRejected:
			summary.Rejected = append(summary.Rejected, view)
		default:
			summary.Pending = append(summary.Pending, view)
		}
	}

	return summary, nil
}

// Incoming lists pending likes awaiting the user's answer: the other
// side liked, this side has not swiped, and the pair is not accepted.
func (s *Service) Incoming(ctx context.Context, userID int64, limit int) ([]LikeView, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.pairs == nil {
		return nil, fmt.Errorf("likes store is nil")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	records, err := s.pairs.ListIncoming(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list incoming likes: %w", err)
	}

	views := make([]LikeView, 0, len(records))
	for _, record := range records {
		views = append(views, viewOf(record.Pair, record.Other))
	}

	return views, nil
}

func viewOf(pair model.MatchPair, other pgrepo.PairUserRecord) LikeView {
	return LikeView{
		MatchID:   pair.ID,
		UserID:    other.UserID,
		Name:      other.Name,
		Handle:    other.Handle,
		Bio:       other.Bio,
		Age:       other.Age,
		Mode:      pair.Mode,
		MatchedAt: pair.MatchedAt,
		CreatedAt: pair.CreatedAt,
	}
}

func statusOf(record pgrepo.LikedPairRecord, userID int64) LikeStatus {
	if record.Pair.IsAccepted {
		return LikeStatusAccepted
	}
	otherSwipe := record.Pair.SwipeOf(record.Pair.OtherUser(userID))
	if otherSwipe != nil && *otherSwipe == enums.SwipeActionDislike {
		return LikeStatusRejected
	}
	return LikeStatusPending
}
