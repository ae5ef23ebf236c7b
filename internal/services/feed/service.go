package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
)

var ErrValidation = errors.New("validation error")

type SwipeHistoryStore interface {
	SwipedUserIDs(ctx context.Context, userID int64) ([]int64, error)
}

type CandidateStore interface {
	ListCandidates(ctx context.Context, userID int64, excludeIDs []int64, mode enums.MatchMode, limit int) ([]model.User, error)
}

type Config struct {
	DefaultLimit int
}

type Service struct {
	history    SwipeHistoryStore
	candidates CandidateStore
	cfg        Config
}

func NewService(history SwipeHistoryStore, candidates CandidateStore, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	return &Service{
		history:    history,
		candidates: candidates,
		cfg:        cfg,
	}
}

// Suggestions returns swipe candidates the user has not acted on yet.
// The user themselves and every previously swiped profile are excluded.
func (s *Service) Suggestions(ctx context.Context, userID int64, mode enums.MatchMode, limit int) ([]model.User, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if mode == "" {
		mode = enums.MatchModeDating
	}
	if !mode.Valid() {
		return nil, ErrValidation
	}
	if s.history == nil || s.candidates == nil {
		return nil, fmt.Errorf("feed dependencies are not configured")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	swiped, err := s.history.SwipedUserIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load swipe history: %w", err)
	}

	exclude := make([]int64, 0, len(swiped)+1)
	exclude = append(exclude, userID)
	exclude = append(exclude, swiped...)

	users, err := s.candidates.ListCandidates(ctx, userID, exclude, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	return users, nil
}
