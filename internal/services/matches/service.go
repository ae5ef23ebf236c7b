package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/rules"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type MatchView struct {
	MatchID   int64           `json:"match_id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Handle    string          `json:"handle"`
	Bio       string          `json:"bio"`
	Age       int             `json:"age"`
	Mode      enums.MatchMode `json:"mode"`
	RoomKey   string          `json:"room_key"`
	MatchedAt *time.Time      `json:"matched_at"`
}

type AcceptedStore interface {
	ListAcceptedForUser(ctx context.Context, userID int64, mode enums.MatchMode, limit int) ([]pgrepo.AcceptedPairRecord, error)
}

type Config struct {
	DefaultLimit int
}

type Service struct {
	pairs AcceptedStore
	cfg   Config
}

func NewService(pairs AcceptedStore, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	return &Service{pairs: pairs, cfg: cfg}
}

// List returns the user's accepted matches, newest first. An empty mode
// returns matches from both modes.
func (s *Service) List(ctx context.Context, userID int64, mode enums.MatchMode, limit int) ([]MatchView, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if mode != "" && !mode.Valid() {
		return nil, ErrValidation
	}
	if s.pairs == nil {
		return nil, fmt.Errorf("matches store is nil")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	records, err := s.pairs.ListAcceptedForUser(ctx, userID, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("list accepted matches: %w", err)
	}

	views := make([]MatchView, 0, len(records))
	for _, record := range records {
		views = append(views, MatchView{
			MatchID:   record.Pair.ID,
			UserID:    record.Other.UserID,
			Name:      record.Other.Name,
			Handle:    record.Other.Handle,
			Bio:       record.Other.Bio,
			Age:       record.Other.Age,
			Mode:      record.Pair.Mode,
			RoomKey:   rules.RoomKey(record.Pair.Mode, record.Pair.UserAID, record.Pair.UserBID),
			MatchedAt: record.Pair.MatchedAt,
		})
	}

	return views, nil
}
