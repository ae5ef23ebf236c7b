package adventures

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
)

var ErrValidation = errors.New("validation error")

type AdventureStore interface {
	Create(ctx context.Context, adventure model.Adventure) (model.Adventure, error)
	List(ctx context.Context, category string, limit int) ([]model.Adventure, error)
}

type EntitlementGate interface {
	Evaluate(ctx context.Context, userID int64, action enums.ActionKind) (entitlements.Decision, error)
}

type Config struct {
	DefaultLimit int
}

type Service struct {
	adventures   AdventureStore
	entitlements EntitlementGate
	cfg          Config
}

func NewService(adventures AdventureStore, gate EntitlementGate, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	return &Service{
		adventures:   adventures,
		entitlements: gate,
		cfg:          cfg,
	}
}

// Create publishes a group adventure. Free accounts get one per
// calendar month.
func (s *Service) Create(ctx context.Context, adventure model.Adventure) (model.Adventure, error) {
	if adventure.CreatorID <= 0 {
		return model.Adventure{}, ErrValidation
	}
	adventure.Title = strings.TrimSpace(adventure.Title)
	if adventure.Title == "" {
		return model.Adventure{}, ErrValidation
	}
	if adventure.MaxParticipants < 0 {
		return model.Adventure{}, ErrValidation
	}
	if s.adventures == nil || s.entitlements == nil {
		return model.Adventure{}, fmt.Errorf("adventures dependencies are not configured")
	}

	decision, err := s.entitlements.Evaluate(ctx, adventure.CreatorID, enums.ActionCreateAdventure)
	if err != nil {
		return model.Adventure{}, err
	}
	if !decision.Allowed {
		return model.Adventure{}, entitlements.Deny(enums.ActionCreateAdventure, decision)
	}

	created, err := s.adventures.Create(ctx, adventure)
	if err != nil {
		return model.Adventure{}, fmt.Errorf("create adventure: %w", err)
	}

	return created, nil
}

func (s *Service) List(ctx context.Context, category string, limit int) ([]model.Adventure, error) {
	if s.adventures == nil {
		return nil, fmt.Errorf("adventures dependencies are not configured")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	adventures, err := s.adventures.List(ctx, strings.TrimSpace(category), limit)
	if err != nil {
		return nil, fmt.Errorf("list adventures: %w", err)
	}

	return adventures, nil
}
