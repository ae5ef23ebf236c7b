package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	pgrepo "github.com/maisachinsharmahu/vanbackend/internal/repo/postgres"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	"github.com/maisachinsharmahu/vanbackend/internal/services/notify"
)

const maxPostLength = 4000

var (
	ErrValidation   = errors.New("validation error")
	ErrPostNotFound = errors.New("post not found")
	ErrPostTooLong  = errors.New("post is too long")
)

type PostStore interface {
	Create(ctx context.Context, authorID int64, content string) (model.Post, error)
	Get(ctx context.Context, postID int64) (model.Post, error)
	AddComment(ctx context.Context, postID, authorID int64, content string) (model.PostComment, error)
}

type EntitlementGate interface {
	Evaluate(ctx context.Context, userID int64, action enums.ActionKind) (entitlements.Decision, error)
}

type Notifier interface {
	Emit(ctx context.Context, event notify.Event)
}

type Dependencies struct {
	Posts        PostStore
	Entitlements EntitlementGate
	Notifier     Notifier
}

type Service struct {
	posts        PostStore
	entitlements EntitlementGate
	notifier     Notifier
}

func NewService(deps Dependencies) *Service {
	return &Service{
		posts:        deps.Posts,
		entitlements: deps.Entitlements,
		notifier:     deps.Notifier,
	}
}

// Create publishes a post for the author. Free accounts have a lifetime
// post allowance; the evaluator enforces it.
func (s *Service) Create(ctx context.Context, authorID int64, content string) (model.Post, error) {
	if authorID <= 0 {
		return model.Post{}, ErrValidation
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Post{}, ErrValidation
	}
	if len(content) > maxPostLength {
		return model.Post{}, ErrPostTooLong
	}
	if s.posts == nil || s.entitlements == nil {
		return model.Post{}, fmt.Errorf("posts dependencies are not configured")
	}

	decision, err := s.entitlements.Evaluate(ctx, authorID, enums.ActionCreatePost)
	if err != nil {
		return model.Post{}, err
	}
	if !decision.Allowed {
		return model.Post{}, entitlements.Deny(enums.ActionCreatePost, decision)
	}

	post, err := s.posts.Create(ctx, authorID, content)
	if err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// Comment adds a comment and notifies the post's author. Commenting is
// not quota-gated.
func (s *Service) Comment(ctx context.Context, authorID, postID int64, content string) (model.PostComment, error) {
	if authorID <= 0 || postID <= 0 {
		return model.PostComment{}, ErrValidation
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return model.PostComment{}, ErrValidation
	}
	if len(content) > maxPostLength {
		return model.PostComment{}, ErrPostTooLong
	}
	if s.posts == nil {
		return model.PostComment{}, fmt.Errorf("posts dependencies are not configured")
	}

	post, err := s.posts.Get(ctx, postID)
	if errors.Is(err, pgrepo.ErrPostNotFound) {
		return model.PostComment{}, ErrPostNotFound
	}
	if err != nil {
		return model.PostComment{}, err
	}

	comment, err := s.posts.AddComment(ctx, postID, authorID, content)
	if err != nil {
		return model.PostComment{}, fmt.Errorf("add comment: %w", err)
	}

	if s.notifier != nil && post.AuthorID != authorID {
		s.notifier.Emit(ctx, notify.Event{
			Kind:      enums.NotificationKindComment,
			Recipient: post.AuthorID,
			Sender:    authorID,
			Content:   "Someone commented on your post",
			RelatedID: post.ID,
		})
	}

	return comment, nil
}
