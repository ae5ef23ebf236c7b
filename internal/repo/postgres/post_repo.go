package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Create(ctx context.Context, authorID int64, content string) (model.Post, error) {
	if authorID <= 0 || content == "" {
		return model.Post{}, fmt.Errorf("invalid post payload")
	}
	if r.pool == nil {
		return model.Post{}, fmt.Errorf("postgres pool is nil")
	}

	var post model.Post
	err := r.pool.QueryRow(ctx, `
INSERT INTO posts (
	author_id,
	content,
	created_at
) VALUES ($1, $2, NOW())
RETURNING id, author_id, content, created_at
`, authorID, content).Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt)
	if err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

func (r *PostRepo) Get(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("invalid post id")
	}
	if r.pool == nil {
		return model.Post{}, ErrPostNotFound
	}

	var post model.Post
	err := r.pool.QueryRow(ctx, `
SELECT id, author_id, content, created_at
FROM posts
WHERE id = $1
LIMIT 1
`, postID).Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, ErrPostNotFound
		}
		return model.Post{}, fmt.Errorf("get post: %w", err)
	}

	return post, nil
}

func (r *PostRepo) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	if authorID <= 0 {
		return 0, fmt.Errorf("invalid author id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM posts
WHERE author_id = $1
`, authorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts by author: %w", err)
	}

	return count, nil
}

func (r *PostRepo) AddComment(ctx context.Context, postID, authorID int64, content string) (model.PostComment, error) {
	if postID <= 0 || authorID <= 0 || content == "" {
		return model.PostComment{}, fmt.Errorf("invalid comment payload")
	}
	if r.pool == nil {
		return model.PostComment{}, fmt.Errorf("postgres pool is nil")
	}

	var comment model.PostComment
	err := r.pool.QueryRow(ctx, `
INSERT INTO post_comments (
	post_id,
	author_id,
	content,
	created_at
) VALUES ($1, $2, $3, NOW())
RETURNING id, post_id, author_id, content, created_at
`, postID, authorID, content).Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content, &comment.CreatedAt)
	if err != nil {
		return model.PostComment{}, fmt.Errorf("add post comment: %w", err)
	}

	return comment, nil
}
