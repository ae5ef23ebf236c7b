package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	postssvc "github.com/maisachinsharmahu/vanbackend/internal/services/posts"
	"github.com/maisachinsharmahu/vanbackend/internal/transport/http/dto"
	httperrors "github.com/maisachinsharmahu/vanbackend/internal/transport/http/errors"
)

type PostsHandler struct {
	service *postssvc.Service
}

func NewPostsHandler(service *postssvc.Service) *PostsHandler {
	return &PostsHandler{service: service}
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	var req dto.CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "content is required")
		return
	}

	post, err := h.service.Create(r.Context(), identity.UserID, req.Content)
	if err != nil {
		h.writePostsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.PostResponse{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	})
}

func (h *PostsHandler) Comment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil || postID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}

	var req dto.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "content is required")
		return
	}

	comment, err := h.service.Comment(r.Context(), identity.UserID, postID, req.Content)
	if err != nil {
		h.writePostsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
}

func (h *PostsHandler) writePostsError(w http.ResponseWriter, err error) {
	var limitErr *entitlements.LimitError
	switch {
	case errors.Is(err, postssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid posts request")
	case errors.Is(err, postssvc.ErrPostTooLong):
		writeBadRequest(w, "POST_TOO_LONG", "content exceeds the allowed length")
	case errors.Is(err, postssvc.ErrPostNotFound):
		writeNotFound(w, "POST_NOT_FOUND", "post not found")
	case errors.Is(err, entitlements.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	case errors.As(err, &limitErr):
		writeLimitError(w, limitErr)
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process posts request")
	}
}
