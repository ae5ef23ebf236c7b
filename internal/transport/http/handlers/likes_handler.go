package handlers

import (
	"errors"
	"net/http"

	likessvc "github.com/maisachinsharmahu/vanbackend/internal/services/likes"
	"github.com/maisachinsharmahu/vanbackend/internal/transport/http/dto"
	httperrors "github.com/maisachinsharmahu/vanbackend/internal/transport/http/errors"
)

type LikesHandler struct {
	service *likessvc.Service
}

func NewLikesHandler(service *likessvc.Service) *LikesHandler {
	return &LikesHandler{service: service}
}

func (h *LikesHandler) Mine(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	summary, err := h.service.Mine(r.Context(), identity.UserID, queryLimit(r))
	if err != nil {
		h.writeLikesError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LikesResponse{
		Accepted: mapLikeViews(summary.Accepted),
		Pending:  mapLikeViews(summary.Pending),
		Rejected: mapLikeViews(summary.Rejected),
	})
}

func (h *LikesHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	views, err := h.service.Incoming(r.Context(), identity.UserID, queryLimit(r))
	if err != nil {
		h.writeLikesError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.IncomingLikesResponse{Items: mapLikeViews(views)})
}

func (h *LikesHandler) writeLikesError(w http.ResponseWriter, err error) {
	if errors.Is(err, likessvc.ErrValidation) {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid likes request")
		return
	}
	writeInternal(w, "INTERNAL_ERROR", "failed to list likes")
}

func mapLikeViews(views []likessvc.LikeView) []dto.LikeItemResponse {
	items := make([]dto.LikeItemResponse, 0, len(views))
	for _, view := range views {
		items = append(items, dto.LikeItemResponse{
			MatchID:   view.MatchID,
			UserID:    view.UserID,
			Name:      view.Name,
			Handle:    view.Handle,
			Bio:       view.Bio,
			Age:       view.Age,
			Mode:      string(view.Mode),
			MatchedAt: view.MatchedAt,
			CreatedAt: view.CreatedAt,
		})
	}
	return items
}
