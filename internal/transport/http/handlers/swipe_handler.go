package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	swipesvc "github.com/maisachinsharmahu/vanbackend/internal/services/swipes"
	"github.com/maisachinsharmahu/vanbackend/internal/transport/http/dto"
	httperrors "github.com/maisachinsharmahu/vanbackend/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.TargetID <= 0 || strings.TrimSpace(req.Action) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id and action are required")
		return
	}

	result, err := h.service.Swipe(
		r.Context(),
		identity.UserID,
		req.TargetID,
		enums.SwipeAction(strings.ToLower(strings.TrimSpace(req.Action))),
		enums.MatchMode(strings.ToLower(strings.TrimSpace(req.Mode))),
	)
	if err != nil {
		h.writeSwipeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK:      true,
		MatchID: result.Pair.ID,
		Matched: result.Matched,
		RoomKey: result.RoomKey,
	})
}

func (h *SwipeHandler) Respond(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	matchID, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil || matchID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	var req dto.RespondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	result, err := h.service.Respond(
		r.Context(),
		identity.UserID,
		matchID,
		enums.SwipeAction(strings.ToLower(strings.TrimSpace(req.Action))),
	)
	if err != nil {
		h.writeSwipeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK:      true,
		MatchID: result.Pair.ID,
		Matched: result.Matched,
		RoomKey: result.RoomKey,
	})
}

func (h *SwipeHandler) writeSwipeError(w http.ResponseWriter, err error) {
	var limitErr *entitlements.LimitError
	switch {
	case errors.Is(err, swipesvc.ErrValidation), errors.Is(err, swipesvc.ErrSelfSwipe):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
	case errors.Is(err, swipesvc.ErrMatchNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, swipesvc.ErrNotParticipant):
		writeForbidden(w, "NOT_PARTICIPANT", "you are not part of this match")
	case errors.Is(err, entitlements.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	case errors.As(err, &limitErr):
		writeLimitError(w, limitErr)
	default:
		if tf, ok := swipesvc.IsTooFast(err); ok {
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_FAST",
				Message:       "too many swipes, slow down",
				RetryAfterSec: tf.RetryAfter(),
			})
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
	}
}
