package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	matchessvc "github.com/maisachinsharmahu/vanbackend/internal/services/matches"
	"github.com/maisachinsharmahu/vanbackend/internal/transport/http/dto"
	httperrors "github.com/maisachinsharmahu/vanbackend/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	mode := enums.MatchMode(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mode"))))
	limit := queryLimit(r)

	views, err := h.service.List(r.Context(), identity.UserID, mode, limit)
	if err != nil {
		if errors.Is(err, matchessvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to list matches")
		return
	}

	items := make([]dto.MatchItemResponse, 0, len(views))
	for _, view := range views {
		items = append(items, dto.MatchItemResponse{
			MatchID:   view.MatchID,
			UserID:    view.UserID,
			Name:      view.Name,
			Handle:    view.Handle,
			Bio:       view.Bio,
			Age:       view.Age,
			Mode:      string(view.Mode),
			RoomKey:   view.RoomKey,
			MatchedAt: view.MatchedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: items})
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}
