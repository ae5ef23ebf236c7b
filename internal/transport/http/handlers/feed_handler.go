package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	feedsvc "github.com/maisachinsharmahu/vanbackend/internal/services/feed"
	"github.com/maisachinsharmahu/vanbackend/internal/transport/http/dto"
	httperrors "github.com/maisachinsharmahu/vanbackend/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	mode := enums.MatchMode(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mode"))))

	users, err := h.service.Suggestions(r.Context(), identity.UserID, mode, queryLimit(r))
	if err != nil {
		if errors.Is(err, feedsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid suggestions request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load suggestions")
		return
	}

	items := make([]dto.SuggestionResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.SuggestionResponse{
			UserID: user.ID,
			Name:   user.Name,
			Handle: user.Handle,
			Bio:    user.Bio,
			Age:    user.Age,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.SuggestionsResponse{Items: items})
}
