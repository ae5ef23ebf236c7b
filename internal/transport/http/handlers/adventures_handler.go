package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	adventuressvc "github.com/maisachinsharmahu/vanbackend/internal/services/adventures"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	"github.com/maisachinsharmahu/vanbackend/internal/transport/http/dto"
	httperrors "github.com/maisachinsharmahu/vanbackend/internal/transport/http/errors"
)

type AdventuresHandler struct {
	service *adventuressvc.Service
}

func NewAdventuresHandler(service *adventuressvc.Service) *AdventuresHandler {
	return &AdventuresHandler{service: service}
}

func (h *AdventuresHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ADVENTURES_SERVICE_UNAVAILABLE", "adventures service is unavailable")
		return
	}

	var req dto.CreateAdventureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "title is required")
		return
	}

	adventure, err := h.service.Create(r.Context(), model.Adventure{
		CreatorID:       identity.UserID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		MaxParticipants: req.MaxParticipants,
		StartsAt:        req.StartsAt,
	})
	if err != nil {
		h.writeAdventuresError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, mapAdventure(adventure))
}

func (h *AdventuresHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityOrAbort(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ADVENTURES_SERVICE_UNAVAILABLE", "adventures service is unavailable")
		return
	}

	adventures, err := h.service.List(r.Context(), r.URL.Query().Get("category"), queryLimit(r))
	if err != nil {
		h.writeAdventuresError(w, err)
		return
	}

	items := make([]dto.AdventureResponse, 0, len(adventures))
	for _, adventure := range adventures {
		items = append(items, mapAdventure(adventure))
	}

	httperrors.Write(w, http.StatusOK, dto.AdventuresResponse{Items: items})
}

func (h *AdventuresHandler) writeAdventuresError(w http.ResponseWriter, err error) {
	var limitErr *entitlements.LimitError
	switch {
	case errors.Is(err, adventuressvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid adventures request")
	case errors.Is(err, entitlements.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	case errors.As(err, &limitErr):
		writeLimitError(w, limitErr)
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process adventures request")
	}
}

func mapAdventure(adventure model.Adventure) dto.AdventureResponse {
	return dto.AdventureResponse{
		ID:              adventure.ID,
		CreatorID:       adventure.CreatorID,
		Title:           adventure.Title,
		Description:     adventure.Description,
		Category:        adventure.Category,
		MaxParticipants: adventure.MaxParticipants,
		StartsAt:        adventure.StartsAt,
		CreatedAt:       adventure.CreatedAt,
	}
}
