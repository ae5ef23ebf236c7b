package handlers

import (
	"errors"
	"net/http"

	premiumsvc "github.com/maisachinsharmahu/vanbackend/internal/services/premium"
	"github.com/maisachinsharmahu/vanbackend/internal/transport/http/dto"
	httperrors "github.com/maisachinsharmahu/vanbackend/internal/transport/http/errors"
)

type PremiumHandler struct {
	service *premiumsvc.Service
}

func NewPremiumHandler(service *premiumsvc.Service) *PremiumHandler {
	return &PremiumHandler{service: service}
}

func (h *PremiumHandler) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PREMIUM_SERVICE_UNAVAILABLE", "premium service is unavailable")
		return
	}

	status, err := h.service.Status(r.Context(), identity.UserID)
	if err != nil {
		h.writePremiumError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapStatus(status))
}

func (h *PremiumHandler) Activate(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PREMIUM_SERVICE_UNAVAILABLE", "premium service is unavailable")
		return
	}

	var req dto.ActivatePremiumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	status, err := h.service.Activate(r.Context(), identity.UserID, req.Plan)
	if err != nil {
		h.writePremiumError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapStatus(status))
}

func (h *PremiumHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PREMIUM_SERVICE_UNAVAILABLE", "premium service is unavailable")
		return
	}

	status, err := h.service.Deactivate(r.Context(), identity.UserID)
	if err != nil {
		h.writePremiumError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapStatus(status))
}

func (h *PremiumHandler) writePremiumError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, premiumsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid premium request")
	case errors.Is(err, premiumsvc.ErrUnknownPlan):
		writeBadRequest(w, "UNKNOWN_PLAN", "plan must be monthly or yearly")
	case errors.Is(err, premiumsvc.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process premium request")
	}
}

func mapStatus(status premiumsvc.Status) dto.PremiumStatusResponse {
	return dto.PremiumStatusResponse{
		IsPremium:      status.IsPremium,
		Tier:           status.Tier,
		Since:          status.Since,
		ExpiresAt:      status.ExpiresAt,
		SwipesUsed:     status.Usage.SwipesUsed,
		SwipeLimit:     status.SwipeLimit,
		PostsUsed:      status.Usage.PostsUsed,
		PostLimit:      status.PostLimit,
		AdventuresUsed: status.Usage.AdventuresMonth,
		AdventureLimit: status.AdventureCap,
	}
}
