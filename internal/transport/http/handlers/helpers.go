package handlers

import (
	"encoding/json"
	"net/http"

	authsvc "github.com/maisachinsharmahu/vanbackend/internal/services/auth"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	httperrors "github.com/maisachinsharmahu/vanbackend/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func identityOrAbort(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

func writeLimitError(w http.ResponseWriter, limitErr *entitlements.LimitError) {
	httperrors.Write(w, http.StatusForbidden, httperrors.LimitError{
		Code:              "LIMIT_REACHED",
		Message:           limitErr.Reason,
		IsPremiumRequired: true,
		Limit:             limitErr.Limit,
		Used:              limitErr.Used,
	})
}
