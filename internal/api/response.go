package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"relist/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps a domain error to an HTTP status and message. Unknown
// errors become an opaque 500 and are logged.
func storeError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, model.ErrDuplicateUsername):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrInvalidCredentials):
		jsonError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, model.ErrPendingApproval):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrUnknownCategory):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrCategoryInUse):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrPermissionDenied):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("internal error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
