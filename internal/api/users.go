package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"relist/internal/model"
	"relist/internal/store"
)

// UsersHandler handles user administration endpoints (admin only). There
// is deliberately no update or delete: approval is the only mutation an
// account ever sees.
type UsersHandler struct {
	DB *sql.DB
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// ListPending handles GET /api/users/pending.
func (h *UsersHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListPendingUsers(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Approve handles POST /api/users/{id}/approve.
func (h *UsersHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := store.ApproveUser(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	target, _ := store.GetUser(r.Context(), h.DB, id)
	if target != nil {
		slog.Info("user approved", "admin", claims.Username, "user", target.Username)
	}
	jsonResponse(w, http.StatusOK, target)
}
