package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"relist/internal/store"
)

// ExportHandler dumps all three collections in their persisted wire shape
// (admin only).
type ExportHandler struct {
	DB *sql.DB
}

// Export handles GET /api/export.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot, err := store.ExportCollections(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("collections exported", "admin", claims.Username,
		"users", len(snapshot.Users), "categories", len(snapshot.Categories), "items", len(snapshot.Items))
	jsonResponse(w, http.StatusOK, snapshot)
}
