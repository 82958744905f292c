package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"relist/internal/imaging"
	"relist/internal/model"
	"relist/internal/store"
)

// ItemsHandler handles listing endpoints. Items are immutable after
// creation; besides the side-band photo, deletion is the only change.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	CategoryID int64             `json:"category_id"`
	model.ItemInput
	Attributes map[string]string `json:"attributes"`
}

type itemListResponse struct {
	Items []model.Item `json:"items"`
	Count int          `json:"count"`
}

// List handles GET /api/items. With ?type= or ?q= it becomes a search:
// type matches the item's category name exactly, q is a case-insensitive
// substring match on name or description. Results keep insertion order.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryName := r.URL.Query().Get("type")
	keyword := r.URL.Query().Get("q")

	items, err := store.SearchItems(r.Context(), h.DB, categoryName, keyword)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, itemListResponse{Items: items, Count: len(items)})
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	item, err := store.CreateItem(r.Context(), h.DB, req.CategoryID, req.ItemInput, req.Attributes, claims.UserID)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("item listed", "user", claims.Username, "item_id", item.ID, "category", item.CategoryName)
	jsonResponse(w, http.StatusCreated, item)
}

// Delete handles DELETE /api/items/{id}. Owners may delete their own
// listings; admins may delete anyone's.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	claims := GetClaims(r.Context())
	if err := store.DeleteItem(r.Context(), h.DB, id, claims.UserID, claims.Role); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("item deleted", "user", claims.Username, "item_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadPhoto handles PUT /api/items/{id}/photo.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.ProcessPhoto(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := GetClaims(r.Context())
	if err := store.SetItemPhoto(r.Context(), h.DB, id, photo.Data, photo.MIME, claims.UserID, claims.Role); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/items/{id}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemPhoto(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
