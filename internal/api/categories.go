package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"relist/internal/model"
	"relist/internal/store"
)

// CategoriesHandler handles category CRUD. Reads are open to all
// authenticated users; mutations are admin-only (enforced in the router).
type CategoriesHandler struct {
	DB *sql.DB
}

type renameCategoryRequest struct {
	Name string `json:"name"`
}

type setAttributesRequest struct {
	Attributes []string `json:"attributes"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /api/categories. The new category gets a placeholder
// name and no attributes; rename and set-attributes fill it in.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	category, err := store.CreateCategory(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("category created", "admin", claims.Username, "category_id", category.ID)
	jsonResponse(w, http.StatusCreated, category)
}

// Rename handles PUT /api/categories/{id}.
func (h *CategoriesHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req renameCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.RenameCategory(r.Context(), h.DB, id, req.Name); err != nil {
		storeError(w, err)
		return
	}

	category, _ := store.GetCategory(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, category)
}

// SetAttributes handles PUT /api/categories/{id}/attributes. The list is
// replaced wholesale; the editing UI accumulates adds and removes locally
// before committing.
func (h *CategoriesHandler) SetAttributes(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req setAttributesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.SetCategoryAttributes(r.Context(), h.DB, id, req.Attributes); err != nil {
		storeError(w, err)
		return
	}

	category, _ := store.GetCategory(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := store.DeleteCategory(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("category deleted", "admin", claims.Username, "category_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
