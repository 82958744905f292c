package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	exportHandler := &ExportHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: login and self-registration.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Categories: read (all logged-in users), write (admin only).
	mux.Handle("GET /api/categories", authMW(http.HandlerFunc(categoriesHandler.List)))
	mux.Handle("POST /api/categories", authMW(RequireAdmin(http.HandlerFunc(categoriesHandler.Create))))
	mux.Handle("PUT /api/categories/{id}", authMW(RequireAdmin(http.HandlerFunc(categoriesHandler.Rename))))
	mux.Handle("PUT /api/categories/{id}/attributes", authMW(RequireAdmin(http.HandlerFunc(categoriesHandler.SetAttributes))))
	mux.Handle("DELETE /api/categories/{id}", authMW(RequireAdmin(http.HandlerFunc(categoriesHandler.Delete))))

	// Users (admin only; approval is the only mutation).
	mux.Handle("GET /api/users", authMW(RequireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("GET /api/users/pending", authMW(RequireAdmin(http.HandlerFunc(usersHandler.ListPending))))
	mux.Handle("POST /api/users/{id}/approve", authMW(RequireAdmin(http.HandlerFunc(usersHandler.Approve))))

	// Items: any approved user can list and search; deletion is gated per
	// item (owner or admin) in the store.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{id}/photo", authMW(http.HandlerFunc(itemsHandler.UploadPhoto)))
	mux.Handle("GET /api/items/{id}/photo", authMW(http.HandlerFunc(itemsHandler.GetPhoto)))

	// Export (admin only).
	mux.Handle("GET /api/export", authMW(RequireAdmin(http.HandlerFunc(exportHandler.Export))))

	return mux
}
