package api

import (
	"database/sql"
	"net/http"

	"github.com/rewear/rewear/internal/moderation"
	"github.com/rewear/rewear/internal/notify"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, classifier moderation.Classifier, dispatcher *notify.Dispatcher) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db, Classifier: classifier, Dispatcher: dispatcher}
	swapsHandler := &SwapsHandler{DB: db, Dispatcher: dispatcher}
	pointsHandler := &PointsHandler{DB: db}
	notificationsHandler := &NotificationsHandler{DB: db}
	adminHandler := &AdminHandler{DB: db, Dispatcher: dispatcher}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireAdmin

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Categories.
	mux.Handle("GET /api/categories", authMW(http.HandlerFunc(categoriesHandler.List)))

	// Items.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/mine", authMW(http.HandlerFunc(itemsHandler.ListMine)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("POST /api/items/{id}/redeem", authMW(http.HandlerFunc(itemsHandler.Redeem)))

	// Swaps.
	mux.Handle("POST /api/swaps", authMW(http.HandlerFunc(swapsHandler.Create)))
	mux.Handle("GET /api/swaps", authMW(http.HandlerFunc(swapsHandler.List)))
	mux.Handle("GET /api/swaps/{id}", authMW(http.HandlerFunc(swapsHandler.Get)))
	mux.Handle("PUT /api/swaps/{id}/status", authMW(http.HandlerFunc(swapsHandler.Transition)))

	// Points.
	mux.Handle("GET /api/points/balance", authMW(http.HandlerFunc(pointsHandler.Balance)))
	mux.Handle("GET /api/points/history", authMW(http.HandlerFunc(pointsHandler.History)))

	// Notifications.
	mux.Handle("GET /api/notifications", authMW(http.HandlerFunc(notificationsHandler.List)))
	mux.Handle("PUT /api/notifications/read", authMW(http.HandlerFunc(notificationsHandler.MarkAllRead)))
	mux.Handle("PUT /api/notifications/{id}/read", authMW(http.HandlerFunc(notificationsHandler.MarkRead)))

	// Moderation (admin only).
	mux.Handle("GET /api/admin/items/pending", authMW(requireAdmin(http.HandlerFunc(adminHandler.ListPending))))
	mux.Handle("GET /api/admin/items/flagged", authMW(requireAdmin(http.HandlerFunc(adminHandler.ListFlagged))))
	mux.Handle("POST /api/admin/items/{id}/approve", authMW(requireAdmin(http.HandlerFunc(adminHandler.ApproveItem))))
	mux.Handle("POST /api/admin/items/{id}/reject", authMW(requireAdmin(http.HandlerFunc(adminHandler.RejectItem))))
	mux.Handle("POST /api/admin/users/{id}/ban", authMW(requireAdmin(http.HandlerFunc(adminHandler.BanUser))))
	mux.Handle("POST /api/admin/users/{id}/unban", authMW(requireAdmin(http.HandlerFunc(adminHandler.UnbanUser))))
	mux.Handle("GET /api/admin/actions", authMW(requireAdmin(http.HandlerFunc(adminHandler.ListActions))))

	return mux
}
