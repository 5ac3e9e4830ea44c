// Package web wires the HTTP surface: routing, middleware, handlers and
// the rendered pages.
package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mboer/treasurehunt/internal/services/admin"
	"github.com/mboer/treasurehunt/internal/services/hunt"
	"github.com/mboer/treasurehunt/internal/services/leaderboard"
	"github.com/mboer/treasurehunt/internal/services/registry"
	"github.com/mboer/treasurehunt/internal/session"
	"github.com/mboer/treasurehunt/internal/storage"
	"github.com/mboer/treasurehunt/internal/web/handler"
	"github.com/mboer/treasurehunt/internal/web/middleware"
	"github.com/mboer/treasurehunt/internal/web/templates"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger             *slog.Logger
	Store              storage.PlayerStore
	Sessions           *session.Service
	Registry           *registry.Service
	HuntController     *hunt.Controller
	LeaderboardService *leaderboard.Service
	AdminService       *admin.Service
	BaseURL            string
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	renderer, err := templates.New()
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	sessionMiddleware := middleware.Session(cfg.Sessions, cfg.Store)
	requirePlayer := middleware.RequirePlayer()
	requireAdmin := middleware.RequireAdmin()

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create handlers
	registerHandler := handler.NewRegisterHandler(cfg.Registry, cfg.Sessions, renderer, cfg.Logger)
	huntHandler := handler.NewHuntHandler(cfg.HuntController, renderer, cfg.Logger)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, renderer, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.Sessions, cfg.HuntController.Chain().Tags(), cfg.BaseURL, renderer, cfg.Logger)

	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// Public routes (session resolved when present, never required)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(sessionMiddleware)
	public.HandleFunc("/", registerHandler.Index).Methods(http.MethodGet)
	public.HandleFunc("/", registerHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/leaderboard", leaderboardHandler.View).Methods(http.MethodGet)

	// Hunt routes (require a registered player)
	game := r.NewRoute().Subrouter()
	game.Use(flashMiddleware)
	game.Use(sessionMiddleware)
	game.Use(requirePlayer)
	game.HandleFunc("/start", huntHandler.Start).Methods(http.MethodGet)
	game.HandleFunc("/resume", huntHandler.Resume).Methods(http.MethodGet)
	game.HandleFunc("/hunt/clue/{tag_id}", huntHandler.Scan).Methods(http.MethodGet)

	// Admin dashboard: reachable without the admin flag so the login form
	// can render; the handler gates the roster itself
	adminPublic := r.PathPrefix("/admin").Subrouter()
	adminPublic.Use(flashMiddleware)
	adminPublic.Use(sessionMiddleware)
	adminPublic.HandleFunc("/dashboard", adminHandler.Dashboard).Methods(http.MethodGet)
	adminPublic.HandleFunc("/dashboard", adminHandler.Login).Methods(http.MethodPost)

	// Admin actions: bare 401 without the admin flag
	adminOnly := r.PathPrefix("/admin").Subrouter()
	adminOnly.Use(flashMiddleware)
	adminOnly.Use(sessionMiddleware)
	adminOnly.Use(requireAdmin)
	adminOnly.HandleFunc("/reset", adminHandler.Reset).Methods(http.MethodPost)
	adminOnly.HandleFunc("/remove_player/{id}", adminHandler.RemovePlayer).Methods(http.MethodPost)
	adminOnly.HandleFunc("/change_name/{id}", adminHandler.ChangeName).Methods(http.MethodPost)
	adminOnly.HandleFunc("/qr/{tag_id}", adminHandler.QRCode).Methods(http.MethodGet)

	// Unknown routes bounce back to registration
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		middleware.SetFlash(w, middleware.FlashError, "That page does not exist. Back to the start!")
		http.Redirect(w, req, "/", http.StatusSeeOther)
	})

	return r, nil
}
