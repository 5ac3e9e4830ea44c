package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mboer/treasurehunt/internal/model"
	"github.com/mboer/treasurehunt/internal/qr"
	"github.com/mboer/treasurehunt/internal/services/admin"
	"github.com/mboer/treasurehunt/internal/services/leaderboard"
	"github.com/mboer/treasurehunt/internal/session"
	"github.com/mboer/treasurehunt/internal/web/middleware"
	"github.com/mboer/treasurehunt/internal/web/templates"
)

// AdminHandler handles the admin dashboard and actions
type AdminHandler struct {
	admin    *admin.Service
	sessions *session.Service
	tags     []string
	baseURL  string
	renderer *templates.Renderer
	logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler. tags is the full ordered tag
// list used for the QR poster links.
func NewAdminHandler(adm *admin.Service, sessions *session.Service, tags []string, baseURL string, renderer *templates.Renderer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:    adm,
		sessions: sessions,
		tags:     tags,
		baseURL:  baseURL,
		renderer: renderer,
		logger:   logger,
	}
}

// Dashboard renders the login form, or the roster for an admin session
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if sess == nil || !sess.Admin {
		data := templates.PageData{
			Title: "Admin",
			Flash: middleware.GetFlash(r.Context()),
		}
		renderPage(w, h.renderer, "admin_login", data, h.logger)
		return
	}

	players, err := h.admin.ListPlayers(r.Context())
	if err != nil {
		h.logger.Error("listing players", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]templates.AdminPlayerRow, 0, len(players))
	for _, p := range players {
		row := templates.AdminPlayerRow{
			ID:         string(p.ID),
			Name:       p.Name,
			CurrentTag: p.CurrentTag,
			Started:    p.Started,
			Finished:   p.Finished,
		}
		if p.Finished {
			row.Time = leaderboard.FormatDuration(p.Duration)
		}
		rows = append(rows, row)
	}

	data := templates.AdminDashboardData{
		PageData: templates.PageData{
			Title: "Admin dashboard",
			Flash: middleware.GetFlash(r.Context()),
		},
		Players: rows,
		Tags:    h.tags,
	}
	renderPage(w, h.renderer, "admin_dashboard", data, h.logger)
}

// Login handles the admin password form. A correct password marks the
// current session as admin (creating one if needed).
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	if !h.admin.Authenticate(r.FormValue("password")) {
		h.logger.Warn("admin login rejected")
		middleware.SetFlash(w, middleware.FlashError, "Incorrect admin password.")
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	var token string
	if sess := middleware.GetSession(r.Context()); sess != nil {
		token = sess.Token
	}
	sess, err := h.sessions.GrantAdmin(r.Context(), token)
	if err != nil {
		h.logger.Error("granting admin session", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	middleware.SetSessionCookie(w, sess.Token)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// Reset wipes every player and result
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Reset(r.Context()); err != nil {
		h.logger.Error("resetting hunt", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	middleware.SetFlash(w, middleware.FlashSuccess, "The hunt has been reset.")
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// RemovePlayer deletes one player
func (h *AdminHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])
	if err := h.admin.RemovePlayer(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			middleware.SetFlash(w, middleware.FlashError, "That player no longer exists.")
			http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
			return
		}
		h.logger.Error("removing player", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	middleware.SetFlash(w, middleware.FlashSuccess, "Player removed.")
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// ChangeName renames one player. The new name obeys the same rules as
// registration.
func (h *AdminHandler) ChangeName(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	id := model.PlayerID(mux.Vars(r)["id"])
	name := r.FormValue("player_name")

	player, err := h.admin.RenamePlayer(r.Context(), id, name)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPlayerNotFound):
			middleware.SetFlash(w, middleware.FlashError, "That player no longer exists.")
		case errors.Is(err, model.ErrNameEmpty), errors.Is(err, model.ErrNameProfane), errors.Is(err, model.ErrNameTaken):
			middleware.SetFlash(w, middleware.FlashError, registrationMessage(err, name))
		default:
			h.logger.Error("renaming player", slog.Any("error", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Player renamed to '"+player.Name+"'.")
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// QRCode serves a printable PNG poster for one tag
func (h *AdminHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag_id"]

	known := false
	for _, t := range h.tags {
		if t == tag {
			known = true
			break
		}
	}
	if !known {
		http.NotFound(w, r)
		return
	}

	png, err := qr.PNG(h.baseURL, tag, qr.DefaultSize)
	if err != nil {
		h.logger.Error("encoding qr code", slog.String("tag", tag), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}
