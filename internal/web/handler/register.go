package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mboer/treasurehunt/internal/model"
	"github.com/mboer/treasurehunt/internal/services/registry"
	"github.com/mboer/treasurehunt/internal/session"
	"github.com/mboer/treasurehunt/internal/web/middleware"
	"github.com/mboer/treasurehunt/internal/web/templates"
)

// RegisterHandler handles the registration page and form
type RegisterHandler struct {
	registry *registry.Service
	sessions *session.Service
	renderer *templates.Renderer
	logger   *slog.Logger
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(reg *registry.Service, sessions *session.Service, renderer *templates.Renderer, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{
		registry: reg,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// Index renders the registration page. A returning finished player is sent
// straight to the leaderboard; a returning unfinished player to their clue.
func (h *RegisterHandler) Index(w http.ResponseWriter, r *http.Request) {
	if player := middleware.GetPlayer(r.Context()); player != nil {
		if player.Finished() {
			middleware.SetFlash(w, middleware.FlashInfo,
				"Welcome back, Master Explorer! You have already completed the hunt. Here are the results.")
			http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/resume", http.StatusSeeOther)
		return
	}

	data := templates.PageData{
		Title: "Register",
		Flash: middleware.GetFlash(r.Context()),
	}
	renderPage(w, h.renderer, "index", data, h.logger)
}

// Register handles the registration form submission
func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	name := r.FormValue("player_name")
	player, err := h.registry.Register(r.Context(), name)
	if err != nil {
		middleware.SetFlash(w, middleware.FlashError, registrationMessage(err, name))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess, err := h.sessions.Create(r.Context(), player.ID, player.Name)
	if err != nil {
		h.logger.Error("creating session", slog.Any("error", err))
		middleware.SetFlash(w, middleware.FlashError, "Something went wrong. Please try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.SetSessionCookie(w, sess.Token)
	http.Redirect(w, r, "/start", http.StatusSeeOther)
}

func registrationMessage(err error, name string) string {
	switch {
	case errors.Is(err, model.ErrNameEmpty):
		return "Player name cannot be empty!"
	case errors.Is(err, model.ErrNameProfane):
		return "That name contains inappropriate language. Please choose a different name."
	case errors.Is(err, model.ErrNameTaken):
		return "A player named '" + strings.TrimSpace(name) + "' is already on a voyage! Please choose a different name."
	default:
		return "Something went wrong. Please try again."
	}
}
