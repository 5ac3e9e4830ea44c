package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mboer/treasurehunt/internal/model"
	"github.com/mboer/treasurehunt/internal/services/hunt"
	"github.com/mboer/treasurehunt/internal/services/leaderboard"
	"github.com/mboer/treasurehunt/internal/web/middleware"
	"github.com/mboer/treasurehunt/internal/web/templates"
)

// HuntHandler handles the hunt progression pages
type HuntHandler struct {
	hunt     *hunt.Controller
	renderer *templates.Renderer
	logger   *slog.Logger
}

// NewHuntHandler creates a new HuntHandler
func NewHuntHandler(controller *hunt.Controller, renderer *templates.Renderer, logger *slog.Logger) *HuntHandler {
	return &HuntHandler{
		hunt:     controller,
		renderer: renderer,
		logger:   logger,
	}
}

// Start starts the player's timer (idempotently) and shows the first clue
func (h *HuntHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	first, err := h.hunt.Begin(r.Context(), player.ID)
	if err != nil {
		h.handleHuntError(w, r, player.Name, err)
		return
	}

	data := templates.StartData{
		PageData: templates.PageData{
			Title:      "Start",
			PlayerName: player.Name,
			Flash:      middleware.GetFlash(r.Context()),
		},
		FirstClue: first.Clue,
	}
	renderPage(w, h.renderer, "start", data, h.logger)
}

// Resume shows the clue the player is currently expected to find
func (h *HuntHandler) Resume(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	entry, err := h.hunt.ExpectedClue(r.Context(), player.ID)
	if err != nil {
		h.handleHuntError(w, r, player.Name, err)
		return
	}

	data := templates.ClueData{
		PageData: templates.PageData{
			Title:      "Your clue",
			PlayerName: player.Name,
			Flash:      middleware.GetFlash(r.Context()),
		},
		Clue: entry.Clue,
	}
	renderPage(w, h.renderer, "clue", data, h.logger)
}

// Scan processes a scanned tag
func (h *HuntHandler) Scan(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	tag := mux.Vars(r)["tag_id"]

	result, err := h.hunt.Scan(r.Context(), player.ID, tag)
	if err != nil {
		h.handleHuntError(w, r, player.Name, err)
		return
	}

	switch result.Outcome {
	case hunt.OutcomeAlreadyFinished:
		middleware.SetFlash(w, middleware.FlashInfo,
			"You have already completed the hunt! Here are the results.")
		http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)

	case hunt.OutcomeWrongTag:
		message := "Incorrect tag scanned. Please check your current clue."
		if result.Clue != "" {
			message = "Incorrect tag scanned. You are currently looking for the tag associated with the clue: \"" + result.Clue + "\""
		}
		h.renderError(w, r, player.Name, message)

	case hunt.OutcomeFinished:
		data := templates.ClueData{
			PageData: templates.PageData{
				Title:      "Finished",
				PlayerName: player.Name,
				Flash:      middleware.GetFlash(r.Context()),
			},
			Clue:           result.Clue,
			Final:          true,
			CompletionTime: leaderboard.FormatDurationLong(result.Duration),
			Rank:           result.Rank,
		}
		renderPage(w, h.renderer, "clue", data, h.logger)

	default:
		data := templates.ClueData{
			PageData: templates.PageData{
				Title:      "Your clue",
				PlayerName: player.Name,
				Flash:      middleware.GetFlash(r.Context()),
			},
			Clue: result.Clue,
		}
		renderPage(w, h.renderer, "clue", data, h.logger)
	}
}

func (h *HuntHandler) handleHuntError(w http.ResponseWriter, r *http.Request, playerName string, err error) {
	switch {
	case errors.Is(err, model.ErrAlreadyFinished):
		middleware.SetFlash(w, middleware.FlashInfo,
			"You have already completed the hunt! Here are the results.")
		http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)

	case errors.Is(err, model.ErrUnknownTag):
		h.renderError(w, r, playerName, "This tag is not active in the current hunt.")

	case errors.Is(err, model.ErrMustScanFirst):
		h.renderError(w, r, playerName,
			"To start the game, you must scan the first tag ("+h.hunt.Chain().FirstTag()+").")

	case errors.Is(err, model.ErrPlayerNotFound):
		middleware.ClearSessionCookie(w)
		middleware.SetFlash(w, middleware.FlashError, "Player session error. Please register again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		h.logger.Error("hunt operation failed", slog.Any("error", err))
		h.renderError(w, r, playerName, "An unexpected game state occurred.")
	}
}

func (h *HuntHandler) renderError(w http.ResponseWriter, r *http.Request, playerName, message string) {
	data := templates.ErrorData{
		PageData: templates.PageData{
			Title:      "Oops",
			PlayerName: playerName,
			Flash:      middleware.GetFlash(r.Context()),
		},
		Message: message,
	}
	renderPage(w, h.renderer, "error", data, h.logger)
}
