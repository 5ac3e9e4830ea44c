package handler

import (
	"log/slog"
	"net/http"

	"github.com/mboer/treasurehunt/internal/services/leaderboard"
	"github.com/mboer/treasurehunt/internal/web/middleware"
	"github.com/mboer/treasurehunt/internal/web/templates"
)

// LeaderboardHandler handles the public leaderboard page
type LeaderboardHandler struct {
	leaderboard *leaderboard.Service
	renderer    *templates.Renderer
	logger      *slog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(lb *leaderboard.Service, renderer *templates.Renderer, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: lb,
		renderer:    renderer,
		logger:      logger,
	}
}

// View renders the top finishers
func (h *LeaderboardHandler) View(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboard.Top(r.Context())
	if err != nil {
		h.logger.Error("listing leaderboard", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]templates.LeaderboardRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, templates.LeaderboardRow{
			Position: e.Position,
			Name:     e.Name,
			Time:     leaderboard.FormatDuration(e.Duration),
		})
	}

	var playerName string
	if player := middleware.GetPlayer(r.Context()); player != nil {
		playerName = player.Name
	}

	data := templates.LeaderboardData{
		PageData: templates.PageData{
			Title:      "Leaderboard",
			PlayerName: playerName,
			Flash:      middleware.GetFlash(r.Context()),
		},
		Entries: rows,
	}
	renderPage(w, h.renderer, "leaderboard", data, h.logger)
}
