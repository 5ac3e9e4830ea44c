// Package handler contains the HTTP handlers, one per page group in the
// router's layout.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/mboer/treasurehunt/internal/web/templates"
)

func renderPage(w http.ResponseWriter, renderer *templates.Renderer, name string, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Render(w, name, data); err != nil {
		logger.Error("rendering page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
