package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"
)

const (
	flashCookieName = "flash"
	flashContextKey = contextKey("flash")
)

// FlashMessage is a one-shot notice shown on the next rendered page
type FlashMessage struct {
	Type    string // "info", "success" or "error"
	Message string
}

const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashError   = "error"
)

// GetFlash retrieves the flash message from the request context.
// Returns nil if no flash message is set.
func GetFlash(ctx context.Context) *FlashMessage {
	flash, _ := ctx.Value(flashContextKey).(*FlashMessage)
	return flash
}

// SetFlash sets a flash message to be displayed on the next request
func SetFlash(w http.ResponseWriter, flashType, message string) {
	// Encode as type:message
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encodeFlash(flashType + ":" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash returns middleware that reads and clears flash messages
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var flash *FlashMessage

			cookie, err := r.Cookie(flashCookieName)
			if err == nil && cookie.Value != "" {
				flash = parseFlash(decodeFlash(cookie.Value))

				// Clear the cookie
				http.SetCookie(w, &http.Cookie{
					Name:     flashCookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					Expires:  time.Unix(0, 0),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), flashContextKey, flash)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Cookie values cannot carry spaces or punctuation, so the encoded
// type:message string is base64-wrapped for transport.
func encodeFlash(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decodeFlash(s string) string {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(b)
}

func parseFlash(value string) *FlashMessage {
	for i := 0; i < len(value); i++ {
		if value[i] == ':' {
			return &FlashMessage{
				Type:    value[:i],
				Message: value[i+1:],
			}
		}
	}
	// No type prefix, treat the whole value as an info message
	return &FlashMessage{
		Type:    "info",
		Message: value,
	}
}
