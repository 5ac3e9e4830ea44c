package middleware

import (
	"context"
	"net/http"

	"github.com/mboer/treasurehunt/internal/model"
	"github.com/mboer/treasurehunt/internal/session"
	"github.com/mboer/treasurehunt/internal/storage"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	playerContextKey  contextKey = "player"
)

const SessionCookieName = "session"

// GetSession retrieves the session from the request context.
// Returns nil if no valid session cookie was presented.
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// GetPlayer retrieves the current player from the request context.
// Returns nil for anonymous requests and admin-only sessions.
func GetPlayer(ctx context.Context) *model.Player {
	player, _ := ctx.Value(playerContextKey).(*model.Player)
	return player
}

// Session returns middleware that resolves the session cookie and, when
// the session belongs to a player, loads the current player record.
// Requests without a valid session pass through with nothing in context.
func Session(sessions *session.Service, store storage.PlayerStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFromRequest(r, sessions)
			ctx := r.Context()
			if sess != nil {
				ctx = context.WithValue(ctx, sessionContextKey, sess)
				if sess.PlayerID != "" {
					player, err := store.GetPlayer(ctx, sess.PlayerID)
					if err == nil {
						ctx = context.WithValue(ctx, playerContextKey, player)
					}
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePlayer returns middleware that requires a registered player.
// Requests without one are flashed and redirected to registration.
// A session pointing at a deleted player also clears the stale cookie.
func RequirePlayer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetPlayer(r.Context()) == nil {
				if sess := GetSession(r.Context()); sess != nil && sess.PlayerID != "" {
					ClearSessionCookie(w)
				}
				SetFlash(w, FlashError, "Please register a name before joining the hunt.")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that requires an admin session.
// Unauthenticated requests get a plain 401 with no redirect.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if sess == nil || !sess.Admin {
				http.Error(w, model.ErrNotAdmin.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetSessionCookie writes the session token cookie.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session token cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionFromRequest(r *http.Request, sessions *session.Service) *session.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	sess, err := sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return sess
}
