package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskfolio/taskfolio/internal/shared"
)

// CookieName is the cookie that carries the session token.
const CookieName = "access_token"

// Gate turns the inbound request's session cookie into an authenticated
// identity. It owns no persistent state; every outcome short of a verified
// token is an ordinary anonymous result, never an error.
type Gate struct {
	codec  *Codec
	logger *slog.Logger
	secure bool
}

// NewGate constructs a Gate. secure controls the cookie Secure attribute
// and should be true in production.
func NewGate(codec *Codec, logger *slog.Logger, secure bool) *Gate {
	return &Gate{codec: codec, logger: logger, secure: secure}
}

// Authenticate reads the session cookie and returns the identity it
// proves, or nil for an anonymous request. A decode failure is treated the
// same as a missing cookie. A token that verifies but carries unusable
// claims is cleared from the client, the same path logout takes.
func (g *Gate) Authenticate(w http.ResponseWriter, r *http.Request) *shared.Identity {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	claims, err := g.codec.Decode(cookie.Value)
	if err != nil {
		if g.logger != nil {
			g.logger.Debug("session token rejected", slog.Any("error", err))
		}
		return nil
	}

	username := claims.Username()
	if username == "" || claims.UserID == 0 {
		if g.logger != nil {
			g.logger.Warn("session token missing identity claims")
		}
		g.ClearCookie(w)
		return nil
	}

	return &shared.Identity{UserID: claims.UserID, Username: username}
}

// SetCookie stores a minted token on the client.
func (g *Gate) SetCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie instructs the client to delete the session cookie. It always
// succeeds, even when no session existed.
func (g *Gate) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAuth is the access-decision middleware for protected routes.
// Anonymous requests are redirected to the login entry point before any
// handler side effect can run.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.IdentityFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/auth", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
