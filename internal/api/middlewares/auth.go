package middlewares

import (
	"net/http"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/security/session"
)

// RequireAdmin lets the request through only with a valid, unrevoked
// session cookie, and records the session id in the context.
func RequireAdmin(g *session.Gate, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := g.Claims(r)
		if !ok {
			apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "Sign in to make changes.")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), c.ID)))
	})
}
