// Package auth serves the single-admin session endpoints: status, login
// and logout.
package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/api/apperr"
	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	"github.com/5w1tchy/earthy-reads/internal/security/password"
	"github.com/5w1tchy/earthy-reads/internal/security/session"
)

type Handler struct {
	Gate       *session.Gate
	Credential *password.Credential
	TTL        time.Duration
	Secure     bool
}

func New(g *session.Gate, cred *password.Credential, ttl time.Duration, secure bool) *Handler {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Handler{Gate: g, Credential: cred, TTL: ttl, Secure: secure}
}

// Status reports whether the caller holds a valid admin session.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{IsAuthenticated: h.Gate.Authenticated(r)})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, httpx.ErrTooLarge) {
			apperr.WriteStatus(w, r, http.StatusRequestEntityTooLarge, "Payload Too Large", "Request body too large.")
			return
		}
		apperr.BadRequest(w, r, "Invalid JSON")
		return
	}

	if !h.Credential.Matches(req.Password) {
		log.Printf("[Auth] failed login from %s", r.RemoteAddr)
		httpx.WriteJSON(w, http.StatusUnauthorized, LoginResponse{Success: false})
		return
	}

	tok, _, err := h.Gate.Signer.Sign(h.TTL)
	if err != nil {
		log.Printf("[Auth] sign session: %v", err)
		apperr.Internal(w, r, "Could not start a session.")
		return
	}
	session.SetCookie(w, tok, h.TTL, h.Secure)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// Logout always succeeds. A valid session is revoked for the rest of its
// lifetime when revocation storage is configured.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.Gate.Claims(r); ok {
		if err := h.Gate.Revoked.Revoke(r.Context(), c.ID, c.Remaining(time.Now())); err != nil {
			log.Printf("[Auth] revoke %s: %v", c.ID, err)
		}
	}
	session.ClearCookie(w, h.Secure)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}
