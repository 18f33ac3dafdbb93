package session

import (
	"net/http"
)

// Gate answers "is this request an admin session?".
type Gate struct {
	Signer  *Signer
	Revoked Revocations
}

// Claims returns the verified claims of the request's session cookie, or
// false for a missing, malformed, expired or revoked cookie.
func (g *Gate) Claims(r *http.Request) (*Claims, bool) {
	tok := TokenFrom(r)
	if tok == "" {
		return nil, false
	}
	c, err := g.Signer.Parse(tok)
	if err != nil {
		return nil, false
	}
	if g.Revoked.Revoked(r.Context(), c.ID) {
		return nil, false
	}
	return c, true
}

func (g *Gate) Authenticated(r *http.Request) bool {
	_, ok := g.Claims(r)
	return ok
}
