package password

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/alexedwards/argon2id"
)

var ErrNoCredential = errors.New("admin credential not configured: set ADMIN_PASSWORD_HASH or ADMIN_PASSWORD")

// Credential is the single admin secret, held only as an argon2id hash.
type Credential struct {
	phc string
}

// NewCredential prefers a precomputed PHC hash and otherwise hashes plain
// once at startup. Both empty is an error; there is no default password.
func NewCredential(phc, plain string, p Params) (*Credential, error) {
	phc = strings.TrimSpace(phc)
	if phc != "" {
		if _, _, _, err := argon2id.DecodeHash(phc); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
		}
		if Weaker(phc, p) {
			log.Printf("[Auth] ADMIN_PASSWORD_HASH uses weaker argon2 params than configured")
		}
		return &Credential{phc: phc}, nil
	}
	if plain == "" {
		return nil, ErrNoCredential
	}
	h, err := Hash(plain, p)
	if err != nil {
		return nil, err
	}
	return &Credential{phc: h}, nil
}

// Matches compares in constant time. Malformed input simply does not match.
func (c *Credential) Matches(plain string) bool {
	if c == nil || plain == "" {
		return false
	}
	ok, err := Verify(plain, c.phc)
	return err == nil && ok
}
