package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	Secret    []byte
	ClockSkew time.Duration
	Now       func() time.Time
}

func NewSigner(secret string, skew time.Duration) *Signer {
	return &Signer{Secret: []byte(secret), ClockSkew: skew, Now: time.Now}
}

// Sign returns (tokenString, jti).
func (s *Signer) Sign(ttl time.Duration) (string, string, error) {
	jti, err := randJTI()
	if err != nil {
		return "", "", err
	}
	claims := newClaims(jti, s.now(), ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := t.SignedString(s.Secret)
	return str, jti, err
}

// Parse verifies signature, expiry (with leeway) and subject.
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithLeeway(s.ClockSkew),
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithSubject(Subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func randJTI() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
