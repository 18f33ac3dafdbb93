package client

import (
	"context"
	"net/http"
)

// AuthState is unknown until the first status check completes.
type AuthState int

const (
	AuthUnknown AuthState = iota
	AuthAnonymous
	AuthAdmin
)

func (s AuthState) String() string {
	switch s {
	case AuthAnonymous:
		return "anonymous"
	case AuthAdmin:
		return "admin"
	}
	return "unknown"
}

// Known reports whether a status check has completed.
func (s AuthState) Known() bool { return s != AuthUnknown }

// CheckStatus asks the server whether the session cookie is valid. Any
// failure counts as signed out.
func (c *Client) CheckStatus(ctx context.Context) AuthState {
	var out struct {
		IsAuthenticated bool `json:"isAuthenticated"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth-status", nil, nil, &out); err != nil {
		return AuthAnonymous
	}
	if out.IsAuthenticated {
		return AuthAdmin
	}
	return AuthAnonymous
}

// Login reports false for a wrong password. Throttling and transport
// failures come back as errors.
func (c *Client) Login(ctx context.Context, password string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login", nil, map[string]string{"password": password}, &out)
	if IsStatus(err, http.StatusUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, struct{}{}, nil)
}
