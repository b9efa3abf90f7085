package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/absensi/absensi/internal/api"
)

// Auth talks to the authentication endpoints.
type Auth struct {
	client *api.Client
}

// NewAuth returns an authentication accessor.
func NewAuth(c *api.Client) *Auth {
	return &Auth{client: c}
}

// Login exchanges credentials for an access token. The envelope message is
// meant to be shown to the user.
func (a *Auth) Login(ctx context.Context, req LoginRequest) (*api.Envelope[LoginResponse], error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("login: email and password are required")
	}

	env, err := api.Post[LoginResponse](ctx, a.client, "/auth/login", req, api.RequestOptions{})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return env, nil
}

// Logout revokes the current access token.
func (a *Auth) Logout(ctx context.Context) error {
	if _, err := api.Post[json.RawMessage](ctx, a.client, "/auth/logout", nil, api.RequestOptions{}); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me returns the account owning the access token.
func (a *Auth) Me(ctx context.Context) (User, error) {
	env, err := api.Get[User](ctx, a.client, "/auth/me", api.RequestOptions{})
	if err != nil {
		return User{}, fmt.Errorf("me: %w", err)
	}
	return env.Content, nil
}
