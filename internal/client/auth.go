package client

import (
	"context"
	"net/http"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
)

// Login POST /auth/login.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (dto.Resource[dto.LoginResult], error) {
	return call[dto.Resource[dto.LoginResult]](ctx, c, http.MethodPost, "/auth/login", "", req)
}

// Logout POST /auth/logout.
func (c *Client) Logout(ctx context.Context) (dto.Ack, error) {
	return call[dto.Ack](ctx, c, http.MethodPost, "/auth/logout", "", nil)
}

// Me GET /auth/me.
func (c *Client) Me(ctx context.Context) (dto.Resource[domain.User], error) {
	return call[dto.Resource[domain.User]](ctx, c, http.MethodGet, "/auth/me", "", nil)
}

// RefreshToken POST /auth/refresh.
func (c *Client) RefreshToken(ctx context.Context) (dto.Resource[dto.LoginResult], error) {
	return call[dto.Resource[dto.LoginResult]](ctx, c, http.MethodPost, "/auth/refresh", "", nil)
}
