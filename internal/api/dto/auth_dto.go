package dto

import "github.com/spec-kit/ticket-console/internal/domain"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued bearer token.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}
