package dto

import "github.com/spec-kit/ticket-console/internal/domain"

// ChatSessionFilter narrows the session listing.
type ChatSessionFilter struct {
	Status []domain.ChatSessionStatus
}

// AddTagRequest payload.
type AddTagRequest struct {
	Name string `json:"name" validate:"required"`
}
