package client

import (
	"context"
	"net/http"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
)

// ListChatSessions GET /chat/sessions.
func (c *Client) ListChatSessions(ctx context.Context, filter dto.ChatSessionFilter) (dto.Resource[[]domain.ChatSession], error) {
	return call[dto.Resource[[]domain.ChatSession]](ctx, c, http.MethodGet, "/chat/sessions", encodeSessionFilter(filter), nil)
}

// ListSessionMessages GET /chat/sessions/{id}/messages.
func (c *Client) ListSessionMessages(ctx context.Context, sessionID string) (dto.Resource[[]domain.ChatMessage], error) {
	seg, err := segment("session id", sessionID)
	if err != nil {
		return dto.Resource[[]domain.ChatMessage]{}, err
	}
	return call[dto.Resource[[]domain.ChatMessage]](ctx, c, http.MethodGet, "/chat/sessions/"+seg+"/messages", "", nil)
}

// ListAgentStatuses GET /agents/status.
func (c *Client) ListAgentStatuses(ctx context.Context) (dto.Resource[[]domain.AgentStatus], error) {
	return call[dto.Resource[[]domain.AgentStatus]](ctx, c, http.MethodGet, "/agents/status", "", nil)
}

// ListSessionTags GET /chat/sessions/{id}/tags.
func (c *Client) ListSessionTags(ctx context.Context, sessionID string) (dto.Resource[[]domain.ChatTag], error) {
	seg, err := segment("session id", sessionID)
	if err != nil {
		return dto.Resource[[]domain.ChatTag]{}, err
	}
	return call[dto.Resource[[]domain.ChatTag]](ctx, c, http.MethodGet, "/chat/sessions/"+seg+"/tags", "", nil)
}

// AddSessionTag POST /chat/sessions/{id}/tags.
func (c *Client) AddSessionTag(ctx context.Context, sessionID string, req dto.AddTagRequest) (dto.Resource[domain.ChatTag], error) {
	seg, err := segment("session id", sessionID)
	if err != nil {
		return dto.Resource[domain.ChatTag]{}, err
	}
	return call[dto.Resource[domain.ChatTag]](ctx, c, http.MethodPost, "/chat/sessions/"+seg+"/tags", "", req)
}

// RemoveSessionTag DELETE /chat/sessions/{id}/tags/{tagId}.
func (c *Client) RemoveSessionTag(ctx context.Context, sessionID, tagID string) (dto.Ack, error) {
	sessionSeg, err := segment("session id", sessionID)
	if err != nil {
		return dto.Ack{}, err
	}
	tagSeg, err := segment("tag id", tagID)
	if err != nil {
		return dto.Ack{}, err
	}
	return call[dto.Ack](ctx, c, http.MethodDelete, "/chat/sessions/"+sessionSeg+"/tags/"+tagSeg, "", nil)
}
