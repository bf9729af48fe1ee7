package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/client"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/service"
	"github.com/spec-kit/ticket-console/internal/store"
	"github.com/spec-kit/ticket-console/internal/tagging"
)

// ChatHandler serves the live-chat views: session queue, transcript, agent
// presence and session tags.
type ChatHandler struct {
	api       *client.Client
	store     *store.Store
	suggester *tagging.Suggester
	live      *service.TagSuggestionService
}

// NewChatHandler constructs handler. live may be nil.
func NewChatHandler(api *client.Client, st *store.Store, suggester *tagging.Suggester, live *service.TagSuggestionService) *ChatHandler {
	return &ChatHandler{api: api, store: st, suggester: suggester, live: live}
}

// ListSessions GET /views/sessions.
func (h *ChatHandler) ListSessions(c *fiber.Ctx) error {
	var filter dto.ChatSessionFilter
	for _, raw := range queryValues(c, "status") {
		filter.Status = append(filter.Status, domain.ChatSessionStatus(raw))
	}

	res, err := h.api.ListChatSessions(c.UserContext(), filter)
	if err != nil {
		return err
	}
	h.store.SetSessions(res.Data)
	return c.JSON(fiber.Map{
		"data":    h.store.Sessions(),
		"current": h.store.CurrentSession().SessionID,
	})
}

// SelectSession POST /views/sessions/:id/select opens a session: the
// transcript is cleared at once, then refilled from the platform unless
// another session was opened in the meantime.
func (h *ChatHandler) SelectSession(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ticket := h.store.SelectSession(c.Params("id"))

	msgs, err := h.api.ListSessionMessages(ctx, ticket.SessionID)
	if err != nil {
		return err
	}
	applied := h.store.ApplySessionMessages(ticket, msgs.Data)

	if applied {
		tags, err := h.api.ListSessionTags(ctx, ticket.SessionID)
		if err != nil {
			return err
		}
		applied = h.store.ApplySessionTags(ticket, tags.Data)
	}

	return c.JSON(fiber.Map{
		"session_id": ticket.SessionID,
		"superseded": !applied,
		"messages":   h.store.Messages(),
		"tags":       h.store.Tags(),
	})
}

// ListMessages GET /views/messages. suggested_tags holds the last debounced
// suggestions for the transcript.
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	suggested := []string{}
	if h.live != nil {
		suggested = h.live.Latest()
	}
	return c.JSON(fiber.Map{
		"session_id":     h.store.CurrentSession().SessionID,
		"data":           h.store.Messages(),
		"suggested_tags": suggested,
	})
}

// ListAgents GET /views/agents.
func (h *ChatHandler) ListAgents(c *fiber.Ctx) error {
	res, err := h.api.ListAgentStatuses(c.UserContext())
	if err != nil {
		return err
	}
	h.store.SetAgents(res.Data)
	return c.JSON(fiber.Map{"data": h.store.Agents()})
}

// ListTags GET /views/sessions/:id/tags. Tags of the open session are kept in
// the store; tags of any other session are returned as-is.
func (h *ChatHandler) ListTags(c *fiber.Ctx) error {
	id := c.Params("id")
	current := h.store.CurrentSession()

	res, err := h.api.ListSessionTags(c.UserContext(), id)
	if err != nil {
		return err
	}
	if current.SessionID == id && h.store.ApplySessionTags(current, res.Data) {
		return c.JSON(fiber.Map{"data": h.store.Tags()})
	}
	return c.JSON(fiber.Map{"data": res.Data})
}

// AddTag POST /views/sessions/:id/tags.
func (h *ChatHandler) AddTag(c *fiber.Ctx) error {
	var req dto.AddTagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return err
	}

	id := c.Params("id")
	res, err := h.api.AddSessionTag(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	h.store.AddSessionTag(id, res.Data)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": res.Data})
}

// RemoveTag DELETE /views/sessions/:id/tags/:tagId. The store is only
// touched when :id is the open session.
func (h *ChatHandler) RemoveTag(c *fiber.Ctx) error {
	id, tagID := c.Params("id"), c.Params("tagId")
	if _, err := h.api.RemoveSessionTag(c.UserContext(), id, tagID); err != nil {
		return err
	}
	removed := h.store.RemoveSessionTag(id, tagID)
	return c.JSON(fiber.Map{"success": true, "removed": removed})
}

// SuggestTags GET /views/tags/suggest. Without a text parameter the open
// session's transcript is scanned; tags already on the session are skipped.
func (h *ChatHandler) SuggestTags(c *fiber.Ctx) error {
	text := c.Query("text")
	if text == "" {
		var b strings.Builder
		for _, msg := range h.store.Messages() {
			b.WriteString(msg.Content)
			b.WriteByte('\n')
		}
		text = b.String()
	}

	tags := h.store.Tags()
	current := make([]string, 0, len(tags))
	for _, tag := range tags {
		current = append(current, tag.Name)
	}

	suggestions := slices.Collect(h.suggester.Suggest(text, current))
	if suggestions == nil {
		suggestions = []string{}
	}
	return c.JSON(fiber.Map{"data": suggestions})
}
