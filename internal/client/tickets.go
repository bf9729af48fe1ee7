package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
)

func segment(name, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return url.PathEscape(v), nil
}

// CreateTicket POST /tickets.
func (c *Client) CreateTicket(ctx context.Context, req dto.CreateTicketRequest) (dto.Resource[domain.Ticket], error) {
	return call[dto.Resource[domain.Ticket]](ctx, c, http.MethodPost, "/tickets", "", req)
}

// ListTickets GET /tickets.
func (c *Client) ListTickets(ctx context.Context, filters dto.TicketFilters) (dto.Page[domain.Ticket], error) {
	return call[dto.Page[domain.Ticket]](ctx, c, http.MethodGet, "/tickets", EncodeTicketFilters(filters), nil)
}

// GetTicket GET /tickets/{id}.
func (c *Client) GetTicket(ctx context.Context, id string) (dto.Resource[domain.Ticket], error) {
	seg, err := segment("ticket id", id)
	if err != nil {
		return dto.Resource[domain.Ticket]{}, err
	}
	return call[dto.Resource[domain.Ticket]](ctx, c, http.MethodGet, "/tickets/"+seg, "", nil)
}

// UpdateTicket PUT /tickets/{id}.
func (c *Client) UpdateTicket(ctx context.Context, id string, req dto.UpdateTicketRequest) (dto.Resource[domain.Ticket], error) {
	seg, err := segment("ticket id", id)
	if err != nil {
		return dto.Resource[domain.Ticket]{}, err
	}
	return call[dto.Resource[domain.Ticket]](ctx, c, http.MethodPut, "/tickets/"+seg, "", req)
}

// GetTicketByCode GET /tickets/code/{code}.
func (c *Client) GetTicketByCode(ctx context.Context, code string) (dto.Resource[domain.Ticket], error) {
	seg, err := segment("ticket code", code)
	if err != nil {
		return dto.Resource[domain.Ticket]{}, err
	}
	return call[dto.Resource[domain.Ticket]](ctx, c, http.MethodGet, "/tickets/code/"+seg, "", nil)
}

// AssignTicket POST /tickets/{id}/assign.
func (c *Client) AssignTicket(ctx context.Context, id string, req dto.AssignTicketRequest) (dto.Resource[domain.Ticket], error) {
	seg, err := segment("ticket id", id)
	if err != nil {
		return dto.Resource[domain.Ticket]{}, err
	}
	return call[dto.Resource[domain.Ticket]](ctx, c, http.MethodPost, "/tickets/"+seg+"/assign", "", req)
}

// EscalateTicket POST /tickets/{id}/escalate.
func (c *Client) EscalateTicket(ctx context.Context, id string, req dto.EscalateTicketRequest) (dto.Resource[domain.Ticket], error) {
	seg, err := segment("ticket id", id)
	if err != nil {
		return dto.Resource[domain.Ticket]{}, err
	}
	return call[dto.Resource[domain.Ticket]](ctx, c, http.MethodPost, "/tickets/"+seg+"/escalate", "", req)
}

// AddComment POST /tickets/{id}/comments.
func (c *Client) AddComment(ctx context.Context, req dto.AddCommentRequest) (dto.Resource[domain.TicketComment], error) {
	seg, err := segment("ticket id", req.TicketID)
	if err != nil {
		return dto.Resource[domain.TicketComment]{}, err
	}
	return call[dto.Resource[domain.TicketComment]](ctx, c, http.MethodPost, "/tickets/"+seg+"/comments", "", req)
}

// GetAgentTickets GET /tickets/agents/{agentId}.
func (c *Client) GetAgentTickets(ctx context.Context, agentID string) (dto.TicketList, error) {
	seg, err := segment("agent id", agentID)
	if err != nil {
		return dto.TicketList{}, err
	}
	return call[dto.TicketList](ctx, c, http.MethodGet, "/tickets/agents/"+seg, "", nil)
}

// GetDepartmentTickets GET /tickets/departments/{deptId}.
func (c *Client) GetDepartmentTickets(ctx context.Context, departmentID string) (dto.TicketList, error) {
	seg, err := segment("department id", departmentID)
	if err != nil {
		return dto.TicketList{}, err
	}
	return call[dto.TicketList](ctx, c, http.MethodGet, "/tickets/departments/"+seg, "", nil)
}

// GetPublicTicket GET /public/tickets/{token}.
func (c *Client) GetPublicTicket(ctx context.Context, token string) (dto.Resource[domain.Ticket], error) {
	seg, err := segment("public token", token)
	if err != nil {
		return dto.Resource[domain.Ticket]{}, err
	}
	return call[dto.Resource[domain.Ticket]](ctx, c, http.MethodGet, "/public/tickets/"+seg, "", nil)
}

// ListCategories GET /ticket-categories.
func (c *Client) ListCategories(ctx context.Context) (dto.Resource[[]domain.TicketCategory], error) {
	return call[dto.Resource[[]domain.TicketCategory]](ctx, c, http.MethodGet, "/ticket-categories", "", nil)
}

// GetCategory GET /ticket-categories/{id}.
func (c *Client) GetCategory(ctx context.Context, id string) (dto.Resource[domain.TicketCategory], error) {
	seg, err := segment("category id", id)
	if err != nil {
		return dto.Resource[domain.TicketCategory]{}, err
	}
	return call[dto.Resource[domain.TicketCategory]](ctx, c, http.MethodGet, "/ticket-categories/"+seg, "", nil)
}
