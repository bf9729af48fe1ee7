package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/client"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/store"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// TicketsHandler serves the ticket list and detail views.
type TicketsHandler struct {
	api   *client.Client
	store *store.Store
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(api *client.Client, st *store.Store) *TicketsHandler {
	return &TicketsHandler{api: api, store: st}
}

// ListTickets GET /views/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filters, err := parseTicketFilters(c)
	if err != nil {
		return err
	}
	page, err := h.api.ListTickets(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":        h.store.SetTickets(page.Data),
		"page":        page.Page,
		"limit":       page.Limit,
		"total":       page.Total,
		"total_pages": page.TotalPages,
	})
}

// CreateTicket POST /views/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Priority == "" {
		req.Priority = domain.TicketPriorityMedium
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	res, err := h.api.CreateTicket(c.UserContext(), req)
	if err != nil {
		return err
	}
	h.store.AddTicket(res.Data)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": res.Data})
}

// GetTicket GET /views/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	res, err := h.api.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	h.upsert(res.Data)
	return c.JSON(fiber.Map{"data": res.Data})
}

// GetTicketByCode GET /views/tickets/code/:code.
func (h *TicketsHandler) GetTicketByCode(c *fiber.Ctx) error {
	res, err := h.api.GetTicketByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	h.upsert(res.Data)
	return c.JSON(fiber.Map{"data": res.Data})
}

// GetPublicTicket GET /views/public/tickets/:token. The customer-facing
// lookup never touches the console store.
func (h *TicketsHandler) GetPublicTicket(c *fiber.Ctx) error {
	res, err := h.api.GetPublicTicket(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res.Data})
}

// UpdateTicket PUT /views/tickets/:id. When the platform acknowledges the
// update without echoing the ticket, the request is merged into the stored
// copy instead.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id := c.Params("id")
	res, err := h.api.UpdateTicket(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	if res.Data.ID != "" {
		h.replace(res.Data)
		return c.JSON(fiber.Map{"data": res.Data})
	}

	if !h.store.UpdateTicket(id, req.Apply) {
		return c.JSON(fiber.Map{"data": nil})
	}
	for _, t := range h.store.Tickets() {
		if t.ID == id {
			return c.JSON(fiber.Map{"data": t})
		}
	}
	return c.JSON(fiber.Map{"data": nil})
}

// AssignTicket POST /views/tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.api.AssignTicket(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	h.replace(res.Data)
	return c.JSON(fiber.Map{"data": res.Data})
}

// EscalateTicket POST /views/tickets/:id/escalate.
func (h *TicketsHandler) EscalateTicket(c *fiber.Ctx) error {
	var req dto.EscalateTicketRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	res, err := h.api.EscalateTicket(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	h.replace(res.Data)
	return c.JSON(fiber.Map{"data": res.Data})
}

// AddComment POST /views/tickets/:id/comments. The author defaults to the
// logged-in operator.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.AddCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := validateStruct(req); err != nil {
		return err
	}
	req.TicketID = c.Params("id")
	if req.CreatedBy == "" {
		if user, ok := auth.UserFromContext(c); ok {
			req.CreatedBy = user.ID
		}
	}

	res, err := h.api.AddComment(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": res.Data})
}

// GetAgentTickets GET /views/agents/:id/tickets.
func (h *TicketsHandler) GetAgentTickets(c *fiber.Ctx) error {
	list, err := h.api.GetAgentTickets(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.store.SetTickets(list.Tickets), "total": list.Total})
}

// GetDepartmentTickets GET /views/departments/:id/tickets.
func (h *TicketsHandler) GetDepartmentTickets(c *fiber.Ctx) error {
	list, err := h.api.GetDepartmentTickets(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.store.SetTickets(list.Tickets), "total": list.Total})
}

// replace swaps the stored copy for the server's version, if it is loaded.
func (h *TicketsHandler) replace(ticket domain.Ticket) bool {
	return h.store.UpdateTicket(ticket.ID, func(t *domain.Ticket) { *t = ticket })
}

func (h *TicketsHandler) upsert(ticket domain.Ticket) {
	if !h.replace(ticket) {
		h.store.AddTicket(ticket)
	}
}

func parseTicketFilters(c *fiber.Ctx) (dto.TicketFilters, error) {
	var filters dto.TicketFilters

	for _, raw := range queryValues(c, "status") {
		status := domain.TicketStatus(raw)
		if !status.Valid() {
			return filters, apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
		}
		filters.Status = append(filters.Status, status)
	}
	for _, raw := range queryValues(c, "priority") {
		priority := domain.TicketPriority(raw)
		if !priority.Valid() {
			return filters, apperrors.NewValidationError("invalid priority", map[string]any{"priority": raw})
		}
		filters.Priority = append(filters.Priority, priority)
	}

	filters.CategoryID = optionalQuery(c, "category_id")
	filters.DepartmentID = optionalQuery(c, "department_id")
	filters.AssignedTo = optionalQuery(c, "assigned_to")
	filters.Search = optionalQuery(c, "search")

	for key, dst := range map[string]**int{"page": &filters.Page, "limit": &filters.Limit} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return filters, apperrors.NewValidationError("invalid "+key, map[string]any{key: raw})
		}
		*dst = &n
	}
	return filters, nil
}

// queryValues accepts both repeated keys and comma separated values.
func queryValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}
