package dto

import "github.com/spec-kit/ticket-console/internal/domain"

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject       string                `json:"subject" validate:"required"`
	Description   string                `json:"description"`
	CustomerName  string                `json:"customer_name" validate:"required"`
	CustomerEmail string                `json:"customer_email" validate:"required,email"`
	CustomerPhone *string               `json:"customer_phone,omitempty"`
	Priority      domain.TicketPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	CategoryID    *string               `json:"category_id,omitempty"`
	DepartmentID  *string               `json:"department_id,omitempty"`
}

// UpdateTicketRequest carries only the fields being changed.
type UpdateTicketRequest struct {
	Subject      *string                `json:"subject,omitempty"`
	Description  *string                `json:"description,omitempty"`
	Priority     *domain.TicketPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Status       *domain.TicketStatus   `json:"status,omitempty" validate:"omitempty,oneof=open in_progress resolved closed escalated"`
	CategoryID   *string                `json:"category_id,omitempty"`
	DepartmentID *string                `json:"department_id,omitempty"`
	AssignedTo   *string                `json:"assigned_to,omitempty"`
}

// Apply shallow-merges the set fields into t.
func (r UpdateTicketRequest) Apply(t *domain.Ticket) {
	if r.Subject != nil {
		t.Subject = *r.Subject
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
	if r.CategoryID != nil {
		t.CategoryID = r.CategoryID
	}
	if r.DepartmentID != nil {
		t.DepartmentID = r.DepartmentID
	}
	if r.AssignedTo != nil {
		t.AssignedTo = r.AssignedTo
	}
}

// TicketFilters captures list query filters. Nil and empty fields are left
// out of the query string.
type TicketFilters struct {
	Status       []domain.TicketStatus
	Priority     []domain.TicketPriority
	CategoryID   *string
	DepartmentID *string
	AssignedTo   *string
	Search       *string
	Page         *int
	Limit        *int
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AgentID string `json:"agent_id" validate:"required"`
}

// EscalateTicketRequest payload.
type EscalateTicketRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// AddCommentRequest payload. TicketID selects the path and is not sent in the
// body.
type AddCommentRequest struct {
	TicketID  string `json:"-"`
	Content   string `json:"content" validate:"required"`
	IsPublic  bool   `json:"is_public"`
	CreatedBy string `json:"created_by"`
}
