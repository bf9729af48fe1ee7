package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusEscalated  TicketStatus = "escalated"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed, TicketStatusEscalated:
		return true
	}
	return false
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the support request as served by the platform API. Category,
// Department and Assignee are optional denormalized copies of the referenced
// entities.
type Ticket struct {
	ID              string          `json:"id"`
	TicketCode      string          `json:"ticket_code"`
	Subject         string          `json:"subject"`
	Description     string          `json:"description"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   *string         `json:"customer_phone,omitempty"`
	Priority        TicketPriority  `json:"priority"`
	Status          TicketStatus    `json:"status"`
	CategoryID      *string         `json:"category_id,omitempty"`
	Category        *TicketCategory `json:"category,omitempty"`
	DepartmentID    *string         `json:"department_id,omitempty"`
	Department      *Department     `json:"department,omitempty"`
	AssignedTo      *string         `json:"assigned_to,omitempty"`
	Assignee        *User           `json:"assignee,omitempty"`
	FirstResponseAt *time.Time      `json:"first_response_at,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Key returns the store identity of the ticket.
func (t Ticket) Key() string { return t.ID }

// TicketComment is a single thread entry on a ticket. IsInternal and
// IsFromCustomer are independent flags.
type TicketComment struct {
	ID             string    `json:"id"`
	TicketID       string    `json:"ticket_id"`
	Content        string    `json:"content"`
	IsInternal     bool      `json:"is_internal"`
	IsFromCustomer bool      `json:"is_from_customer"`
	CreatedBy      *string   `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Key returns the store identity of the comment.
func (c TicketComment) Key() string { return c.ID }
