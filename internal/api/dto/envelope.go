package dto

import "github.com/spec-kit/ticket-console/internal/domain"

// Resource is the `{success, data}` envelope returned by single-resource
// endpoints and by the reference-data listings.
type Resource[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Page is the envelope returned by paginated collection listings.
type Page[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TicketList is the bare `{tickets, total}` shape used by the agent and
// department ticket endpoints.
type TicketList struct {
	Tickets []domain.Ticket `json:"tickets"`
	Total   int             `json:"total"`
}

// Ack acknowledges commands that carry no resource.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
