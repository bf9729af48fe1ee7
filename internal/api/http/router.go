package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/api/http/handlers"
	"github.com/spec-kit/ticket-console/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Session    *handlers.SessionHandler
	Tickets    *handlers.TicketsHandler
	Categories *handlers.CategoriesHandler
	Chat       *handlers.ChatHandler
	Connection *handlers.ConnectionHandler
	Metrics    *handlers.MetricsHandler
	Auth       *auth.Session
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	app.Get("/session", cfg.Session.Current)
	app.Post("/session", cfg.Session.Login)
	app.Delete("/session", cfg.Session.Logout)

	app.Get("/views/public/tickets/:token", cfg.Tickets.GetPublicTicket)

	views := app.Group("/views", auth.RequireSession(cfg.Auth))

	views.Get("/tickets", cfg.Tickets.ListTickets)
	views.Post("/tickets", cfg.Tickets.CreateTicket)
	views.Get("/tickets/code/:code", cfg.Tickets.GetTicketByCode)
	views.Get("/tickets/:id", cfg.Tickets.GetTicket)
	views.Put("/tickets/:id", cfg.Tickets.UpdateTicket)
	views.Post("/tickets/:id/assign", cfg.Tickets.AssignTicket)
	views.Post("/tickets/:id/escalate", cfg.Tickets.EscalateTicket)
	views.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	views.Get("/agents/:id/tickets", cfg.Tickets.GetAgentTickets)
	views.Get("/departments/:id/tickets", cfg.Tickets.GetDepartmentTickets)

	views.Get("/categories", cfg.Categories.ListCategories)
	views.Get("/categories/:id", cfg.Categories.GetCategory)

	views.Get("/sessions", cfg.Chat.ListSessions)
	views.Post("/sessions/:id/select", cfg.Chat.SelectSession)
	views.Get("/sessions/:id/tags", cfg.Chat.ListTags)
	views.Post("/sessions/:id/tags", cfg.Chat.AddTag)
	views.Delete("/sessions/:id/tags/:tagId", cfg.Chat.RemoveTag)
	views.Get("/messages", cfg.Chat.ListMessages)
	views.Get("/agents", cfg.Chat.ListAgents)
	views.Get("/tags/suggest", cfg.Chat.SuggestTags)

	views.Get("/connection", cfg.Connection.Status)
}
