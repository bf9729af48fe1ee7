package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/client"
)

// CategoriesHandler serves ticket category reference data.
type CategoriesHandler struct {
	api *client.Client
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(api *client.Client) *CategoriesHandler {
	return &CategoriesHandler{api: api}
}

// ListCategories GET /views/categories.
func (h *CategoriesHandler) ListCategories(c *fiber.Ctx) error {
	res, err := h.api.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res.Data})
}

// GetCategory GET /views/categories/:id.
func (h *CategoriesHandler) GetCategory(c *fiber.Ctx) error {
	res, err := h.api.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res.Data})
}
