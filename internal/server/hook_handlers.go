// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GenerateHooks handles POST /api/hooks
func (s *Server) GenerateHooks(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Idea string `json:"idea"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	hooks, err := s.hookService.GenerateFromIdea(ctx, userID, req.Idea)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"hooks": hooks})
}

// GenerateHooksFromPost handles POST /api/posts/:id/hooks
func (s *Server) GenerateHooksFromPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Variants int `json:"variants"`
	}
	// Body is optional; variants falls back to the service default.
	_ = c.BodyParser(&req)

	hooks, err := s.hookService.GenerateFromPost(ctx, userID, postID, req.Variants)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"hooks": hooks})
}
