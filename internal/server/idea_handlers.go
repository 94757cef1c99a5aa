// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GenerateIdeas handles POST /api/ideas
func (s *Server) GenerateIdeas(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Mode          string `json:"mode"`
		ProfileID     *uint  `json:"profile_id"`
		ProjectID     *uint  `json:"project_id"`
		PlatformID    *uint  `json:"platform_id"`
		CustomContext string `json:"custom_context"`
		Count         int    `json:"count"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	batch, err := s.ideaService.GenerateIdeas(ctx, service.GenerateIdeasInput{
		UserID:        userID,
		Mode:          req.Mode,
		ProfileID:     req.ProfileID,
		ProjectID:     req.ProjectID,
		PlatformID:    req.PlatformID,
		CustomContext: req.CustomContext,
		Count:         req.Count,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(batch)
}

// GetIdeas handles GET /api/ideas
func (s *Server) GetIdeas(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	ideas, err := s.ideaService.ListIdeas(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(ideas)
}

// DeleteIdea handles DELETE /api/ideas/:id
func (s *Server) DeleteIdea(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ideaService.DeleteIdea(c.Context(), id, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Idea deleted"})
}
