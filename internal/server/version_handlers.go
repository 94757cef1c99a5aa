// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateIteration handles POST /api/posts/:id/iterations
func (s *Server) CreateIteration(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type      string `json:"type"`
		Feedback  string `json:"feedback"`
		MaxTokens int32  `json:"max_tokens"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	version, err := s.versionService.Iterate(ctx, service.IterateInput{
		UserID:    userID,
		PostID:    postID,
		Type:      req.Type,
		Feedback:  req.Feedback,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(version)
}

// GetVersions handles GET /api/posts/:id/versions
func (s *Server) GetVersions(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	versions, err := s.versionService.GetVersions(c.Context(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(versions)
}

// GetVersion handles GET /api/posts/:id/versions/:versionId
func (s *Server) GetVersion(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	versionID, err := s.parseID(c, "versionId")
	if err != nil {
		return nil
	}

	version, err := s.versionService.GetVersion(c.Context(), userID, postID, versionID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(version)
}

// SelectVersion handles POST /api/posts/:id/versions/:versionId/select
func (s *Server) SelectVersion(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	versionID, err := s.parseID(c, "versionId")
	if err != nil {
		return nil
	}

	version, err := s.versionService.SelectVersion(c.Context(), userID, postID, versionID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(version)
}
