// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type platformRequest struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	StyleGuidelines string   `json:"style_guidelines"`
	MaxLength       int      `json:"max_length"`
	Keywords        []string `json:"keywords"`
}

func (r *platformRequest) validate() *models.AppError {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))

	if r.Name == "" {
		return models.NewValidationError("Platform name is required")
	}
	if err := validation.ValidatePlatformSlug(r.Slug); err != nil {
		return models.NewValidationError(err.Error())
	}
	if r.MaxLength < 0 {
		return models.NewValidationError("Max length cannot be negative")
	}
	return nil
}

// CreatePlatform handles POST /api/platforms
func (s *Server) CreatePlatform(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req platformRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if appErr := req.validate(); appErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	}

	platform := &models.Platform{
		UserID:          userID,
		Name:            req.Name,
		Slug:            req.Slug,
		StyleGuidelines: req.StyleGuidelines,
		MaxLength:       req.MaxLength,
		Keywords:        req.Keywords,
	}
	if err := s.platformRepo.Create(c.Context(), platform); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(platform)
}

// GetPlatforms handles GET /api/platforms
func (s *Server) GetPlatforms(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	platforms, err := s.platformRepo.ListByUser(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(platforms)
}

// GetPlatform handles GET /api/platforms/:id
func (s *Server) GetPlatform(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	platform, err := s.platformRepo.GetByIDForUser(c.Context(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(platform)
}

// UpdatePlatform handles PUT /api/platforms/:id
func (s *Server) UpdatePlatform(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req platformRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if appErr := req.validate(); appErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	}

	platform, err := s.platformRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	platform.Name = req.Name
	platform.Slug = req.Slug
	platform.StyleGuidelines = req.StyleGuidelines
	platform.MaxLength = req.MaxLength
	platform.Keywords = req.Keywords

	if err := s.platformRepo.Update(ctx, platform); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(platform)
}

// DeletePlatform handles DELETE /api/platforms/:id
func (s *Server) DeletePlatform(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.platformRepo.Delete(c.Context(), id, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Platform deleted"})
}
