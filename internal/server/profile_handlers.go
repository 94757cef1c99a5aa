// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateProfile handles POST /api/profiles
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Name      string   `json:"name"`
		ToneTags  []string `json:"tone_tags"`
		DoRules   []string `json:"do_rules"`
		DontRules []string `json:"dont_rules"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Profile name is required"))
	}

	profile := &models.Profile{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		ToneTags:  req.ToneTags,
		DoRules:   req.DoRules,
		DontRules: req.DontRules,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

// GetProfiles handles GET /api/profiles
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profiles, err := s.profileRepo.ListByUser(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profiles)
}

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.profileRepo.GetByIDForUser(c.Context(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// UpdateProfile handles PUT /api/profiles/:id. Style insights and the
// analysis timestamp are owned by the analysis pipeline and cannot be set
// here.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name      string   `json:"name"`
		ToneTags  []string `json:"tone_tags"`
		DoRules   []string `json:"do_rules"`
		DontRules []string `json:"dont_rules"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Profile name is required"))
	}

	profile, err := s.profileRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	profile.Name = strings.TrimSpace(req.Name)
	profile.ToneTags = req.ToneTags
	profile.DoRules = req.DoRules
	profile.DontRules = req.DontRules

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// DeleteProfile handles DELETE /api/profiles/:id
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.profileRepo.Delete(c.Context(), id, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Profile deleted"})
}

// AnalyzeProfile handles POST /api/profiles/:id/analysis
func (s *Server) AnalyzeProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		AutoApply *bool `json:"auto_apply"`
	}
	// Body is optional; auto-apply falls back to the feature-flag default.
	_ = c.BodyParser(&req)

	result, err := s.analysisService.AnalyzeProfile(ctx, service.AnalyzeProfileInput{
		UserID:    userID,
		ProfileID: id,
		AutoApply: req.AutoApply,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// GetAnalysisStats handles GET /api/profiles/:id/analysis/stats
func (s *Server) GetAnalysisStats(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.analysisService.GetAnalysisStats(c.Context(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(stats)
}
