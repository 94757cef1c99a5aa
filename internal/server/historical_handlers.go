// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// maxImportBatch caps a single bulk import request.
const maxImportBatch = 500

type historicalPostRequest struct {
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at"`
	PlatformID  *uint      `json:"platform_id"`
	Likes       *int       `json:"likes"`
	Comments    *int       `json:"comments"`
	Shares      *int       `json:"shares"`
	Views       *int       `json:"views"`
}

func (r *historicalPostRequest) validate() *models.AppError {
	if strings.TrimSpace(r.Content) == "" {
		return models.NewValidationError("Content is required")
	}
	for _, n := range []*int{r.Likes, r.Comments, r.Shares, r.Views} {
		if n != nil && *n < 0 {
			return models.NewValidationError("Engagement counts cannot be negative")
		}
	}
	return nil
}

func (r *historicalPostRequest) toModel(userID uint) models.HistoricalPost {
	publishedAt := time.Now()
	if r.PublishedAt != nil {
		publishedAt = *r.PublishedAt
	}
	return models.HistoricalPost{
		UserID:      userID,
		Content:     strings.TrimSpace(r.Content),
		PublishedAt: publishedAt,
		PlatformID:  r.PlatformID,
		Likes:       r.Likes,
		Comments:    r.Comments,
		Shares:      r.Shares,
		Views:       r.Views,
	}
}

// CreateHistoricalPost handles POST /api/historical-posts
func (s *Server) CreateHistoricalPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req historicalPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if appErr := req.validate(); appErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	}
	if req.PlatformID != nil {
		if _, err := s.platformRepo.GetByIDForUser(ctx, *req.PlatformID, userID); err != nil {
			return respondServiceError(c, err)
		}
	}

	post := req.toModel(userID)
	if err := s.historicalRepo.Create(ctx, &post); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// ImportHistoricalPosts handles POST /api/historical-posts/import. The whole
// batch is validated before anything is written.
func (s *Server) ImportHistoricalPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Posts []historicalPostRequest `json:"posts"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if len(req.Posts) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No posts to import"))
	}
	if len(req.Posts) > maxImportBatch {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("Import is limited to %d posts per request", maxImportBatch)))
	}

	platformIDs := make(map[uint]struct{})
	posts := make([]models.HistoricalPost, 0, len(req.Posts))
	for i := range req.Posts {
		if appErr := req.Posts[i].validate(); appErr != nil {
			appErr.Message = fmt.Sprintf("posts[%d]: %s", i, appErr.Message)
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		}
		if pid := req.Posts[i].PlatformID; pid != nil {
			platformIDs[*pid] = struct{}{}
		}
		posts = append(posts, req.Posts[i].toModel(userID))
	}
	for pid := range platformIDs {
		if _, err := s.platformRepo.GetByIDForUser(ctx, pid, userID); err != nil {
			return respondServiceError(c, err)
		}
	}

	if err := s.historicalRepo.CreateBatch(ctx, posts); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"imported": len(posts)})
}

// GetHistoricalPosts handles GET /api/historical-posts
func (s *Server) GetHistoricalPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 50)

	posts, err := s.historicalRepo.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	total, err := s.historicalRepo.CountByUser(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// GetHistoricalPost handles GET /api/historical-posts/:id
func (s *Server) GetHistoricalPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.historicalRepo.GetByIDForUser(c.Context(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// UpdateHistoricalPost handles PUT /api/historical-posts/:id
func (s *Server) UpdateHistoricalPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req historicalPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if appErr := req.validate(); appErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	}
	if req.PlatformID != nil {
		if _, err := s.platformRepo.GetByIDForUser(ctx, *req.PlatformID, userID); err != nil {
			return respondServiceError(c, err)
		}
	}

	post, err := s.historicalRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	post.Content = strings.TrimSpace(req.Content)
	if req.PublishedAt != nil {
		post.PublishedAt = *req.PublishedAt
	}
	post.PlatformID = req.PlatformID
	post.Likes = req.Likes
	post.Comments = req.Comments
	post.Shares = req.Shares
	post.Views = req.Views

	if err := s.historicalRepo.Update(ctx, post); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeleteHistoricalPost handles DELETE /api/historical-posts/:id
func (s *Server) DeleteHistoricalPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.historicalRepo.Delete(c.Context(), id, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Historical post deleted"})
}
