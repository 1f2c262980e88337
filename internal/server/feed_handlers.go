package server

import (
	"github.com/gofiber/fiber/v2"

	"hottakes/internal/service"
)

// GetFeed handles GET /api/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, email := viewer(c)
	page := parsePagination(c, service.DefaultFeedPageSize)

	entries, err := s.feedService.ComposeFeed(ctx, service.ComposeFeedInput{
		ViewerID: userID,
		Email:    email,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"limit":   page.Limit,
		"offset":  page.Offset,
	})
}
