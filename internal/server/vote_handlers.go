package server

import (
	"github.com/gofiber/fiber/v2"

	"hottakes/internal/models"
	"hottakes/internal/service"
)

// ToggleVote handles POST /api/posts/:id/vote
//
// One endpoint implements the whole cycle: casting, cancelling by repeating,
// and switching sides. The response carries the fresh tallies so the client
// never has to predict the transition locally.
func (s *Server) ToggleVote(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type models.VoteType `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, svcErr := s.voteService.Toggle(ctx, service.ToggleVoteInput{
		UserID: userID,
		PostID: postID,
		Type:   req.Type,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	aggregates, svcErr := s.voteService.AggregateForPosts(ctx, []uint{postID}, userID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	agg := aggregates[postID]

	return c.JSON(fiber.Map{
		"post_id":     postID,
		"likes":       agg.Likes,
		"dislikes":    agg.Dislikes,
		"viewer_vote": result,
	})
}

// GetHotness handles GET /api/users/:id/hotness
func (s *Server) GetHotness(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, svcErr := s.voteService.Hotness(ctx, targetID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"user_id": targetID,
		"hotness": count,
	})
}
