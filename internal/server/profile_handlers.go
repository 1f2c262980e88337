package server

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"hottakes/internal/models"
	"hottakes/internal/service"
)

// GetMyProfile handles GET /api/profile
//
// The read path is also the bootstrap path: a user who has never touched
// their profile gets one created from the email local part.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	_, email := viewer(c)

	profile, err := s.profileService.GetOrCreate(ctx, userID, email)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetMyPosts handles GET /api/profile/posts
//
// The profile page lists the user's own takes, anonymous ones included,
// all of them editable.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	posts, err := s.feedService.MyPosts(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// RenameProfile handles PUT /api/profile/name
func (s *Server) RenameProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.Rename(ctx, service.RenameInput{
		UserID:      userID,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// SetProfilePicture handles PUT /api/profile/picture (multipart form, field "picture")
func (s *Server) SetProfilePicture(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Picture file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}

	profile, svcErr := s.profileService.SetPicture(ctx, service.SetPictureInput{
		UserID:      userID,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(profile)
}
