package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"hottakes/internal/models"
	"hottakes/internal/repository"
)

const maxContentLen = 10000

type PostService struct {
	postRepo repository.PostRepository
	// getProfile resolves the author snapshot at creation time; wired to
	// ProfileService.GetOrCreate.
	getProfile func(ctx context.Context, userID uint, email string) (*models.Profile, error)
}

type CreatePostInput struct {
	UserID      uint
	Email       string
	Content     string
	IsAnonymous bool
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	getProfile func(ctx context.Context, userID uint, email string) (*models.Profile, error),
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		getProfile: getProfile,
	}
}

// CreatePost stores a new take. The author snapshot is resolved here from the
// profile, never taken from the request: anonymous posts get NULL snapshot
// fields and there is no way for a caller to inject either one.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	post := &models.Post{
		Content:     content,
		AuthorID:    in.UserID,
		IsAnonymous: in.IsAnonymous,
	}

	if !in.IsAnonymous {
		profile, err := s.getProfile(ctx, in.UserID, in.Email)
		if err != nil {
			return nil, err
		}
		name := profile.DisplayName
		post.AuthorDisplayName = &name
		post.AuthorProfilePictureURL = profile.ProfilePictureURL
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) ListRecent(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	posts, err := s.postRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// UpdatePost rewrites the content of an owned post. A missing post and
// somebody else's post produce the same answer, so the response does not leak
// whether the id exists. Anonymity does not strip the owner's edit rights.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	post, err := s.ownedPost(ctx, in.PostID, in.UserID, "update")
	if err != nil {
		return nil, err
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.ownedPost(ctx, in.PostID, in.UserID, "delete")
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *PostService) ownedPost(ctx context.Context, postID, userID uint, verb string) (*models.Post, error) {
	denied := models.NewUnauthorizedError("You can only " + verb + " your own takes")

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, denied
		}
		return nil, models.NewInternalError(err)
	}
	if post.AuthorID != userID {
		return nil, denied
	}
	return post, nil
}
