package repository

import (
	"context"

	"gorm.io/gorm"

	"hottakes/internal/cache"
	"hottakes/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	UpdateAuthorDisplayName(ctx context.Context, authorID uint, displayName string) error
	UpdateAuthorPictureURL(ctx context.Context, authorID uint, pictureURL string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListRecent orders strictly by recency; equal timestamps fall back to id so
// the ordering stays deterministic. Pages are cached per (limit, offset) and
// dropped wholesale by InvalidateFeed on any post or vote mutation.
func (r *postRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.FeedPageKey(limit, offset), &posts, cache.FeedTTL, func() error {
		return r.db.WithContext(ctx).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	})
	return posts, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	return nil
}

// UpdateAuthorDisplayName rewrites the denormalized author snapshot on every
// non-anonymous post by the author. Anonymous posts carry no identity
// snapshot and are skipped.
func (r *postRepository) UpdateAuthorDisplayName(ctx context.Context, authorID uint, displayName string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ? AND is_anonymous = ?", authorID, false).
		Update("author_display_name", displayName).Error
	if err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	return nil
}

// UpdateAuthorPictureURL is the picture counterpart of UpdateAuthorDisplayName.
func (r *postRepository) UpdateAuthorPictureURL(ctx context.Context, authorID uint, pictureURL string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ? AND is_anonymous = ?", authorID, false).
		Update("author_profile_picture_url", pictureURL).Error
	if err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	return nil
}
