package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"hottakes/internal/cache"
	"hottakes/internal/models"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByUserID returns the profile for a user. Absence is reported as
// gorm.ErrRecordNotFound so the service layer can run its bootstrap path.
func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			First(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create inserts a new profile row. A lost creation race surfaces as
// ErrDuplicate, which getOrCreate callers recover from by re-reading.
func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("profile for user %d: %w", profile.UserID, ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return err
	}
	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}
