package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hottakes/internal/cache"
	"hottakes/internal/models"
	"hottakes/internal/observability"
)

// VoteRepository owns the vote ledger: one row per (post, user), enforced by
// the composite unique index.
type VoteRepository interface {
	// Toggle applies one vote action atomically and returns the resulting
	// state for the (user, post) pair: the cast type, or VoteNone when the
	// action toggled an identical vote off.
	Toggle(ctx context.Context, userID, postID uint, voteType models.VoteType) (models.VoteType, error)
	ListForPosts(ctx context.Context, postIDs []uint) ([]models.Vote, error)
	CountLikesForAuthor(ctx context.Context, authorID uint) (int64, error)
}

// voteRepository implements VoteRepository
type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Toggle runs the three-state transition inside a single transaction with a
// row lock, so the read and the write commit together: two rapid votes from
// the same user can no longer interleave into a lost update. A NONE->insert
// race slips past the lock (there is no row to lock yet); the unique index
// rejects the loser, which simply retries against the winner's row.
func (r *voteRepository) Toggle(ctx context.Context, userID, postID uint, voteType models.VoteType) (models.VoteType, error) {
	for attempt := 0; ; attempt++ {
		result, err := r.toggleOnce(ctx, userID, postID, voteType)
		if err != nil && isUniqueConstraintError(err) && attempt == 0 {
			continue
		}
		if err == nil {
			cache.InvalidateFeed(ctx)
		}
		return result, err
	}
}

func (r *voteRepository) toggleOnce(ctx context.Context, userID, postID uint, voteType models.VoteType) (models.VoteType, error) {
	result := models.VoteNone

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("post_id = ? AND user_id = ?", postID, userID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{PostID: postID, UserID: userID, Type: voteType}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			result = voteType
			observability.VoteTransitions.WithLabelValues("cast").Inc()
			return nil

		case err != nil:
			return err

		case existing.Type == voteType:
			// Repeating the identical vote cancels it.
			if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
				return err
			}
			result = models.VoteNone
			observability.VoteTransitions.WithLabelValues("toggle_off").Inc()
			return nil

		default:
			// Opposite vote: flip the type in place rather than delete+insert,
			// so the row never momentarily disappears.
			if err := tx.Model(&models.Vote{}).
				Where("id = ?", existing.ID).
				Update("type", voteType).Error; err != nil {
				return err
			}
			result = voteType
			observability.VoteTransitions.WithLabelValues("flip").Inc()
			return nil
		}
	})

	return result, err
}

func (r *voteRepository) ListForPosts(ctx context.Context, postIDs []uint) ([]models.Vote, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Find(&votes).Error
	return votes, err
}

// CountLikesForAuthor computes hotness server-side: like-type rows across all
// of the author's posts. Dislikes never subtract.
func (r *voteRepository) CountLikesForAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Joins("JOIN posts ON posts.id = votes.post_id").
		Where("posts.author_id = ? AND votes.type = ?", authorID, models.VoteLike).
		Count(&count).Error
	return count, err
}
