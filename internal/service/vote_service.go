package service

import (
	"context"

	"hottakes/internal/cache"
	"hottakes/internal/models"
	"hottakes/internal/repository"
)

type VoteService struct {
	voteRepo repository.VoteRepository
	postRepo repository.PostRepository
}

type ToggleVoteInput struct {
	UserID uint
	PostID uint
	Type   models.VoteType
}

func NewVoteService(voteRepo repository.VoteRepository, postRepo repository.PostRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo, postRepo: postRepo}
}

// Toggle applies one vote action and returns the viewer's resulting vote
// state for the post.
func (s *VoteService) Toggle(ctx context.Context, in ToggleVoteInput) (models.VoteType, error) {
	if !in.Type.Valid() {
		return models.VoteNone, models.NewValidationError("Vote type must be like or dislike")
	}
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return models.VoteNone, models.NewNotFoundError("Post", in.PostID)
	}

	result, err := s.voteRepo.Toggle(ctx, in.UserID, in.PostID, in.Type)
	if err != nil {
		return models.VoteNone, models.NewInternalError(err)
	}
	// The vote moved the post author's hotness, not the voter's.
	cache.InvalidateHotness(ctx, post.AuthorID)
	return result, nil
}

// AggregateForPosts loads the vote rows for a post set and folds them into
// per-post tallies.
func (s *VoteService) AggregateForPosts(ctx context.Context, postIDs []uint, viewerID uint) (map[uint]*models.VoteAggregate, error) {
	votes, err := s.voteRepo.ListForPosts(ctx, postIDs)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return Aggregate(postIDs, votes, viewerID), nil
}

// Aggregate folds raw vote rows into tallies in a single pass. Every
// requested post gets an entry, zero-valued when nobody voted; viewerID 0
// means no authenticated viewer and leaves ViewerVote at none everywhere.
func Aggregate(postIDs []uint, votes []models.Vote, viewerID uint) map[uint]*models.VoteAggregate {
	out := make(map[uint]*models.VoteAggregate, len(postIDs))
	for _, id := range postIDs {
		out[id] = &models.VoteAggregate{ViewerVote: models.VoteNone}
	}

	for _, v := range votes {
		agg, ok := out[v.PostID]
		if !ok {
			// Row outside the requested set; tolerate rather than fail.
			continue
		}
		switch v.Type {
		case models.VoteLike:
			agg.Likes++
		case models.VoteDislike:
			agg.Dislikes++
		}
		if viewerID != 0 && v.UserID == viewerID {
			agg.ViewerVote = v.Type
		}
	}
	return out
}

// Hotness is the like-count across everything the user has posted. Dislikes
// never subtract.
func (s *VoteService) Hotness(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := cache.Aside(ctx, cache.HotnessKey(userID), &count, cache.HotnessTTL, func() error {
		var loadErr error
		count, loadErr = s.voteRepo.CountLikesForAuthor(ctx, userID)
		return loadErr
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
