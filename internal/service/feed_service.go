package service

import (
	"context"

	"hottakes/internal/featureflags"
	"hottakes/internal/models"
	"hottakes/internal/news"
	"hottakes/internal/repository"
)

const (
	DefaultFeedPageSize = 20
	newsInterval        = 3
)

// NewsFillerFlag gates the interleaved news entries.
const NewsFillerFlag = "news_filler"

type FeedService struct {
	postRepo   repository.PostRepository
	votes      *VoteService
	getProfile func(ctx context.Context, userID uint, email string) (*models.Profile, error)
	newsFeed   news.Fetcher
	flags      *featureflags.Manager
}

type ComposeFeedInput struct {
	ViewerID uint
	Email    string
	Limit    int
	Offset   int
}

func NewFeedService(
	postRepo repository.PostRepository,
	votes *VoteService,
	getProfile func(ctx context.Context, userID uint, email string) (*models.Profile, error),
	newsFeed news.Fetcher,
	flags *featureflags.Manager,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		votes:      votes,
		getProfile: getProfile,
		newsFeed:   newsFeed,
		flags:      flags,
	}
}

// ComposeFeed renders one page of the feed for a viewer (0 = anonymous
// browsing). Posts keep their stored order and paging; news fillers are
// slotted in after every third post, never after the last group, and never
// when the collaborator has nothing to offer.
func (s *FeedService) ComposeFeed(ctx context.Context, in ComposeFeedInput) ([]models.FeedEntry, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultFeedPageSize
	}

	// First authenticated feed load is what bootstraps the viewer's profile.
	if in.ViewerID != 0 {
		if _, err := s.getProfile(ctx, in.ViewerID, in.Email); err != nil {
			return nil, err
		}
	}

	posts, err := s.postRepo.ListRecent(ctx, limit, in.Offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	aggregates, err := s.votes.AggregateForPosts(ctx, postIDs, in.ViewerID)
	if err != nil {
		return nil, err
	}

	var newsItems []models.NewsItem
	if s.flags.Enabled(NewsFillerFlag, in.ViewerID) {
		newsItems = s.newsFeed.FetchItems(ctx)
	}

	entries := make([]models.FeedEntry, 0, len(posts)+len(posts)/newsInterval)
	newsCursor := 0
	for i, post := range posts {
		entries = append(entries, models.FeedEntry{
			Kind: models.FeedEntryPost,
			Post: renderPost(post, aggregates[post.ID], in.ViewerID),
		})

		afterGroup := (i+1)%newsInterval == 0
		moreToCome := i+1 < len(posts)
		if afterGroup && moreToCome && len(newsItems) > 0 {
			item := newsItems[newsCursor%len(newsItems)]
			newsCursor++
			entries = append(entries, models.FeedEntry{
				Kind: models.FeedEntryNews,
				News: &item,
			})
		}
	}
	return entries, nil
}

// MyPosts renders every take the user authored, newest first, for the
// profile page. Unlike the public feed, the owner sees their anonymous takes
// too, and keeps the edit affordance on all of them.
func (s *FeedService) MyPosts(ctx context.Context, userID uint) ([]*models.FeedPost, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	aggregates, err := s.votes.AggregateForPosts(ctx, postIDs, userID)
	if err != nil {
		return nil, err
	}

	rendered := make([]*models.FeedPost, len(posts))
	for i, post := range posts {
		fp := renderPost(post, aggregates[post.ID], userID)
		fp.CanEdit = true
		rendered[i] = fp
	}
	return rendered, nil
}

// GetPost renders a single take with its tallies for a viewer.
func (s *FeedService) GetPost(ctx context.Context, postID, viewerID uint) (*models.FeedPost, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, models.NewNotFoundError("Post", postID)
	}
	aggregates, err := s.votes.AggregateForPosts(ctx, []uint{postID}, viewerID)
	if err != nil {
		return nil, err
	}
	return renderPost(post, aggregates[postID], viewerID), nil
}

// renderPost folds a stored post and its tallies into the view model. The
// author id itself never leaves the service; ownership reduces to CanEdit,
// and anonymous posts withhold the edit affordance even from their author.
func renderPost(post *models.Post, agg *models.VoteAggregate, viewerID uint) *models.FeedPost {
	if agg == nil {
		agg = &models.VoteAggregate{ViewerVote: models.VoteNone}
	}

	fp := &models.FeedPost{
		ID:          post.ID,
		Title:       post.Title(),
		Body:        post.Body(),
		IsAnonymous: post.IsAnonymous,
		Likes:       agg.Likes,
		Dislikes:    agg.Dislikes,
		ViewerVote:  agg.ViewerVote,
		CanEdit:     !post.IsAnonymous && viewerID != 0 && post.AuthorID == viewerID,
		CreatedAt:   post.CreatedAt,
	}
	if !post.IsAnonymous {
		fp.AuthorDisplayName = post.AuthorDisplayName
		fp.AuthorProfilePictureURL = post.AuthorProfilePictureURL
	}
	return fp
}
