package models

import "time"

// FeedEntryKind discriminates feed view-model entries.
type FeedEntryKind string

const (
	FeedEntryPost FeedEntryKind = "post"
	FeedEntryNews FeedEntryKind = "news"
)

// NewsItem is a filler entry sourced from the external news collaborator.
// It carries no identity, vote, or edit affordances.
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Link        string    `json:"link,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// FeedPost is the rendered form of a post. Anonymous posts intentionally have
// no author field at all here; ownership is already folded into CanEdit.
type FeedPost struct {
	ID                      uint      `json:"id"`
	Title                   string    `json:"title"`
	Body                    string    `json:"body,omitempty"`
	IsAnonymous             bool      `json:"is_anonymous"`
	AuthorDisplayName       *string   `json:"author_display_name"`
	AuthorProfilePictureURL *string   `json:"author_profile_picture_url"`
	Likes                   int       `json:"likes"`
	Dislikes                int       `json:"dislikes"`
	ViewerVote              VoteType  `json:"viewer_vote"`
	CanEdit                 bool      `json:"can_edit"`
	CreatedAt               time.Time `json:"created_at"`
}

// FeedEntry is one element of the composed feed: either a post card or a
// news filler.
type FeedEntry struct {
	Kind FeedEntryKind `json:"kind"`
	Post *FeedPost     `json:"post,omitempty"`
	News *NewsItem     `json:"news,omitempty"`
}
