package models

import "time"

// VoteType enumerates the two persisted vote kinds. VoteNone only ever
// appears in aggregates, never in a stored row.
type VoteType string

const (
	VoteLike    VoteType = "like"
	VoteDislike VoteType = "dislike"
	VoteNone    VoteType = "none"
)

// Valid reports whether t is a storable vote type.
func (t VoteType) Valid() bool {
	return t == VoteLike || t == VoteDislike
}

// Vote is one user's vote on one post. The composite unique index is the
// enforcement mechanism for "at most one active vote per user per post";
// toggling the same type deletes the row, voting the opposite type flips
// Type in place.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_votes_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_post_user" json:"user_id"`
	Type      VoteType  `gorm:"type:varchar(16);not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VoteAggregate is the derived per-post tally. It is recomputed from the
// full vote set after every mutation and never persisted.
type VoteAggregate struct {
	Likes      int      `json:"likes"`
	Dislikes   int      `json:"dislikes"`
	ViewerVote VoteType `json:"viewer_vote"`
}
