// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// titleRuneLimit is the cutoff applied when deriving a title from the first
// content line.
const titleRuneLimit = 50

// Post represents a hot take. The author display name and picture URL are
// denormalized snapshots taken at creation time (and rewritten by the profile
// fan-out) so feed reads never join against profiles. Both stay NULL for
// anonymous posts; AuthorID is kept even then for ownership checks and must
// never be exposed in anonymous view models.
type Post struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	Content                 string    `gorm:"type:text;not null" json:"content"`
	AuthorID                uint      `gorm:"not null;index" json:"author_id"`
	IsAnonymous             bool      `gorm:"not null;default:false" json:"is_anonymous"`
	AuthorDisplayName       *string   `json:"author_display_name"`
	AuthorProfilePictureURL *string   `json:"author_profile_picture_url"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Title derives a headline from the first content line, truncated to 50 runes
// with a trailing ellipsis.
func (p *Post) Title() string {
	line, _, _ := strings.Cut(p.Content, "\n")
	runes := []rune(line)
	if len(runes) > titleRuneLimit {
		return string(runes[:titleRuneLimit]) + "..."
	}
	if line == "" {
		return "Untitled"
	}
	return line
}

// Body derives the description from everything after the first content line,
// with leading blank lines dropped.
func (p *Post) Body() string {
	_, rest, found := strings.Cut(p.Content, "\n")
	if !found {
		return ""
	}
	return strings.TrimLeft(rest, "\n")
}
