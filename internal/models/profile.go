package models

import "time"

// Profile holds a user's display identity. Rows are bootstrapped lazily on
// first read; the unique index on UserID is what makes concurrent bootstraps
// converge on a single row.
type Profile struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	DisplayName       string    `gorm:"not null" json:"display_name"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
