// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hottakes/internal/models"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateProfile persists a demo profile for the given user id. Roughly a
// third of profiles get a picture, the rest stay on the default.
func (f *Factory) CreateProfile(userID uint) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:      userID,
		DisplayName: gofakeit.Username(),
	}
	if f.rng.Intn(3) == 0 {
		url := fmt.Sprintf("https://picsum.photos/seed/%s/256/256", uuid.NewString())
		profile.ProfilePictureURL = &url
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreatePost persists a demo take authored by the given profile. About a
// quarter of posts are anonymous and carry no snapshot.
func (f *Factory) CreatePost(profile *models.Profile) (*models.Post, error) {
	lines := []string{gofakeit.HipsterSentence(6)}
	if f.rng.Intn(2) == 0 {
		lines = append(lines, "", gofakeit.HipsterParagraph(1, 3, 8, "\n"))
	}

	post := &models.Post{
		Content:     strings.Join(lines, "\n"),
		AuthorID:    profile.UserID,
		IsAnonymous: f.rng.Intn(4) == 0,
	}
	if !post.IsAnonymous {
		name := profile.DisplayName
		post.AuthorDisplayName = &name
		post.AuthorProfilePictureURL = profile.ProfilePictureURL
	}

	// realistic created_at spread over the last 30 days
	post.CreatedAt = time.Now().
		Add(-time.Duration(f.rng.Intn(30*24)) * time.Hour).
		Add(-time.Duration(f.rng.Intn(60)) * time.Minute)

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateVote persists one vote row, skewed toward likes so hotness numbers
// look plausible in demos.
func (f *Factory) CreateVote(userID, postID uint) (*models.Vote, error) {
	voteType := models.VoteLike
	if f.rng.Intn(4) == 0 {
		voteType = models.VoteDislike
	}
	vote := &models.Vote{
		PostID: postID,
		UserID: userID,
		Type:   voteType,
	}
	if err := f.db.Create(vote).Error; err != nil {
		return nil, err
	}
	return vote, nil
}
