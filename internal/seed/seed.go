package seed

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"hottakes/internal/models"
)

// Seeder populates the database with demo profiles, takes, and votes.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes every seeded row. Vote rows go first so the post and
// profile deletes never orphan them.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{&models.Vote{}, &models.Post{}, &models.Profile{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run creates numUsers profiles and numPosts takes, then sprinkles votes so
// aggregates and hotness have something to show.
func (s *Seeder) Run(numUsers, numPosts int) error {
	if numUsers <= 0 || numPosts <= 0 {
		return fmt.Errorf("numUsers and numPosts must be positive")
	}

	profiles := make([]*models.Profile, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		profile, err := s.factory.CreateProfile(uint(i + 1))
		if err != nil {
			return fmt.Errorf("seed profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	log.Printf("seeded %d profiles", len(profiles))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := profiles[s.factory.rng.Intn(len(profiles))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts", len(posts))

	votes := 0
	for _, post := range posts {
		// Each post draws votes from a random subset of users; the unique
		// index keeps one row per (post, user) so voters are sampled without
		// replacement.
		voters := s.factory.rng.Perm(numUsers)[:s.factory.rng.Intn(numUsers/2+1)]
		for _, v := range voters {
			if _, err := s.factory.CreateVote(uint(v+1), post.ID); err != nil {
				return fmt.Errorf("seed vote: %w", err)
			}
			votes++
		}
	}
	log.Printf("seeded %d votes", votes)

	return nil
}
