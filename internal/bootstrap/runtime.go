// Package bootstrap establishes the process-wide runtime dependencies.
package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hottakes/internal/cache"
	"hottakes/internal/config"
	"hottakes/internal/database"
	"hottakes/internal/models"
	"hottakes/internal/seed"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemo bool
}

const (
	demoUsers = 25
	demoPosts = 100
)

// InitRuntime connects to DB and Redis and optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo {
		if err := ensureDemoData(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// ensureDemoData populates an empty development database with fake profiles,
// takes, and votes. A database that already holds posts is left untouched so
// restarts do not pile up duplicates.
func ensureDemoData(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	var count int64
	if err := db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := seed.NewSeeder(db).Run(demoUsers, demoPosts); err != nil {
		return err
	}
	log.Printf("seeded demo data: %d users, %d posts", demoUsers, demoPosts)
	return nil
}
