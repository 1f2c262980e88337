// Command migrate applies the database schema for HotTakes. Production
// startup skips AutoMigrate, so deploys run this explicitly.
package main

import (
	"log"

	"hottakes/internal/config"
	"hottakes/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema migration complete")
}
