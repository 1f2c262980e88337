// Command main runs the database seeder for HotTakes.
package main

import (
	"flag"
	"log"

	"hottakes/internal/config"
	"hottakes/internal/database"
	"hottakes/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of profiles to create")
	numPosts := flag.Int("posts", 100, "Number of takes to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Printf("Seeding %d profiles, %d takes (clean=%v)", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(*numUsers, *numPosts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
