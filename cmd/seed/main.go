// Command main runs the database seeder for Facet.
package main

import (
	"flag"
	"log"

	"facet/internal/config"
	"facet/internal/database"
	"facet/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	followsPerUser := flag.Int("follows", 5, "Follow edges per user")
	requestsPerUser := flag.Int("requests", 2, "Friend requests per identity")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, clean=%v\n", *numUsers, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		Users:           *numUsers,
		FollowsPerUser:  *followsPerUser,
		RequestsPerUser: *requestsPerUser,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if err := s.Run(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
