// Command main runs the database seeder for ApplyTrack.
package main

import (
	"flag"
	"log"

	"applytrack/internal/config"
	"applytrack/internal/database"
	"applytrack/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of demo users to create")
	numPostings := flag.Int("postings", 15, "Maximum postings per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, up to %d postings each, clean=%v\n", *numUsers, *numPostings, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Seed(seed.Options{
		NumUsers:    *numUsers,
		NumPostings: *numPostings,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
	log.Println("📧 All demo users have the password: password123")
}
