// Command main runs the database seeder for Inkwell.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 10, "Number of users to create")
	numHistorical := flag.Int("historical", 20, "Historical posts per user")
	numDrafts := flag.Int("drafts", 5, "Draft posts per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (fast, local only)")
	presetPath := flag.String("preset", "", "Path to a YAML preset file (overrides count flags)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	if *presetPath != "" {
		log.Printf("Applying preset: %s (ignoring count flags)\n", *presetPath)
	} else {
		log.Printf("Target: %d users, %d historical posts and %d drafts each, clean=%v\n",
			*numUsers, *numHistorical, *numDrafts, *shouldClean)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:      *numUsers,
		NumHistorical: *numHistorical,
		NumDrafts:     *numDrafts,
		SkipBcrypt:    *skipBcrypt,
	})

	if *presetPath != "" {
		preset, err := seed.LoadPreset(*presetPath)
		if err != nil {
			log.Fatalf("❌ Preset load failed: %v", err)
		}
		if err := s.ApplyPreset(preset); err != nil {
			log.Fatalf("❌ Preset seeding failed: %v", err)
		}
	} else {
		if *shouldClean {
			if err := s.ClearAll(); err != nil {
				log.Fatalf("❌ Cleanup failed: %v", err)
			}
		}
		if err := s.Run(); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
	log.Println("📧 All demo users have the password: password123")
}
