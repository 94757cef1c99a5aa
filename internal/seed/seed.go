// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers      int
	NumHistorical int // historical posts per user
	NumDrafts     int // generated drafts per user
	ShouldClean   bool
	SkipBcrypt    bool
	DryRun        bool
	MaxDays       int
	BatchSize     int
}

var (
	profileNames = []string{
		"Thought Leadership", "Casual Builder", "Technical Deep Dives",
		"Founder Voice", "Community Updates", "Launch Announcements",
	}

	toneTagPool = []string{
		"direct", "warm", "curious", "playful", "contrarian",
		"practical", "optimistic", "dry", "candid", "analytical",
	}

	doRulePool = []string{
		"Open with a concrete observation",
		"Use short paragraphs",
		"End with a question when it fits",
		"Name specific numbers and dates",
		"Write like you talk",
		"One idea per post",
	}

	dontRulePool = []string{
		"No hashtags",
		"Never use corporate buzzwords",
		"No emoji walls",
		"Avoid engagement bait",
		"Never start with 'I'm excited to announce'",
		"No more than one exclamation mark",
	}

	goalPool = []string{
		"engagement", "reach", "authority", "launch awareness", "community",
	}

	audiencePool = []string{
		"Early-stage founders",
		"Senior backend engineers",
		"Indie hackers shipping on nights and weekends",
		"Product managers at mid-size companies",
		"Developer advocates and technical writers",
		"Bootstrapped SaaS operators",
	}

	projectGoalPool = []string{
		"Grow the waitlist to 1,000 signups before launch",
		"Convert beta users to paid within the first quarter",
		"Build an audience around the problem space before the product ships",
		"Establish the team as the go-to voice on developer tooling",
		"Document the build in public from first commit to launch day",
	}

	iterationPromptPool = []string{
		"Make it shorter and punchier",
		"Lead with the outcome",
		"Less formal, more conversational",
		"Cut the second paragraph",
		"Add a concrete example",
		"Stronger opening line",
	}

	postOpeners = []string{
		"Shipped something I have wanted for months.",
		"Unpopular opinion:",
		"Three years ago I would have disagreed with this.",
		"Nobody talks about this part of building software.",
		"I spent the weekend rewriting a feature nobody asked for.",
		"Here is what actually moved the needle for us.",
		"A customer email this morning changed my roadmap.",
		"The boring fix won again.",
	}

	ideaContentTypes = []string{"educational", "opinion", "story", "announcement"}

	ideaFormats = []string{"post", "thread", "article"}
)

// Seeder populates the database with demo data.
type Seeder struct {
	db        *gorm.DB
	factory   *Factory
	opts      Options
	platforms []BuiltInPlatform
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:        db,
		factory:   NewFactory(db, opts),
		opts:      opts,
		platforms: BuiltInPlatforms,
	}
}

// Seed populates the database with demo data.
func Seed(db *gorm.DB, opts Options) error {
	s := NewSeeder(db, opts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	return s.Run()
}

// Run executes a full seeding pass with the seeder's options.
func (s *Seeder) Run() error {
	log.Printf("🌱 Starting database seeding with %d users...", s.opts.NumUsers)

	users, err := s.SeedWorkspaces(s.opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to seed workspaces: %w", err)
	}
	log.Printf("✓ %d demo users created", len(users))

	if err := s.SeedHistory(users, s.opts.NumHistorical); err != nil {
		return fmt.Errorf("failed to seed historical posts: %w", err)
	}

	if err := s.SeedDrafts(users, s.opts.NumDrafts); err != nil {
		return fmt.Errorf("failed to seed drafts: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// ClearAll truncates every seeded table. PostgreSQL only.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE post_versions, posts, generated_ideas, historical_posts, profiles, projects, platforms, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedWorkspaces creates users together with their writing context: the
// first account gets the canonical platform set, everyone gets at least one
// profile and one project.
func (s *Seeder) SeedWorkspaces(count int) ([]models.User, error) {
	if count <= 0 {
		count = 1
	}
	users := make([]models.User, 0, count)

	// Always include fixed accounts for consistency if cleaning
	if count >= 2 {
		for _, name := range []string{"demo", "test"} {
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@inkwell.dev", name)
			})
			if err == nil {
				users = append(users, *user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		idx := i
		user, err := s.factory.CreateUser(func(u *models.User) {
			// Ensure uniqueness roughly
			u.Username = fmt.Sprintf("%s%d", u.Username, idx)
		})
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, *user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no users could be created")
	}

	if !s.opts.DryRun {
		if err := SeedPlatforms(s.db, users[0].ID, s.platforms); err != nil {
			return nil, err
		}
		log.Printf("✓ %d built-in platforms for %s", len(s.platforms), users[0].Username)
	}

	for i := range users {
		user := &users[i]
		if _, err := s.factory.CreateProfile(user); err != nil {
			return nil, fmt.Errorf("seed profile for %s: %w", user.Username, err)
		}
		if i%3 == 0 {
			if _, err := s.factory.CreateProfile(user); err != nil {
				return nil, fmt.Errorf("seed profile for %s: %w", user.Username, err)
			}
		}
		if _, err := s.factory.CreateProject(user); err != nil {
			return nil, fmt.Errorf("seed project for %s: %w", user.Username, err)
		}
		if i > 0 {
			if _, err := s.factory.CreatePlatform(user); err != nil {
				return nil, fmt.Errorf("seed platform for %s: %w", user.Username, err)
			}
		}
	}

	return users, nil
}

// SeedHistory creates imported historical posts for each user. The demo
// account's posts are linked to its seeded platforms so relevance selection
// and style analysis have platform context to work with.
func (s *Seeder) SeedHistory(users []models.User, perUser int) error {
	if perUser <= 0 {
		return nil
	}

	var demoPlatforms []models.Platform
	if !s.opts.DryRun && len(users) > 0 {
		if err := s.db.Where("user_id = ?", users[0].ID).Find(&demoPlatforms).Error; err != nil {
			return err
		}
	}

	for ui := range users {
		user := &users[ui]
		posts := make([]*models.HistoricalPost, 0, perUser)
		for i := 0; i < perUser; i++ {
			var platformID *uint
			if ui == 0 && len(demoPlatforms) > 0 {
				platformID = &demoPlatforms[i%len(demoPlatforms)].ID
			}
			posts = append(posts, s.factory.BuildHistoricalPost(user, platformID))
		}
		if err := s.factory.CreateHistoricalBatch(posts); err != nil {
			return fmt.Errorf("seed history for %s: %w", user.Username, err)
		}
	}

	log.Printf("✓ %d historical posts per user", perUser)
	return nil
}

// SeedDrafts creates generated posts with version history plus a handful of
// saved ideas for each user.
func (s *Seeder) SeedDrafts(users []models.User, perUser int) error {
	if perUser <= 0 {
		return nil
	}

	for ui := range users {
		user := &users[ui]
		for i := 0; i < perUser; i++ {
			if _, err := s.factory.CreateDraft(user); err != nil {
				return fmt.Errorf("seed draft for %s: %w", user.Username, err)
			}
		}
		for i := 0; i < 3; i++ {
			if _, err := s.factory.CreateIdea(user); err != nil {
				return fmt.Errorf("seed idea for %s: %w", user.Username, err)
			}
		}
	}

	log.Printf("✓ %d drafts per user", perUser)
	return nil
}

// ApplyPreset runs a seeding pass described by a loaded preset file.
func (s *Seeder) ApplyPreset(p *Preset) error {
	s.opts = p.Options(s.opts)
	s.factory.opts = s.opts
	if len(p.Platforms) > 0 {
		s.platforms = p.BuiltIns()
	}

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	return s.Run()
}
