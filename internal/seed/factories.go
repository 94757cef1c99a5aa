// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		r:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // seeding only
		nextID: 1000,
	}
}

func (f *Factory) syntheticID() uint {
	f.nextID++
	return f.nextID
}

// pick samples n distinct entries from pool.
func (f *Factory) pick(pool []string, n int) models.StringList {
	if n > len(pool) {
		n = len(pool)
	}
	idx := f.r.Perm(len(pool))[:n]
	out := make(models.StringList, 0, n)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}

// pastTimestamp spreads generated rows over the configured window so lists
// and relevance scoring see realistic recency variation.
func (f *Factory) pastTimestamp() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 180
	}
	daysBack := f.r.Intn(maxDays)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		user.ID = f.syntheticID()
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile constructs and persists a writing profile for the given user.
func (f *Factory) CreateProfile(user *models.User, overrides ...func(*models.Profile)) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:    user.ID,
		Name:      profileNames[f.r.Intn(len(profileNames))],
		ToneTags:  f.pick(toneTagPool, 2+f.r.Intn(2)),
		DoRules:   f.pick(doRulePool, 2),
		DontRules: f.pick(dontRulePool, 2),
	}

	for _, override := range overrides {
		override(profile)
	}

	if f.opts.DryRun {
		profile.ID = f.syntheticID()
		log.Printf("[dry-run] CreateProfile: user=%d name=%q", profile.UserID, profile.Name)
		return profile, nil
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateProject constructs and persists a project for the given user.
func (f *Factory) CreateProject(user *models.User, overrides ...func(*models.Project)) (*models.Project, error) {
	project := &models.Project{
		UserID:         user.ID,
		Name:           gofakeit.AppName(),
		Description:    gofakeit.Paragraph(1, 2, 10, " "),
		TargetAudience: audiencePool[f.r.Intn(len(audiencePool))],
		Goals:          projectGoalPool[f.r.Intn(len(projectGoalPool))],
	}

	for _, override := range overrides {
		override(project)
	}

	if f.opts.DryRun {
		project.ID = f.syntheticID()
		log.Printf("[dry-run] CreateProject: user=%d name=%q", project.UserID, project.Name)
		return project, nil
	}

	if err := f.db.Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// CreatePlatform constructs and persists a generated publishing channel.
// Slugs get a numeric suffix because they are globally unique.
func (f *Factory) CreatePlatform(user *models.User, overrides ...func(*models.Platform)) (*models.Platform, error) {
	word := strings.ToLower(gofakeit.Word())
	lengths := []int{0, 280, 500, 3000}
	platform := &models.Platform{
		UserID:    user.ID,
		Name:      strings.ToUpper(word[:1]) + word[1:],
		Slug:      fmt.Sprintf("%s-%d", word, gofakeit.Number(100, 999)),
		MaxLength: lengths[f.r.Intn(len(lengths))],
	}

	for _, override := range overrides {
		override(platform)
	}

	if f.opts.DryRun {
		platform.ID = f.syntheticID()
		log.Printf("[dry-run] CreatePlatform: user=%d slug=%q", platform.UserID, platform.Slug)
		return platform, nil
	}

	if err := f.db.Create(platform).Error; err != nil {
		return nil, err
	}
	return platform, nil
}

// BuildHistoricalPost constructs an imported post without persisting it.
// Useful for batching.
func (f *Factory) BuildHistoricalPost(user *models.User, platformID *uint, overrides ...func(*models.HistoricalPost)) *models.HistoricalPost {
	opener := postOpeners[f.r.Intn(len(postOpeners))]
	post := &models.HistoricalPost{
		UserID:      user.ID,
		Content:     opener + " " + gofakeit.Paragraph(1, 2+f.r.Intn(3), 8, " "),
		PublishedAt: f.pastTimestamp(),
		PlatformID:  platformID,
	}

	// Engagement spread: most imports carry the full counter set with a
	// plausible funnel (views > likes > comments), a few only know likes.
	if f.r.Float32() < 0.2 {
		likes := f.r.Intn(400)
		post.Likes = &likes
	} else {
		views := f.r.Intn(20000)
		likes := views / (12 + f.r.Intn(28))
		comments := likes / (4 + f.r.Intn(8))
		shares := comments / 2
		post.Views = &views
		post.Likes = &likes
		post.Comments = &comments
		post.Shares = &shares
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreateHistoricalBatch persists imported posts in chunks.
func (f *Factory) CreateHistoricalBatch(posts []*models.HistoricalPost) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			p.ID = f.syntheticID()
		}
		log.Printf("[dry-run] CreateHistoricalBatch: %d posts (no DB write)", len(posts))
		return nil
	}

	batch := f.opts.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return f.db.CreateInBatches(&posts, batch).Error
}

// CreateDraft persists a generated post together with its version history.
// The denormalized post fields (GeneratedText, CurrentVersionID,
// TotalVersions) stay in sync with the selected version.
func (f *Factory) CreateDraft(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		UserID:  user.ID,
		RawIdea: strings.TrimSuffix(gofakeit.Sentence(6+f.r.Intn(6)), "."),
		Goal:    goalPool[f.r.Intn(len(goalPool))],
	}
	post.CreatedAt = f.pastTimestamp()

	for _, override := range overrides {
		override(post)
	}

	if f.opts.DryRun {
		post.ID = f.syntheticID()
		post.TotalVersions = 1
		log.Printf("[dry-run] CreateDraft: user=%d idea=%q", post.UserID, post.RawIdea)
		return post, nil
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}

	versionCount := 1 + f.r.Intn(3)
	selectedIdx := versionCount - 1
	if versionCount > 1 && f.r.Float32() < 0.25 {
		// sometimes an earlier draft won
		selectedIdx = f.r.Intn(versionCount)
	}

	var selected *models.PostVersion
	for i := 0; i < versionCount; i++ {
		opener := postOpeners[f.r.Intn(len(postOpeners))]
		version := &models.PostVersion{
			PostID:        post.ID,
			VersionNumber: i + 1,
			GeneratedText: opener + " " + gofakeit.Paragraph(1, 3, 9, "\n\n"),
			IsSelected:    i == selectedIdx,
		}
		if i > 0 {
			prompt := iterationPromptPool[f.r.Intn(len(iterationPromptPool))]
			version.IterationPrompt = &prompt
		}
		promptTokens := 300 + f.r.Intn(500)
		completionTokens := 80 + f.r.Intn(220)
		totalTokens := promptTokens + completionTokens
		version.PromptTokens = &promptTokens
		version.CompletionTokens = &completionTokens
		version.TotalTokens = &totalTokens

		if err := f.db.Create(version).Error; err != nil {
			return nil, err
		}
		if version.IsSelected {
			selected = version
		}
	}

	post.GeneratedText = selected.GeneratedText
	post.CurrentVersionID = &selected.ID
	post.TotalVersions = versionCount
	if err := f.db.Save(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateIdea constructs and persists a saved post idea for the given user.
func (f *Factory) CreateIdea(user *models.User, overrides ...func(*models.GeneratedIdea)) (*models.GeneratedIdea, error) {
	contentType := ideaContentTypes[f.r.Intn(len(ideaContentTypes))]
	idea := &models.GeneratedIdea{
		UserID:         user.ID,
		Title:          strings.TrimSuffix(gofakeit.Sentence(4+f.r.Intn(4)), "."),
		Description:    gofakeit.Paragraph(1, 2, 10, " "),
		Tags:           models.StringList{strings.ToLower(gofakeit.BuzzWord()), contentType},
		RelevanceScore: math.Round(gofakeit.Float64Range(0.3, 0.95)*100) / 100,
		ContentType:    contentType,
		Format:         ideaFormats[f.r.Intn(len(ideaFormats))],
	}

	for _, override := range overrides {
		override(idea)
	}

	if f.opts.DryRun {
		idea.ID = f.syntheticID()
		log.Printf("[dry-run] CreateIdea: user=%d title=%q", idea.UserID, idea.Title)
		return idea, nil
	}

	if err := f.db.Create(idea).Error; err != nil {
		return nil, err
	}
	return idea, nil
}
