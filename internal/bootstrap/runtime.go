// Package bootstrap establishes process-wide dependencies at startup.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/llm"
	"inkwell/internal/models"
	"inkwell/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedBuiltIns seeds the default platform set for the development root
	// admin after bootstrap. No-op when the root admin is not provisioned.
	SeedBuiltIns bool
}

// Runtime bundles the dependencies a command needs after startup.
type Runtime struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Generator llm.Generator
}

// InitRuntime connects the database, Redis and the LLM client, and
// optionally provisions development fixtures.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	// The Gemini client tolerates a missing API key at startup; generation
	// endpoints report API_KEY_MISSING until one is configured.
	limiter := llm.NewRateLimiter(cfg.LLMMaxRequestsPerMin, cfg.LLMMaxTokensPerMin)
	generator, err := llm.NewClient(context.Background(), llm.ClientConfig{
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.LLMModel,
		MaxOutputTokens: cfg.LLMMaxOutputTokens,
		Temperature:     cfg.LLMTemperature,
	}, limiter)
	if err != nil {
		return nil, fmt.Errorf("llm client init failed: %w", err)
	}

	rootID, err := ensureDevRootAdmin(cfg, db)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	if opts.SeedBuiltIns {
		if rootID == 0 {
			log.Println("skipping built-in platform seed: no development root admin")
		} else if err := seed.DefaultPlatforms(db, rootID); err != nil {
			return nil, fmt.Errorf("failed to seed built-in platforms: %w", err)
		}
	}

	return &Runtime{DB: db, Redis: redisClient, Generator: generator}, nil
}

// ensureDevRootAdmin provisions user ID 1 as an admin in development.
// Returns the root admin's ID, or 0 when bootstrap is disabled.
func ensureDevRootAdmin(cfg *config.Config, db *gorm.DB) (uint, error) {
	if cfg == nil || db == nil {
		return 0, nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapRoot {
		return 0, nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = "inkwell_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = "root@inkwell.local"
	}
	password := cfg.DevRootPassword
	if password == "" {
		return 0, fmt.Errorf("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash root password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.First(&root, 1).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				ID:       1,
				Username: username,
				Email:    email,
				Password: string(hashedPassword),
				IsAdmin:  true,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			updates := map[string]any{"is_admin": true}
			if cfg.DevRootForceCredentials {
				updates["username"] = username
				updates["email"] = email
				updates["password"] = string(hashedPassword)
			}
			if err := tx.Model(&models.User{}).Where("id = ?", 1).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Ensure users ID sequence is not behind explicit ID insertion.
		// This is PostgreSQL-specific.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`
				SELECT setval(
					pg_get_serial_sequence('users', 'id'),
					GREATEST((SELECT COALESCE(MAX(id), 1) FROM users), 1),
					true
				)
			`).Error; err != nil {
				return fmt.Errorf("failed to reset users sequence: %w", err)
			}
		}

		return nil
	}); err != nil {
		return 0, err
	}

	log.Printf("development root admin bootstrap ensured for user ID 1 (%s)", email)
	return 1, nil
}
