// Package bootstrap establishes the runtime dependencies shared by the
// server and tooling commands.
package bootstrap

import (
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedSampleData fills an empty database with demo content on startup.
	SeedSampleData bool
}

// InitRuntime connects to the database and Redis and optionally seeds demo
// content. The Redis client may come back nil when the store is unreachable;
// the application then runs without caching or server-side session lookups.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()

	if opts.SeedSampleData {
		if err := seed.NewSeeder(db).Run(5, 8); err != nil {
			return nil, nil, fmt.Errorf("seed sample data: %w", err)
		}
	}

	return db, rdb, nil
}
