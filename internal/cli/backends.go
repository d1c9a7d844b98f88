package cli

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/figslides/pkg/cache"
	"github.com/matzehuels/figslides/pkg/config"
	"github.com/matzehuels/figslides/pkg/errors"
	"github.com/matzehuels/figslides/pkg/history"
	"github.com/matzehuels/figslides/pkg/pipeline"
)

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. The
// history store is only opened for long-running commands; one-shot CLI
// conversions leave it off.
func (c *CLI) newRunner(ctx context.Context, noCache, withHistory bool) (*pipeline.Runner, error) {
	cfg := c.Config
	if noCache {
		cfg = withCacheBackend(cfg, config.BackendNone)
	}
	ch, err := openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(ch, nil, c.Logger)
	runner.PlanTTL = cfg.Cache.PlanTTL
	runner.ArtifactTTL = cfg.Cache.ArtifactTTL

	if withHistory {
		store, err := openHistory(ctx, cfg)
		if err != nil {
			ch.Close()
			return nil, err
		}
		runner.History = store
	}
	return runner, nil
}

func withCacheBackend(cfg *config.Config, backend string) *config.Config {
	cp := *cfg
	cp.Cache.Backend = backend
	return &cp
}

// openCache returns the cache named by cfg.Cache.Backend.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendFile:
		dir, err := cacheDir(cfg)
		if err != nil {
			// No home directory: run uncached rather than fail.
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Cache.Backend)
	}
}

// openHistory returns the store named by cfg.History.Backend, or nil when
// history is disabled.
func openHistory(ctx context.Context, cfg *config.Config) (history.Store, error) {
	switch cfg.History.Backend {
	case config.BackendNone:
		return nil, nil
	case config.BackendMemory:
		return history.NewMemoryStore(), nil
	case config.BackendFile:
		dir := cfg.History.Dir
		if dir == "" {
			base, err := dataDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "no history directory")
			}
			dir = filepath.Join(base, "history")
		}
		return history.NewFileStore(dir)
	case config.BackendMongo:
		return history.NewMongoStore(ctx, history.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown history backend %q", cfg.History.Backend)
	}
}

// cacheDir returns the configured cache directory or the per-user default.
func cacheDir(cfg *config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
