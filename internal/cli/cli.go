package cli

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wireframe/pkg/cache"
	"github.com/matzehuels/wireframe/pkg/catalog"
	"github.com/matzehuels/wireframe/pkg/config"
	"github.com/matzehuels/wireframe/pkg/export"
	"github.com/matzehuels/wireframe/pkg/preview"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "wireframe"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Config
// =============================================================================

// loadConfig loads the configuration selected by --config and validates it.
// Callers apply their flag overrides before using it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// Factories
// =============================================================================

// catalogSource returns the manifest source cfg selects.
func catalogSource(cfg *config.Config) catalog.Source {
	switch cfg.Catalog.Source {
	case config.SourceHTTP:
		return catalog.HTTPSource{URL: cfg.Catalog.URL}
	case config.SourceMongo:
		return catalog.MongoSource{
			URI:        cfg.Catalog.Mongo.URI,
			Database:   cfg.Catalog.Mongo.Database,
			Collection: cfg.Catalog.Mongo.Collection,
		}
	default:
		return catalog.FileSource{Path: cfg.ManifestPath()}
	}
}

// loadCatalog loads the manifest. A failure leaves an empty catalog and is
// reported as a warning; the error is returned for the studio to surface.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *log.Logger) (*catalog.Catalog, error) {
	src := catalogSource(cfg)
	c, err := catalog.LoadOrEmpty(ctx, src, logger)
	if err != nil {
		printWarning("Could not load the manifest from %s; starting with no widgets", src)
	}
	return c, err
}

// newCache opens the export cache cfg selects.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case config.CacheFile:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	default:
		return cache.NewNullCache(), nil
	}
}

// newAssets reads assets from baseURL when set, else from the configured
// directories.
func newAssets(cfg *config.Config, baseURL string) export.Assets {
	if baseURL != "" {
		return export.HTTPAssets{BaseURL: baseURL}
	}
	return export.DirAssets{
		ImageDir: cfg.Assets.ImagePath(),
		HTMLDir:  cfg.Assets.HTMLPath(),
	}
}

// newExporter builds an exporter over assets backed by the configured cache.
// The returned cache must be closed by the caller.
func newExporter(ctx context.Context, cfg *config.Config, assets export.Assets, noCache bool, logger *log.Logger) (*export.Exporter, cache.Cache, error) {
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	exp := export.New(assets, export.Options{
		Cache:       store,
		TTL:         cfg.Cache.TTL.Duration,
		DefaultName: cfg.Export.DefaultName,
		Logger:      logger,
	})
	return exp, store, nil
}

// newRand returns the preview source for seed; 0 seeds randomly.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return preview.NewRand(seed)
}
