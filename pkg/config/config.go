// Package config provides TOML-based configuration for the wireframe studio.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, WIREFRAME_* environment variables and finally command-line flags
// (applied by the CLI). A minimal file:
//
//	[server]
//	addr = ":8000"
//
//	[assets]
//	root = "/srv/wireframes"
//
//	[cache]
//	backend = "redis"
//	ttl = "12h"
//
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/wireframe/pkg/errors"
)

// Catalog sources.
const (
	SourceFile  = "file"
	SourceHTTP  = "http"
	SourceMongo = "mongo"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the complete configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Assets  AssetsConfig  `toml:"assets"`
	Catalog CatalogConfig `toml:"catalog"`
	Cache   CacheConfig   `toml:"cache"`
	Export  ExportConfig  `toml:"export"`
	Preview PreviewConfig `toml:"preview"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// StaticMaxAge is the Cache-Control max-age of image and HTML assets.
	StaticMaxAge Duration `toml:"static_max_age"`
	CORSOrigins  []string `toml:"cors_origins"`
}

// AssetsConfig locates the asset directories. Relative directories are
// resolved against Root.
type AssetsConfig struct {
	Root     string `toml:"root"`
	ImageDir string `toml:"image_dir"`
	HTMLDir  string `toml:"html_dir"`
}

// ImagePath returns the resolved image directory.
func (a AssetsConfig) ImagePath() string { return a.resolve(a.ImageDir) }

// HTMLPath returns the resolved HTML fragment directory.
func (a AssetsConfig) HTMLPath() string { return a.resolve(a.HTMLDir) }

func (a AssetsConfig) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.Root, p)
}

// CatalogConfig selects where the widget manifest is loaded from.
type CatalogConfig struct {
	Source string      `toml:"source"`
	Path   string      `toml:"path"`
	URL    string      `toml:"url"`
	Mongo  MongoConfig `toml:"mongo"`
}

// MongoConfig addresses the MongoDB widget collection.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig configures the export cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig addresses the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ExportConfig configures bundle export.
type ExportConfig struct {
	// DefaultName replaces project names that sanitize to nothing.
	DefaultName string `toml:"default_name"`
}

// PreviewConfig configures the preview cycler.
type PreviewConfig struct {
	// Seed makes preview picks reproducible; 0 picks a random seed.
	Seed uint64 `toml:"seed"`
}

// ManifestPath returns the resolved manifest file path of a file catalog.
func (c *Config) ManifestPath() string {
	return c.Assets.resolve(c.Catalog.Path)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr must not be empty")
	}
	if !slices.Contains([]string{SourceFile, SourceHTTP, SourceMongo}, c.Catalog.Source) {
		return errors.New(errors.ErrCodeInvalidInput, "catalog.source must be one of file, http, mongo; got %q", c.Catalog.Source)
	}
	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.Path == "" {
			return errors.New(errors.ErrCodeInvalidInput, "catalog.path must be set for a file catalog")
		}
	case SourceHTTP:
		if err := errors.ValidateURL(c.Catalog.URL); err != nil {
			return err
		}
	case SourceMongo:
		if !strings.HasPrefix(c.Catalog.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Catalog.Mongo.URI, "mongodb+srv://") {
			return errors.New(errors.ErrCodeInvalidInput, "catalog.mongo.uri must be a mongodb:// URI")
		}
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis.addr must be set for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be one of none, file, redis; got %q", c.Cache.Backend)
	}
	return nil
}
