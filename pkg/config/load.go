package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wireframe/pkg/catalog"
	"github.com/matzehuels/wireframe/pkg/errors"
	"github.com/matzehuels/wireframe/pkg/export"
)

const appName = "wireframe"

// DefaultAddr is the default listen address.
const DefaultAddr = ":8000"

// DefaultStaticMaxAge is one year.
const DefaultStaticMaxAge = 365 * 24 * time.Hour

// Load reads configuration from path, or from the standard config path when
// path is empty.
// Search order:
//  1. $XDG_CONFIG_HOME/wireframe/config.toml
//  2. ~/.config/wireframe/config.toml
//
// If no file exists, returns DefaultConfig() with environment overrides.
// An explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open config %s", path)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			StaticMaxAge: Duration{DefaultStaticMaxAge},
			CORSOrigins:  []string{"*"},
		},
		Assets: AssetsConfig{
			Root:     ".",
			ImageDir: catalog.DefaultImageDir,
			HTMLDir:  catalog.DefaultHTMLDir,
		},
		Catalog: CatalogConfig{
			Source: SourceFile,
			Path:   catalog.DefaultManifest,
			Mongo: MongoConfig{
				Database:   catalog.DefaultMongoDatabase,
				Collection: catalog.DefaultMongoCollection,
			},
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Dir:     filepath.Join(xdgCacheHome(home), appName),
			TTL:     Duration{24 * time.Hour},
		},
		Export: ExportConfig{
			DefaultName: export.DefaultProjectName,
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WIREFRAME_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("WIREFRAME_ROOT"); v != "" {
		cfg.Assets.Root = v
	}
	if v := os.Getenv("WIREFRAME_MANIFEST"); v != "" {
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			cfg.Catalog.Source = SourceHTTP
			cfg.Catalog.URL = v
		} else {
			cfg.Catalog.Source = SourceFile
			cfg.Catalog.Path = v
		}
	}
	if v := os.Getenv("WIREFRAME_MONGO_URI"); v != "" {
		cfg.Catalog.Source = SourceMongo
		cfg.Catalog.Mongo.URI = v
	}
	if v := os.Getenv("WIREFRAME_REDIS_ADDR"); v != "" {
		cfg.Cache.Backend = CacheRedis
		cfg.Cache.Redis.Addr = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appName, "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
