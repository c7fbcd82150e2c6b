package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/wireframe/pkg/cache"
)

func TestCachePath(t *testing.T) {
	root, cfgPath := writeSite(t)

	out, err := runCLI(t, "--config", cfgPath, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(root, "cache"); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	root, cfgPath := writeSite(t)

	fc, err := cache.NewFileCache(filepath.Join(root, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := runCLI(t, "--config", cfgPath, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if _, ok, _ := fc.Get(ctx, key); ok {
			t.Errorf("key %q survived cache clear", key)
		}
	}

	// Clearing an empty cache is fine.
	if _, err := runCLI(t, "--config", cfgPath, "cache", "clear"); err != nil {
		t.Fatalf("second cache clear error: %v", err)
	}
}

func TestCacheLabel(t *testing.T) {
	_, cfgPath := writeSite(t)
	c := New(io.Discard, LogInfo)
	c.configPath = cfgPath
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if got := cacheLabel(cfg, true); got != "disabled" {
		t.Errorf("cacheLabel(noCache) = %q", got)
	}
	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis.Addr = "localhost:6379"
	if got := cacheLabel(cfg, false); got != "redis localhost:6379" {
		t.Errorf("cacheLabel(redis) = %q", got)
	}
}
