package cache

import (
	"context"
	"time"
)

// NullCache keeps no bundles: every export is rebuilt from its assets.
// It backs the "none" cache backend and the --no-cache flag.
type NullCache struct{}

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)

// NewNullCache returns a cache that never stores a bundle.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every bundle key.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set drops the bundle.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete is a no-op.
func (*NullCache) Delete(context.Context, string) error { return nil }

// Clear has nothing to remove and reports zero bundles.
func (*NullCache) Clear(context.Context) (int, error) { return 0, nil }

// Close is a no-op.
func (*NullCache) Close() error { return nil }
