package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// KeyTypeBundle labels bundle entries in cache hooks and key prefixes.
const KeyTypeBundle = "bundle"

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// BundleKey derives the key of an exported bundle from everything that
// determines its bytes: the sanitized project name, the ordered selections,
// the asset location they are read from and the digests of the loaded asset
// contents. selections must marshal to JSON deterministically (slices and
// structs, not maps).
func BundleKey(project string, selections any, assets string, digests []string) string {
	return hashKey(KeyTypeBundle, project, selections, assets, digests)
}
