// Package cache stores chaining results keyed by the content of their
// inputs.
//
// A run is fully determined by the report, the assembly graph and the
// numeric settings, so repeated runs over unchanged files are served from
// the cache. [FileCache] keeps entries as JSON files under a directory;
// [NullCache] disables caching. Keys are built by a [Keyer].
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Dir returns the per-user cache directory, ~/.cache/omacc on Linux.
func Dir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "omacc"), nil
}
