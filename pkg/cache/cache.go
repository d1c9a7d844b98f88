// Package cache stores conversion intermediates and artifacts.
//
// A [Cache] is a byte store with per-entry TTLs. The pipeline caches two
// things: the instruction plan for a document (keyed by the document hash and
// the slide configuration) and each rendered artifact (keyed by the plan hash
// and the output format). Keys come from a [Keyer] so deployments can scope
// them, for example per tenant with [ScopedKeyer].
//
// Three implementations are provided: [NullCache] for disabled caching,
// [FileCache] for the CLI, and [RedisCache] for servers sharing a cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

// Default TTLs.
const (
	TTLPlan     = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// ErrCacheMiss is returned by [GetJSON] when the key is absent.
var ErrCacheMiss = errors.New("cache: miss")

// Cache is a byte store. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// GetJSON loads a JSON value. It returns ErrCacheMiss when key is absent.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, v)
}

// SetJSON stores v as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}

// Hash returns the hex SHA-256 digest used to address plans and artifacts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
