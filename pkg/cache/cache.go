// Package cache provides pluggable result caching for the cleaning
// pipeline and the HTTP API.
//
// Three backends implement the [Cache] interface:
//   - [FileCache]: hash-sharded files on disk, used by the CLI
//   - [RedisCache]: a Redis server, used by the API
//   - [NullCache]: stores nothing, used to disable caching
//
// Keys are built by a [Keyer] so that every consumer derives them the same
// way. The default keyer hashes the dataset content together with the
// option axes that influence the cleaned output; logging options are
// deliberately excluded.
package cache

import (
	"context"
	"time"
)

// TTL values for the different cache entry types.
const (
	// TTLClean is how long a cleaned-dataset result stays valid. Cleaning
	// is deterministic for a given input and option set, so the TTL only
	// bounds disk usage.
	TTLClean = 7 * 24 * time.Hour

	// TTLHTTP is how long a memoized API response stays valid.
	TTLHTTP = 24 * time.Hour
)

// Cache is the interface all cache backends implement.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// CleanKeyOpts carries the option axes that influence a cleaning result.
// Two runs with equal dataset content and equal CleanKeyOpts produce the
// same output, so they share one cache entry.
type CleanKeyOpts struct {
	Numeric     string   `json:"numeric"`
	Categorical string   `json:"categorical"`
	Neighbors   int      `json:"neighbors"`
	Outliers    string   `json:"outliers"`
	Factor      float64  `json:"factor"`
	Granularity string   `json:"granularity"`
	Policy      string   `json:"policy"`
	Targets     []string `json:"targets,omitempty"`
	OneHotLimit int      `json:"onehot_limit"`
	Decimals    int      `json:"decimals"`
}

// Keyer generates cache keys. Implementations must be deterministic:
// equal inputs yield equal keys across processes.
type Keyer interface {
	// CleanKey generates a key for a full pipeline result.
	CleanKey(datasetHash string, opts CleanKeyOpts) string

	// HTTPKey generates a key for a memoized API response.
	HTTPKey(namespace, key string) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// CleanKey generates a key for a full pipeline result. The key hashes the
// dataset content hash together with every option axis, so changing any
// axis addresses a different entry.
func (k *DefaultKeyer) CleanKey(datasetHash string, opts CleanKeyOpts) string {
	return hashKey("clean", datasetHash, opts)
}

// HTTPKey generates a key for a memoized API response.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return hashKey("http", namespace, key)
}
