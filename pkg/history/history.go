// Package history records completed conversions.
//
// Every successful conversion produces a [Record] describing what went in
// and what came out: slide and layer counts, skip counts, the formats
// rendered and their sizes. Records are kept by a [Store]:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: one JSON file per record, for the CLI
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// The HTTP server exposes recent records under /conversions.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("history: not found")

// DefaultLimit caps List when the caller passes a non-positive limit.
const DefaultLimit = 50

// Record describes one completed conversion.
type Record struct {
	ID           string         `json:"id" bson:"_id"`
	FileName     string         `json:"file_name" bson:"file_name"`
	DocumentHash string         `json:"document_hash" bson:"document_hash"`
	Slides       int            `json:"slides" bson:"slides"`
	Layers       int            `json:"layers" bson:"layers"`
	Skipped      int            `json:"skipped" bson:"skipped"`
	Formats      []string       `json:"formats" bson:"formats"`
	Bytes        map[string]int `json:"bytes" bson:"bytes"`
	CacheHit     bool           `json:"cache_hit" bson:"cache_hit"`
	Source       string         `json:"source,omitempty" bson:"source,omitempty"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	Duration     time.Duration  `json:"duration_ns" bson:"duration_ns"`
	Reasons      map[string]int `json:"skip_reasons,omitempty" bson:"skip_reasons,omitempty"`
}

// NewID returns a fresh record ID.
func NewID() string {
	return uuid.NewString()
}

// Store persists conversion records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put stores r, replacing any record with the same ID.
	Put(ctx context.Context, r *Record) error

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases resources.
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// prepare assigns an ID and timestamp when missing.
func prepare(r *Record) {
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}
