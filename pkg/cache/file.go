package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// entryExt marks cache entry files. Anything else under the directory is
// left alone by Clear and Prune.
const entryExt = ".entry"

// FileCache keeps one file per key under a directory. A file holds a
// header line with the expiry in Unix milliseconds (0 for none) followed by the
// raw value. It is the CLI's default cache.
type FileCache struct {
	dir string
	now func() time.Time
}

// DefaultDir returns the per-user cache directory, e.g.
// ~/.cache/figslides on Linux.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "figslides"), nil
}

// NewFileCache opens a cache rooted at dir, creating the directory.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get returns the value for key. Unreadable and expired entries are
// deleted and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	expires, value, ok := decodeEntry(raw)
	if !ok || c.expired(expires) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return value, true, nil
}

// Set writes the entry to a temporary file in the same shard and renames
// it into place.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = c.now().Add(ttl).UnixMilli()
	}

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(shard, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := fmt.Fprintf(tmp, "%d\n", expires); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. A missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

// FileStats describes the entries on disk.
type FileStats struct {
	Entries int
	Bytes   int64
	Expired int
}

// Stats walks the directory and counts entries, their total size, and how
// many have expired but were not yet collected.
func (c *FileCache) Stats() (FileStats, error) {
	var st FileStats
	err := c.walk(func(path string, info fs.FileInfo) error {
		st.Entries++
		st.Bytes += info.Size()
		if c.entryExpired(path) {
			st.Expired++
		}
		return nil
	})
	return st, err
}

// Prune deletes expired entries and returns how many it removed.
func (c *FileCache) Prune() (int, error) {
	n := 0
	err := c.walk(func(path string, _ fs.FileInfo) error {
		if !c.entryExpired(path) {
			return nil
		}
		n++
		return os.Remove(path)
	})
	return n, err
}

// Clear deletes every entry and returns how many it removed.
func (c *FileCache) Clear() (int, error) {
	n := 0
	err := c.walk(func(path string, _ fs.FileInfo) error {
		n++
		return os.Remove(path)
	})
	return n, err
}

func (c *FileCache) walk(fn func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != entryExt {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
}

func (c *FileCache) entryExpired(path string) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	expires, _, ok := decodeEntry(raw)
	return !ok || c.expired(expires)
}

func (c *FileCache) expired(ms int64) bool {
	return ms != 0 && c.now().UnixMilli() >= ms
}

// path shards entries over 256 directories by the first byte of the key
// digest.
func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+entryExt)
}

func decodeEntry(raw []byte) (expires int64, value []byte, ok bool) {
	header, value, found := bytes.Cut(raw, []byte{'\n'})
	if !found {
		return 0, nil, false
	}
	expires, err := strconv.ParseInt(string(header), 10, 64)
	if err != nil {
		return 0, nil, false
	}
	return expires, value, true
}

var _ Cache = (*FileCache)(nil)
