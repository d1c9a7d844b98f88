package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "a", []byte("alpha"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "alpha" {
		t.Errorf("Get(a) = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "a", []byte("again"), 0); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	if data, _, _ := c.Get(ctx, "a"); string(data) != "again" {
		t.Errorf("overwrite: got %q", data)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("deleted key still present")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Minute)
	st, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 2 || st.Expired != 1 || st.Bytes == 0 {
		t.Errorf("Stats() = %+v, want 2 entries, 1 expired", st)
	}

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	c.now = func() time.Time { return now }

	for i, ttl := range []time.Duration{time.Second, time.Second, time.Hour} {
		if err := c.Set(ctx, string(rune('a'+i)), []byte("x"), ttl); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(c.Dir(), "README"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	now = now.Add(time.Minute)
	n, err := c.Prune()
	if err != nil || n != 2 {
		t.Errorf("Prune() = %d, %v, want 2", n, err)
	}
	if _, hit, _ := c.Get(ctx, "c"); !hit {
		t.Error("live entry removed by Prune")
	}
	if _, err := os.Stat(filepath.Join(c.Dir(), "README")); err != nil {
		t.Error("Prune removed a file that is not an entry")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("no header"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("entry survived Clear")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	type payload struct {
		Name   string `json:"name"`
		Slides int    `json:"slides"`
	}
	var got payload
	if err := GetJSON(ctx, c, "p", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON(miss) error = %v, want ErrCacheMiss", err)
	}

	if err := SetJSON(ctx, c, "p", payload{"deck", 3}, time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := GetJSON(ctx, c, "p", &got); err != nil {
		t.Fatalf("GetJSON error: %v", err)
	}
	if got != (payload{"deck", 3}) {
		t.Errorf("GetJSON = %+v", got)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := PlanKeyOpts{TargetWidth: 10, TargetHeight: 5.625, SafeMargin: 0.3}
	pk1 := k.PlanKey("doc123", base)
	if !strings.HasPrefix(pk1, "plan:") {
		t.Errorf("PlanKey prefix: %s", pk1)
	}
	if pk1 != k.PlanKey("doc123", base) {
		t.Error("PlanKey should be deterministic")
	}

	numbered := base
	numbered.SlideNumbers = true
	if pk1 == k.PlanKey("doc123", numbered) {
		t.Error("Different PlanKeyOpts should produce different keys")
	}
	if pk1 == k.PlanKey("doc456", base) {
		t.Error("Different documents should produce different keys")
	}

	ak1 := k.ArtifactKey("plan123", ArtifactKeyOpts{Format: "pptx"})
	ak2 := k.ArtifactKey("plan123", ArtifactKeyOpts{Format: "svg"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey prefix: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:123:")

	pk := scoped.PlanKey("doc", PlanKeyOpts{})
	if pk != "tenant:123:"+inner.PlanKey("doc", PlanKeyOpts{}) {
		t.Errorf("ScopedKeyer PlanKey unexpected: %s", pk)
	}
	ak := scoped.ArtifactKey("plan", ArtifactKeyOpts{Format: "pptx"})
	if !strings.HasPrefix(ak, "tenant:123:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", ak)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "json"})
	if key != "prefix:"+NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{Format: "json"}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestDigestSeparatesOptions(t *testing.T) {
	k := NewDefaultKeyer()
	base := k.PlanKey("doc", PlanKeyOpts{TargetWidth: 10, TargetHeight: 5.625})
	if !strings.HasPrefix(base, "plan:") || len(base) != len("plan:")+64 {
		t.Fatalf("PlanKey = %q", base)
	}
	if k.PlanKey("doc", PlanKeyOpts{TargetWidth: 10, TargetHeight: 5.625, SlideNumbers: true}) == base {
		t.Error("slide numbers should change the plan key")
	}
	if k.PlanKey("doc2", PlanKeyOpts{TargetWidth: 10, TargetHeight: 5.625}) == base {
		t.Error("document hash should change the plan key")
	}
	if got := Hash([]byte("abc")); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("Hash(abc) = %s", got)
	}
}

// TestRedisCache runs against a live server when FIGSLIDES_TEST_REDIS is set,
// e.g. FIGSLIDES_TEST_REDIS=localhost:6379.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("FIGSLIDES_TEST_REDIS")
	if addr == "" {
		t.Skip("FIGSLIDES_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "figslides:test:"})
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key still present")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	defer func(d time.Duration) { DialBackoff = d }(DialBackoff)
	DialBackoff = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("NewRedisCache(unreachable) error = %v, want ErrNetwork", err)
	}
}
