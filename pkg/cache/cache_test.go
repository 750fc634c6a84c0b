package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/causaltower/pkg/observability"
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
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "query:a"); err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "query:a", []byte("p(Y)"), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "query:a")
	if err != nil || !hit || string(data) != "p(Y)" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "query:a"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "query:a"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "query:a"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
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
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
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

	q1 := k.QueryKey("identify", "g1", QueryKeyOpts{Treatment: []string{"X"}, Outcome: []string{"Y", "W"}, Mode: "shortest"})
	q2 := k.QueryKey("identify", "g1", QueryKeyOpts{Treatment: []string{"X"}, Outcome: []string{"W", "Y"}, Mode: "shortest"})
	if q1 != q2 {
		t.Error("QueryKey should not depend on set order")
	}
	if !strings.HasPrefix(q1, "query:") {
		t.Errorf("QueryKey prefix: %s", q1)
	}

	tests := []struct {
		name string
		kind string
		opts QueryKeyOpts
	}{
		{"kind", "factor", QueryKeyOpts{Treatment: []string{"X"}, Outcome: []string{"W", "Y"}, Mode: "shortest"}},
		{"mode", "identify", QueryKeyOpts{Treatment: []string{"X"}, Outcome: []string{"W", "Y"}, Mode: "longest"}},
		{"greedy", "identify", QueryKeyOpts{Treatment: []string{"X"}, Outcome: []string{"W", "Y"}, Mode: "shortest", Greedy: true}},
	}
	for _, tt := range tests {
		if k.QueryKey(tt.kind, "g1", tt.opts) == q1 {
			t.Errorf("changing %s should change the key", tt.name)
		}
	}
	if k.QueryKey("identify", "g2", QueryKeyOpts{Treatment: []string{"X"}, Outcome: []string{"W", "Y"}, Mode: "shortest"}) == q1 {
		t.Error("graph hash should change the key")
	}

	r1 := k.RenderKey("g1", RenderKeyOpts{Format: "svg"})
	r2 := k.RenderKey("g1", RenderKeyOpts{Format: "png"})
	if r1 == r2 {
		t.Error("Different RenderKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")
	key := scoped.QueryKey("identify", "g", QueryKeyOpts{})
	if !strings.HasPrefix(key, "user:123:query:") {
		t.Errorf("ScopedKeyer QueryKey should be prefixed: %s", key)
	}
	if KeyType(key) != "query" {
		t.Errorf("KeyType(%s) = %s", key, KeyType(key))
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if !strings.HasPrefix(nilInner.RenderKey("g", RenderKeyOpts{}), "p:render:") {
		t.Error("nil inner should fall back to DefaultKeyer")
	}
}

func TestKeyType(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"query:abc", "query"},
		{"render:abc", "render"},
		{"tenant:render:abc", "render"},
		{"plain", "unknown"},
	}
	for _, tt := range tests {
		if got := KeyType(tt.key); got != tt.want {
			t.Errorf("KeyType(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
	lastType           string
}

func (h *countingHooks) OnCacheHit(_ context.Context, keyType string) { h.hits++; h.lastType = keyType }
func (h *countingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.misses++
	h.lastType = keyType
}
func (h *countingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.sets++
	h.lastType = keyType
}

func TestInstrument(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Instrument(fc)
	if Instrument(c) != c {
		t.Error("Instrument should not wrap twice")
	}

	_, _, _ = c.Get(ctx, "query:x")
	_ = c.Set(ctx, "query:x", []byte("1"), 0)
	_, _, _ = c.Get(ctx, "query:x")

	if hooks.misses != 1 || hooks.sets != 1 || hooks.hits != 1 {
		t.Errorf("hooks = %d misses, %d sets, %d hits", hooks.misses, hooks.sets, hooks.hits)
	}
	if hooks.lastType != "query" {
		t.Errorf("key type = %q", hooks.lastType)
	}
}

// replyError is an error reply from a redis server.
type replyError string

func (e replyError) Error() string { return string(e) }
func (replyError) RedisError()     {}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("dial tcp: connection refused"), true},
		{replyError("WRONGPASS invalid username-password pair"), false},
		{context.Canceled, false},
		{context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		if got := retryable(tt.err); got != tt.want {
			t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestWithRetry(t *testing.T) {
	pingDelay = time.Millisecond
	defer func() { pingDelay = 200 * time.Millisecond }()
	ctx := context.Background()
	refused := errors.New("connection refused")

	calls := 0
	if err := withRetry(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	err := withRetry(ctx, func() error { calls++; return replyError("NOAUTH") })
	if err == nil || calls != 1 {
		t.Errorf("server reply: err %v, calls %d", err, calls)
	}

	calls = 0
	err = withRetry(ctx, func() error {
		calls++
		if calls < 2 {
			return refused
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}

	calls = 0
	err = withRetry(ctx, func() error { calls++; return refused })
	if err != refused || calls != pingAttempts {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestWithRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, func() error { return errors.New("connection refused") })
	if err != context.Canceled {
		t.Errorf("withRetry error = %v, want context.Canceled", err)
	}
}

func TestRedisUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewRedisCache error = %v, want ErrUnavailable", err)
	}
}
