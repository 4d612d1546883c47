package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
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
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "layout:abc", []byte(`{"nodes":[]}`), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit || string(data) != `{"nodes":[]}` {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheBadEntries(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	// an entry written for another key at the same path
	raw, _ := os.ReadFile(c.path("k"))
	foreign := strings.Replace(string(raw), `"key":"k"`, `"key":"other"`, 1)
	if err := os.WriteFile(c.path("k"), []byte(foreign), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("foreign entry should miss")
	}

	if err := os.MkdirAll(filepath.Dir(c.path("j")), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("j"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "j"); hit || err != nil {
		t.Errorf("corrupt entry: hit = %v, err = %v", hit, err)
	}
	if _, err := os.Stat(c.path("j")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared entry should miss")
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

	j1, err := HashJSON(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatal(err)
	}
	if j2, _ := HashJSON(map[string]int{"b": 2, "a": 1}); j1 != j2 {
		t.Error("HashJSON should not depend on map order")
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("unencodable value should fail")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{Direction: "TB", SiblingSpacing: 40, LevelSpacing: 160, NodeSize: 180}
	lk := k.LayoutKey("hash123", base)
	if !strings.HasPrefix(lk, "layout:") {
		t.Errorf("LayoutKey = %s", lk)
	}

	other := base
	other.Direction = "LR"
	if k.LayoutKey("hash123", other) == lk {
		t.Error("different directions should produce different keys")
	}

	renamed := base
	renamed.Preset, renamed.PresetIndex = "compact", 3
	if k.LayoutKey("hash123", renamed) == lk {
		t.Error("presets with equal geometry should still produce different keys")
	}

	a, b := base, base
	a.Collapsed = []string{"x", "y"}
	b.Collapsed = []string{"y", "x"}
	if k.LayoutKey("hash123", a) != k.LayoutKey("hash123", b) {
		t.Error("collapsed order should not matter")
	}
	if a.Collapsed[0] != "x" {
		t.Error("LayoutKey must not reorder the caller's slice")
	}

	if k.RenderKey("h", RenderKeyOpts{Format: "svg"}) == k.RenderKey("h", RenderKeyOpts{Format: "dot"}) {
		t.Error("different formats should produce different keys")
	}
}

func TestScoped(t *testing.T) {
	scoped := Scoped(nil, "staging:")
	if key := scoped.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(key, "staging:layout:") {
		t.Errorf("LayoutKey should be prefixed: %s", key)
	}
	if key := scoped.RenderKey("h", RenderKeyOpts{}); !strings.HasPrefix(key, "staging:render:") {
		t.Errorf("RenderKey should be prefixed: %s", key)
	}

	plain := NewDefaultKeyer()
	if Scoped(plain, "").LayoutKey("h", LayoutKeyOpts{}) != plain.LayoutKey("h", LayoutKeyOpts{}) {
		t.Error("empty scope should not change keys")
	}
	if Scoped(plain, "a:").LayoutKey("h", LayoutKeyOpts{}) == Scoped(plain, "b:").LayoutKey("h", LayoutKeyOpts{}) {
		t.Error("different scopes should produce different keys")
	}
}

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should return nil")
	}
	err := Transient(ErrNetwork)
	if !IsTransient(err) {
		t.Error("IsTransient should return true for marked error")
	}
	if !IsTransient(fmt.Errorf("get: %w", err)) {
		t.Error("IsTransient should see through wrapping")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("marked error should unwrap")
	}
	if IsTransient(ErrNetwork) {
		t.Error("IsTransient should return false for unmarked error")
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	errPermanent := errors.New("permanent")
	b := Backoff{Attempts: 3, Delay: time.Millisecond}

	tests := []struct {
		name      string
		backoff   Backoff
		fail      int // calls that fail before success; -1 fails forever
		failErr   error
		wantCalls int
		wantErr   error
	}{
		{"permanent", b, -1, errPermanent, 1, errPermanent},
		{"recovers", b, 1, Transient(ErrNetwork), 2, nil},
		{"exhausted", b, -1, Transient(ErrNetwork), 3, ErrNetwork},
		{"zero attempts", Backoff{}, -1, Transient(ErrNetwork), 1, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := tt.backoff.Do(ctx, func() error {
				calls++
				if tt.fail < 0 || calls <= tt.fail {
					return tt.failErr
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Backoff{Attempts: 3, Delay: time.Second}.Do(ctx, func() error {
		return Transient(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client, "test:")
	c.backoff.Delay = time.Millisecond
	defer c.Close()

	if c.key("layout:x") != "test:layout:x" {
		t.Errorf("key = %s", c.key("layout:x"))
	}
	_, hit, err := c.Get(context.Background(), "layout:x")
	if hit || !errors.Is(err, ErrNetwork) {
		t.Errorf("Get = %v, %v; want ErrNetwork", hit, err)
	}
	if err := c.Set(context.Background(), "layout:x", []byte("v"), time.Minute); !errors.Is(err, ErrNetwork) {
		t.Errorf("Set error = %v, want ErrNetwork", err)
	}
}
