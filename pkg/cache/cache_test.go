package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newRedisCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := NewCache(mr.Addr(), true)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewCache("", false)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if c.Enabled() {
		t.Fatalf("expected cache to be disabled")
	}

	ctx := context.Background()
	if err := c.CacheFragment(ctx, "header", []byte("<header></header>"), time.Minute); err != nil {
		t.Fatalf("CacheFragment on disabled cache: %v", err)
	}
	if _, err := c.GetCachedFragment(ctx, "header"); !errors.Is(err, ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
	if err := c.InvalidateFragments(ctx, "header:"); err != nil {
		t.Fatalf("InvalidateFragments on disabled cache: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on disabled cache: %v", err)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Fatalf("expected nil cache to report disabled")
	}
	if _, err := c.GetCachedFragment(context.Background(), "header"); !errors.Is(err, ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
}

func TestNewCacheUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	if _, err := NewCache(addr, true); err == nil {
		t.Fatalf("expected error for unreachable redis")
	}
}

func TestFragmentRoundTrip(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	if _, err := c.GetCachedFragment(ctx, "header:abc"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	markup := []byte(`<header data-header="site"></header>`)
	if err := c.CacheFragment(ctx, "header:abc", markup, 90*time.Second); err != nil {
		t.Fatalf("CacheFragment: %v", err)
	}

	stored, err := mr.Get("fragment:header:abc")
	if err != nil {
		t.Fatalf("expected raw fragment in redis: %v", err)
	}
	if stored != string(markup) {
		t.Fatalf("expected markup stored as-is, got %q", stored)
	}
	if ttl := mr.TTL("fragment:header:abc"); ttl != 90*time.Second {
		t.Fatalf("expected ttl 90s, got %s", ttl)
	}

	got, err := c.GetCachedFragment(ctx, "header:abc")
	if err != nil {
		t.Fatalf("GetCachedFragment: %v", err)
	}
	if string(got) != string(markup) {
		t.Fatalf("unexpected fragment %q", got)
	}
}

func TestInvalidateFragmentsKeepsListedKeys(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	for _, key := range []string{"header:old", "header:current", "footer:x"} {
		if err := c.CacheFragment(ctx, key, []byte(key), time.Minute); err != nil {
			t.Fatalf("CacheFragment %s: %v", key, err)
		}
	}

	if err := c.InvalidateFragments(ctx, "header:", "header:current"); err != nil {
		t.Fatalf("InvalidateFragments: %v", err)
	}

	if mr.Exists("fragment:header:old") {
		t.Errorf("expected stale fragment to be removed")
	}
	if !mr.Exists("fragment:header:current") {
		t.Errorf("expected kept fragment to survive")
	}
	if !mr.Exists("fragment:footer:x") {
		t.Errorf("expected fragments outside the prefix to survive")
	}
}

func TestRedisErrorsSurface(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.SetError("ERR simulated failure")

	_, err := c.GetCachedFragment(context.Background(), "header:abc")
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected redis error, got %v", err)
	}
}
