package redisad

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"idx_pro/internal/domain"
)

func testCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr(), "", 0), mr
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	in := domain.SearchResponse{
		Properties: []domain.Property{{ID: "sample-1", Price: 1250000}},
		Total:      1, Page: 1, Limit: 20, TotalPages: 1,
	}
	if err := c.Set(ctx, "listings:abc", in, time.Minute); err != nil {
		t.Fatal(err)
	}

	var out domain.SearchResponse
	ok, err := c.Get(ctx, "listings:abc", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.Total != 1 || out.Properties[0].ID != "sample-1" || out.Properties[0].Price != 1250000 {
		t.Fatalf("round trip mangled value: %+v", out)
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c, _ := testCache(t)

	var out domain.SearchResponse
	ok, err := c.Get(context.Background(), "listings:absent", &out)
	if err != nil {
		t.Fatalf("miss must be err-free: %v", err)
	}
	if ok {
		t.Fatal("expected a miss")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]int{"n": 1}, 30*time.Second); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(31 * time.Second)

	var out map[string]int
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatal("expected expiry after TTL")
	}
}

func TestCache_DelAndPrefixIsolation(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", 1, time.Minute); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("idx:k") {
		t.Fatal("keys must carry the idx: prefix")
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("idx:k") {
		t.Fatal("expected key deleted")
	}
}
