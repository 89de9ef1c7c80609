package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"idx_pro/internal/app"
	"idx_pro/internal/domain"
	"idx_pro/internal/storage/sample"
)

type fakeProvider struct {
	mu          sync.Mutex
	searchErr   error
	searchPage  domain.ProviderPage
	getErr      error
	getRaw      map[string]any
	inquiryErr  error
	searchCalls int
	inquiries   []domain.Lead
}

func (f *fakeProvider) Search(ctx context.Context, _ domain.SearchFilters) (domain.ProviderPage, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	return f.searchPage, f.searchErr
}

func (f *fakeProvider) GetByID(ctx context.Context, _ string) (map[string]any, error) {
	return f.getRaw, f.getErr
}

func (f *fakeProvider) SubmitInquiry(ctx context.Context, l domain.Lead) error {
	f.mu.Lock()
	f.inquiries = append(f.inquiries, l)
	f.mu.Unlock()
	return f.inquiryErr
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
	hits int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.sets++
	c.mu.Unlock()
	return nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

const cdn = "https://cdn.test.example"

func listingsService(p domain.ListingsProvider, cache domain.Cache, keySet bool) *app.ListingService {
	return app.NewListingService(p, sample.NewStore(), cache, time.Minute, cdn, keySet)
}

func TestGetListings_ProviderSuccess(t *testing.T) {
	p := &fakeProvider{searchPage: domain.ProviderPage{
		Listings: []map[string]any{
			{"mlsNumber": "M-1", "lastStatus": "A", "listPrice": float64(500000)},
			{"mlsNumber": "M-2", "lastStatus": "S", "listPrice": float64(700000)},
		},
		Count: 42, Page: 2, PageSize: 2, NumPages: 21,
	}}
	svc := listingsService(p, nil, true)

	resp := svc.GetListings(context.Background(), domain.SearchFilters{Page: 2, Limit: 2})
	if len(resp.Properties) != 2 {
		t.Fatalf("expected 2 mapped listings, got %d", len(resp.Properties))
	}
	if resp.Properties[0].ID != "M-1" || resp.Properties[0].Status != domain.StatusActive {
		t.Fatalf("first listing not mapped: %+v", resp.Properties[0])
	}
	if resp.Total != 42 || resp.Page != 2 || resp.Limit != 2 || resp.TotalPages != 21 {
		t.Fatalf("provider pagination not carried through: %+v", resp)
	}
}

func TestGetListings_SilentFallbackWithoutKey(t *testing.T) {
	p := &fakeProvider{searchErr: domain.ErrNoAPIKey}
	svc := listingsService(p, nil, false)

	resp := svc.GetListings(context.Background(), domain.SearchFilters{City: "San Francisco", Status: "active"})
	if resp.Total != 1 || resp.Properties[0].ID != "sample-1" {
		t.Fatalf("expected filtered sample data, got %+v", resp)
	}
}

func TestGetListings_FallbackOnProviderError(t *testing.T) {
	p := &fakeProvider{searchErr: errors.New("connection reset")}
	svc := listingsService(p, nil, true)

	resp := svc.GetListings(context.Background(), domain.SearchFilters{})
	if resp.Total != 6 {
		t.Fatalf("expected full sample catalog on provider failure, got %d", resp.Total)
	}
	// unauthorized with a configured key is still a fallback, not a panic
	p.searchErr = domain.ErrUnauthorized
	if got := svc.GetListings(context.Background(), domain.SearchFilters{}).Total; got != 6 {
		t.Fatalf("unauthorized: expected sample catalog, got %d", got)
	}
}

func TestGetListings_PaginationFallbacks(t *testing.T) {
	// provider omits the envelope counters; the response is still well formed
	p := &fakeProvider{searchPage: domain.ProviderPage{
		Listings: []map[string]any{{"mlsNumber": "M-1"}},
	}}
	svc := listingsService(p, nil, true)

	resp := svc.GetListings(context.Background(), domain.SearchFilters{})
	if resp.Total != 1 || resp.Page != 1 || resp.Limit != domain.DefaultPageSize || resp.TotalPages != 1 {
		t.Fatalf("pagination fallbacks: %+v", resp)
	}
}

func TestGetListings_CacheShortCircuitsProvider(t *testing.T) {
	p := &fakeProvider{searchPage: domain.ProviderPage{
		Listings: []map[string]any{{"mlsNumber": "M-1", "lastStatus": "A"}},
	}}
	cache := newMemCache()
	svc := listingsService(p, cache, true)

	f := domain.SearchFilters{City: "Oakland"}
	first := svc.GetListings(context.Background(), f)
	second := svc.GetListings(context.Background(), f)

	if p.searchCalls != 1 {
		t.Fatalf("expected a single provider call, got %d", p.searchCalls)
	}
	if cache.sets != 1 || cache.hits != 1 {
		t.Fatalf("cache counters: sets=%d hits=%d", cache.sets, cache.hits)
	}
	if first.Total != second.Total || len(first.Properties) != len(second.Properties) {
		t.Fatalf("cached response diverged: %+v vs %+v", first, second)
	}

	// a different filter set misses the cache
	svc.GetListings(context.Background(), domain.SearchFilters{City: "Berkeley"})
	if p.searchCalls != 2 {
		t.Fatalf("distinct filters must not share a key, calls=%d", p.searchCalls)
	}
}

func TestGetListings_FallbacksAreNotCached(t *testing.T) {
	p := &fakeProvider{searchErr: errors.New("boom")}
	cache := newMemCache()
	svc := listingsService(p, cache, true)

	svc.GetListings(context.Background(), domain.SearchFilters{})
	if cache.sets != 0 {
		t.Fatalf("sample fallbacks must not be cached, sets=%d", cache.sets)
	}
}

func TestGetListingByID(t *testing.T) {
	p := &fakeProvider{getRaw: map[string]any{
		"mlsNumber": "M-9",
		"listPrice": float64(810000),
		"address":   map[string]any{"city": "Oakland"},
	}}
	svc := listingsService(p, nil, true)

	got := svc.GetListingByID(context.Background(), "M-9")
	if got == nil || got.ID != "M-9" || got.Price != 810000 {
		t.Fatalf("mapped detail: %+v", got)
	}

	p.getRaw, p.getErr = nil, domain.ErrNotFound
	if got := svc.GetListingByID(context.Background(), "sample-2"); got == nil || got.ID != "sample-2" {
		t.Fatalf("expected sample fallback, got %+v", got)
	}
	if got := svc.GetListingByID(context.Background(), "no-such-id"); got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestSimilarListings_ExcludesSubject(t *testing.T) {
	p := &fakeProvider{searchErr: domain.ErrNoAPIKey}
	svc := listingsService(p, nil, false)

	subject := sample.NewStore().GetByID("sample-1")
	if subject == nil {
		t.Fatal("fixture missing")
	}
	resp := svc.SimilarListings(context.Background(), *subject)

	if len(resp.Properties) > 4 {
		t.Fatalf("similar rail capped at 4, got %d", len(resp.Properties))
	}
	for _, cand := range resp.Properties {
		if cand.ID == subject.ID {
			t.Fatal("subject must be excluded from its own rail")
		}
		if cand.Status != domain.StatusActive {
			t.Fatalf("non-active candidate: %+v", cand)
		}
	}
}
