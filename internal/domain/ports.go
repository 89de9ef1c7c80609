package domain

import (
	"context"
	"time"
)

// ProviderPage is one page of raw provider listings plus the pagination
// metadata the provider reported. Listings stay untyped here; the app layer
// owns the translation into Property.
type ProviderPage struct {
	Listings []map[string]any
	Count    int
	Page     int
	PageSize int
	NumPages int
}

type ListingsProvider interface {
	Search(ctx context.Context, f SearchFilters) (ProviderPage, error)
	GetByID(ctx context.Context, id string) (map[string]any, error)
	SubmitInquiry(ctx context.Context, l Lead) error
}

// ListingStore is the offline substitute for the provider: constant
// in-memory data with the same filter semantics, so no context is needed.
type ListingStore interface {
	Search(f SearchFilters) SearchResponse
	GetByID(id string) *Property
}

type LeadRepository interface {
	SaveLead(ctx context.Context, l Lead) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
