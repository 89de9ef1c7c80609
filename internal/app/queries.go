package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"idx_pro/internal/adapters/observability"
	"idx_pro/internal/domain"
)

// ListingService is the single query entry point. It shields callers from
// the provider-vs-fallback branching: remote first, sample data on failure,
// never an error out of the public methods.
type ListingService struct {
	provider domain.ListingsProvider
	samples  domain.ListingStore
	cache    domain.Cache // nil disables caching
	cacheTTL time.Duration
	cdnBase  string
	keySet   bool
}

func NewListingService(
	provider domain.ListingsProvider,
	samples domain.ListingStore,
	cache domain.Cache,
	cacheTTL time.Duration,
	cdnBase string,
	keyConfigured bool,
) *ListingService {
	return &ListingService{
		provider: provider,
		samples:  samples,
		cache:    cache,
		cacheTTL: cacheTTL,
		cdnBase:  cdnBase,
		keySet:   keyConfigured,
	}
}

// GetListings is total: the worst case is an empty well-formed response.
//
// Branches, in order:
//  1. provider success -> mapped provider result
//  2. unauthorized with no key configured -> sample data, silently
//  3. any other provider failure -> sample data, logged (only when a key is
//     configured, so local development stays quiet)
func (s *ListingService) GetListings(ctx context.Context, f domain.SearchFilters) domain.SearchResponse {
	key := searchKey(f)
	if s.cache != nil {
		var cached domain.SearchResponse
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached
		}
	}

	page, err := s.provider.Search(ctx, f)
	if err != nil {
		if errors.Is(err, domain.ErrNoAPIKey) {
			observability.ObserveFallback("listings", "no_key")
			return s.samples.Search(f)
		}
		if s.keySet {
			log.Error().Err(err).Msg("provider search failed, serving sample data")
		}
		observability.ObserveFallback("listings", "provider_error")
		return s.samples.Search(f)
	}

	resp := s.buildResponse(page, f)
	if s.cache != nil {
		// cached values are JSON round-trips, so callers never alias them
		_ = s.cache.Set(ctx, key, resp, s.cacheTTL)
	}
	return resp
}

// GetListingByID returns nil on every failure: not found, network error,
// auth error. The sample catalog is consulted when the provider fails.
func (s *ListingService) GetListingByID(ctx context.Context, id string) *domain.Property {
	raw, err := s.provider.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNoAPIKey) && !errors.Is(err, domain.ErrNotFound) && s.keySet {
			log.Error().Err(err).Str("id", id).Msg("provider lookup failed, trying sample data")
		}
		return s.samples.GetByID(id)
	}
	p := mapListing(s.cdnBase, raw)
	return &p
}

// SimilarListings serves the detail page's "similar properties" rail:
// active listings in the same city, capped at four, the subject excluded.
func (s *ListingService) SimilarListings(ctx context.Context, p domain.Property) domain.SearchResponse {
	const maxSimilar = 4
	resp := s.GetListings(ctx, domain.SearchFilters{
		City:   p.Address.City,
		Status: string(domain.StatusActive),
		Limit:  maxSimilar,
	})

	similar := make([]domain.Property, 0, maxSimilar)
	for _, cand := range resp.Properties {
		if cand.ID == p.ID {
			continue
		}
		similar = append(similar, cand)
		if len(similar) == maxSimilar {
			break
		}
	}
	return domain.SearchResponse{
		Properties: similar,
		Total:      len(similar),
		Page:       1,
		Limit:      maxSimilar,
		TotalPages: ceilDiv(len(similar), maxSimilar),
	}
}

// buildResponse maps raw listings and fills pagination from the provider,
// falling back to the requested page and default limit when it omits them.
func (s *ListingService) buildResponse(page domain.ProviderPage, f domain.SearchFilters) domain.SearchResponse {
	props := make([]domain.Property, 0, len(page.Listings))
	for _, raw := range page.Listings {
		props = append(props, mapListing(s.cdnBase, raw))
	}

	total := page.Count
	if total == 0 {
		total = len(props)
	}
	pg := page.Page
	if pg == 0 {
		pg = f.PageOrDefault()
	}
	limit := page.PageSize
	if limit == 0 {
		limit = f.LimitOrDefault()
	}
	numPages := page.NumPages
	if numPages == 0 {
		numPages = ceilDiv(total, limit)
	}

	return domain.SearchResponse{
		Properties: props,
		Total:      total,
		Page:       pg,
		Limit:      limit,
		TotalPages: numPages,
	}
}

func ceilDiv(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// searchKey hashes the full filter set into a stable cache key.
func searchKey(f domain.SearchFilters) string {
	b, _ := json.Marshal(f)
	sum := sha1.Sum(b)
	return "listings:" + hex.EncodeToString(sum[:])
}
