// Package sample serves a fixed in-memory catalog as the offline substitute
// for the listings provider, with the same filter semantics.
package sample

import (
	"strings"

	"idx_pro/internal/domain"
)

func ip(n int) *int { return &n }

func coords(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}

func imgs(urls ...string) []domain.Image {
	out := make([]domain.Image, 0, len(urls))
	for _, u := range urls {
		out = append(out, domain.Image{URL: u})
	}
	return out
}

// catalog is constant for the process lifetime; nothing mutates it.
var catalog = []domain.Property{
	{
		ID:        "sample-1",
		MLSNumber: "MLS-2024-001",
		Address: domain.Address{
			Street: "1234 Oak Street", City: "San Francisco", State: "CA", Zip: "94102",
			FullAddress: "1234 Oak Street, San Francisco, CA 94102",
		},
		Price: 1250000, Bedrooms: 3, Bathrooms: 2.5, SquareFeet: 2400,
		LotSize: ip(5000), YearBuilt: ip(2015),
		PropertyType: "Single Family", Status: domain.StatusActive,
		Description: "Beautiful modern home in the heart of San Francisco. This stunning property features an open floor plan, updated kitchen with granite countertops, and a spacious master suite. The home includes a private backyard perfect for entertaining. Located in a desirable neighborhood with excellent schools nearby.",
		Images: imgs(
			"https://images.unsplash.com/photo-1568605114967-8130f3a36994?w=1200&h=800&fit=crop",
			"https://images.unsplash.com/photo-1564013799919-ab600027ffc6?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1484154218962-a197022b5858?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1522771739844-6a9f6d5f14af?w=800&h=600&fit=crop",
		),
		Coordinates: coords(37.7749, -122.4194),
		ListingDate: "2024-01-15", DaysOnMarket: ip(12), PricePerSquareFoot: ip(521),
		Garage: ip(2), Stories: ip(2),
	},
	{
		ID:        "sample-2",
		MLSNumber: "MLS-2024-002",
		Address: domain.Address{
			Street: "5678 Maple Avenue", City: "Los Angeles", State: "CA", Zip: "90028",
			FullAddress: "5678 Maple Avenue, Los Angeles, CA 90028",
		},
		Price: 895000, Bedrooms: 2, Bathrooms: 2, SquareFeet: 1800,
		LotSize: ip(3500), YearBuilt: ip(2018),
		PropertyType: "Condo", Status: domain.StatusActive,
		Description: "Stylish contemporary condo with city views. Features include hardwood floors, updated appliances, and a private balcony. Building amenities include a fitness center, pool, and 24-hour security. Perfect for professionals or first-time buyers.",
		Images: imgs(
			"https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?w=1200&h=800&fit=crop",
			"https://images.unsplash.com/photo-1484154218962-a197022b5858?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?w=800&h=600&fit=crop",
		),
		Coordinates: coords(34.0522, -118.2437),
		ListingDate: "2024-01-20", DaysOnMarket: ip(8), PricePerSquareFoot: ip(497),
		Garage: ip(1), Stories: ip(1),
	},
	{
		ID:        "sample-3",
		MLSNumber: "MLS-2024-003",
		Address: domain.Address{
			Street: "9012 Pine Drive", City: "San Diego", State: "CA", Zip: "92101",
			FullAddress: "9012 Pine Drive, San Diego, CA 92101",
		},
		Price: 1650000, Bedrooms: 4, Bathrooms: 3, SquareFeet: 3200,
		LotSize: ip(8000), YearBuilt: ip(2020),
		PropertyType: "Single Family", Status: domain.StatusActive,
		Description: "Luxury home with ocean views. This stunning property features a chef's kitchen, wine cellar, and infinity pool. The master suite includes a spa-like bathroom and walk-in closet. Smart home technology throughout. Located in an exclusive gated community.",
		Images: imgs(
			"https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?w=1200&h=800&fit=crop",
			"https://images.unsplash.com/photo-1600585154340-be6161a56a0c?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1600607687644-c7171b42498b?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1600566753190-17f0baa2a6c3?w=800&h=600&fit=crop",
		),
		Coordinates: coords(32.7157, -117.1611),
		ListingDate: "2024-01-10", DaysOnMarket: ip(18), PricePerSquareFoot: ip(516),
		Garage: ip(3), Stories: ip(2),
	},
	{
		ID:        "sample-4",
		MLSNumber: "MLS-2024-004",
		Address: domain.Address{
			Street: "3456 Elm Court", City: "San Francisco", State: "CA", Zip: "94110",
			FullAddress: "3456 Elm Court, San Francisco, CA 94110",
		},
		Price: 750000, Bedrooms: 2, Bathrooms: 1.5, SquareFeet: 1500,
		LotSize: ip(2500), YearBuilt: ip(2012),
		PropertyType: "Townhouse", Status: domain.StatusPending,
		Description: "Charming townhouse in a quiet neighborhood. Recently renovated with new flooring, paint, and fixtures. Features a private patio and attached garage. Close to parks, shopping, and public transportation.",
		Images: imgs(
			"https://images.unsplash.com/photo-1600047509807-ba8f99d2cdde?w=1200&h=800&fit=crop",
			"https://images.unsplash.com/photo-1600585154340-be6161a56a0c?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?w=800&h=600&fit=crop",
		),
		Coordinates: coords(37.7749, -122.4194),
		ListingDate: "2024-01-05", DaysOnMarket: ip(25), PricePerSquareFoot: ip(500),
		Garage: ip(1), Stories: ip(2),
	},
	{
		ID:        "sample-5",
		MLSNumber: "MLS-2024-005",
		Address: domain.Address{
			Street: "7890 Cedar Lane", City: "Oakland", State: "CA", Zip: "94601",
			FullAddress: "7890 Cedar Lane, Oakland, CA 94601",
		},
		Price: 650000, Bedrooms: 3, Bathrooms: 2, SquareFeet: 2000,
		LotSize: ip(4000), YearBuilt: ip(2010),
		PropertyType: "Single Family", Status: domain.StatusActive,
		Description: "Spacious family home with a large backyard. Features include a modern kitchen, formal dining room, and family room with fireplace. The property includes a detached garage and workshop. Great for families looking for space and privacy.",
		Images: imgs(
			"https://images.unsplash.com/photo-1600047509358-9dc75507daeb?w=1200&h=800&fit=crop",
			"https://images.unsplash.com/photo-1600566753190-17f0baa2a6c3?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1600607687644-c7171b42498b?w=800&h=600&fit=crop",
		),
		Coordinates: coords(37.8044, -122.2711),
		ListingDate: "2024-01-18", DaysOnMarket: ip(10), PricePerSquareFoot: ip(325),
		Garage: ip(2), Stories: ip(1),
	},
	{
		ID:        "sample-6",
		MLSNumber: "MLS-2024-006",
		Address: domain.Address{
			Street: "2345 Birch Boulevard", City: "San Jose", State: "CA", Zip: "95110",
			FullAddress: "2345 Birch Boulevard, San Jose, CA 95110",
		},
		Price: 1100000, Bedrooms: 4, Bathrooms: 3.5, SquareFeet: 2800,
		LotSize: ip(6000), YearBuilt: ip(2019),
		PropertyType: "Single Family", Status: domain.StatusActive,
		Description: "Modern home in tech hub area. Features include smart home automation, solar panels, and energy-efficient design. Open concept living with high ceilings and natural light. Backyard includes built-in BBQ and fire pit area.",
		Images: imgs(
			"https://images.unsplash.com/photo-1600585154526-990dced4db0d?w=1200&h=800&fit=crop",
			"https://images.unsplash.com/photo-1600047509807-ba8f99d2cdde?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1600566753190-17f0baa2a6c3?w=800&h=600&fit=crop",
			"https://images.unsplash.com/photo-1600607687644-c7171b42498b?w=800&h=600&fit=crop",
		),
		Coordinates: coords(37.3382, -121.8863),
		ListingDate: "2024-01-12", DaysOnMarket: ip(15), PricePerSquareFoot: ip(393),
		Garage: ip(2), Stories: ip(2),
	},
}

type Store struct{}

func NewStore() *Store { return &Store{} }

// Search applies every supplied predicate over the catalog (AND semantics),
// then paginates. SortBy is accepted but not applied here: ordering is
// delegated to the live provider, so results keep insertion order.
func (s *Store) Search(f domain.SearchFilters) domain.SearchResponse {
	filtered := make([]domain.Property, 0, len(catalog))
	for _, p := range catalog {
		if matches(p, f) {
			filtered = append(filtered, p)
		}
	}

	page := f.PageOrDefault()
	limit := f.LimitOrDefault()
	start := (page - 1) * limit
	end := start + limit
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	paged := make([]domain.Property, end-start)
	copy(paged, filtered[start:end])

	totalPages := 0
	if len(filtered) > 0 {
		totalPages = (len(filtered) + limit - 1) / limit
	}
	return domain.SearchResponse{
		Properties: paged,
		Total:      len(filtered),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// GetByID does a linear search; nil when absent.
func (s *Store) GetByID(id string) *domain.Property {
	for _, p := range catalog {
		if p.ID == id {
			cp := p
			return &cp
		}
	}
	return nil
}

func matches(p domain.Property, f domain.SearchFilters) bool {
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Bedrooms != nil && p.Bedrooms < *f.Bedrooms {
		return false
	}
	if f.Bathrooms != nil && p.Bathrooms < *f.Bathrooms {
		return false
	}
	if f.MinSquareFeet != nil && p.SquareFeet < *f.MinSquareFeet {
		return false
	}
	if f.MaxSquareFeet != nil && p.SquareFeet > *f.MaxSquareFeet {
		return false
	}
	if f.PropertyType != "" && !containsFold(p.PropertyType, f.PropertyType) {
		return false
	}
	if f.City != "" && !containsFold(p.Address.City, f.City) {
		return false
	}
	if f.State != "" && !strings.EqualFold(p.Address.State, f.State) {
		return false
	}
	if f.Zip != "" && p.Address.Zip != f.Zip {
		return false
	}
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
