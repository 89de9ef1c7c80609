package domain

// Status is the canonical listing status. Provider-specific codes are mapped
// into one of these four values before a Property leaves the app layer.
type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
	StatusOffMarket Status = "off_market"
)

type Address struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	FullAddress string `json:"fullAddress,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Image struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Caption   string `json:"caption,omitempty"`
}

// Property is the canonical listing record. Price, Bedrooms, Bathrooms and
// SquareFeet are always present and non-negative; every other field is
// optional and must be defaulted by consumers. Extras holds provider fields
// that have no typed home here.
type Property struct {
	ID                 string         `json:"id"`
	MLSNumber          string         `json:"mlsNumber"`
	Address            Address        `json:"address"`
	Price              int            `json:"price"`
	Bedrooms           int            `json:"bedrooms"`
	Bathrooms          float64        `json:"bathrooms"`
	SquareFeet         int            `json:"squareFeet"`
	LotSize            *int           `json:"lotSize,omitempty"`
	YearBuilt          *int           `json:"yearBuilt,omitempty"`
	PropertyType       string         `json:"propertyType"`
	Status             Status         `json:"status"`
	Description        string         `json:"description"`
	Images             []Image        `json:"images"`
	Coordinates        *Coordinates   `json:"coordinates,omitempty"`
	ListingDate        string         `json:"listingDate,omitempty"`
	DaysOnMarket       *int           `json:"daysOnMarket,omitempty"`
	PricePerSquareFoot *int           `json:"pricePerSquareFoot,omitempty"`
	Garage             *int           `json:"garage,omitempty"`
	Stories            *int           `json:"stories,omitempty"`
	Extras             map[string]any `json:"extras,omitempty"`
}

// SearchFilters is a flat bag of optional predicates plus pagination.
// Nil pointers and empty strings mean "no constraint". Bedrooms/Bathrooms
// are minimums; price and square-footage bounds are inclusive.
type SearchFilters struct {
	MinPrice      *int
	MaxPrice      *int
	Bedrooms      *int
	Bathrooms     *float64
	MinSquareFeet *int
	MaxSquareFeet *int
	PropertyType  string
	City          string
	State         string
	Zip           string
	Status        string
	SortBy        string // price_asc|price_desc|date_desc|square_feet_desc, applied provider-side
	Page          int    // 1-based
	Limit         int
}

const DefaultPageSize = 20

// PageOrDefault returns the 1-based page, defaulting to 1.
func (f SearchFilters) PageOrDefault() int {
	if f.Page > 0 {
		return f.Page
	}
	return 1
}

// LimitOrDefault returns the page size, defaulting to DefaultPageSize.
func (f SearchFilters) LimitOrDefault() int {
	if f.Limit > 0 {
		return f.Limit
	}
	return DefaultPageSize
}

type SearchResponse struct {
	Properties []Property `json:"properties"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

// EmptyResponse is the well-formed zero result the façade returns when both
// the provider and the fallback yield nothing.
func EmptyResponse(f SearchFilters) SearchResponse {
	return SearchResponse{
		Properties: []Property{},
		Total:      0,
		Page:       f.PageOrDefault(),
		Limit:      f.LimitOrDefault(),
		TotalPages: 0,
	}
}
