// Package canon holds pure display canonicalization helpers shared by the
// API layer and the listing mappers.
package canon

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"idx_pro/internal/domain"
)

// PlaceholderImageURL is served whenever a listing carries no usable photo.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1568605114967-8130f3a36994?w=1200&h=800&fit=crop"

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders whole-dollar USD, en-US grouping, no cents:
// 1250000 -> "$1,250,000".
func FormatPrice(n int) string {
	return usd.Sprintf("$%d", n)
}

// FormatAddress prefers a precomposed full address; otherwise composes
// "{street}, {city}, {state} {zip}".
func FormatAddress(a domain.Address) string {
	if a.FullAddress != "" {
		return a.FullAddress
	}
	return a.Street + ", " + a.City + ", " + a.State + " " + a.Zip
}

// NormalizeImageURL resolves a provider image reference to an absolute URL.
// Empty input gets the placeholder; absolute URLs pass through; anything else
// is treated as a CDN-relative path.
func NormalizeImageURL(cdnBase, u string) string {
	if u == "" {
		return PlaceholderImageURL
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return strings.TrimRight(cdnBase, "/") + "/" + strings.TrimPrefix(u, "/")
}
