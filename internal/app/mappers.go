package app

import (
	"crypto/sha1"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"idx_pro/internal/canon"
	"idx_pro/internal/domain"
)

/********** alias registry (single source of truth) **********/

// Repliers nests most physical attributes under "details" and location under
// "address"/"map", but older payloads flatten everything to the root.
var listingAliases = map[string][]string{
	"mls":          {"mlsNumber", "mls_number", "listingId", "listing_id"},
	"streetNumber": {"address.streetNumber", "streetNumber"},
	"streetName":   {"address.streetName", "streetName", "address.street", "street"},
	"streetSuffix": {"address.streetSuffix", "streetSuffix"},
	"city":         {"address.city", "city"},
	"state":        {"address.state", "address.province", "state"},
	"zip":          {"address.zip", "address.postalCode", "zip", "postalCode"},
	"status":       {"lastStatus", "status"},
	"type":         {"details.propertyType", "propertyType", "type"},
	"description":  {"details.description", "description", "remarks"},
	"listingDate":  {"listDate", "listingDate", "listedAt"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// aliasStr: first non-empty string for a named alias set.
func aliasStr(m map[string]any, key string) string {
	for _, p := range listingAliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// floatAt coerces a number from several paths (float64/int/string),
// nil when nothing parses.
func floatAt(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// intAt is floatAt truncated to int.
func intAt(m map[string]any, paths ...string) *int {
	if f := floatAt(m, paths...); f != nil {
		n := int(*f)
		return &n
	}
	return nil
}

func intOrZero(m map[string]any, paths ...string) int {
	if n := intAt(m, paths...); n != nil && *n >= 0 {
		return *n
	}
	return 0
}

func floatOrZero(m map[string]any, paths ...string) float64 {
	if f := floatAt(m, paths...); f != nil && *f >= 0 {
		return *f
	}
	return 0
}

// optPos keeps only positive ints for optional physical attributes.
func optPos(m map[string]any, paths ...string) *int {
	if n := intAt(m, paths...); n != nil && *n > 0 {
		return n
	}
	return nil
}

/********** status mapping **********/

// Repliers reports status as a single-letter code.
func statusFromCode(code string) domain.Status {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "A":
		return domain.StatusActive
	case "P":
		return domain.StatusPending
	case "S":
		return domain.StatusSold
	default:
		return domain.StatusOffMarket
	}
}

/********** images **********/

// imagesAt accepts []any of bare URL strings or {url,thumbnail,caption}
// objects, drops empties, and normalizes every URL against the CDN base.
func imagesAt(cdnBase string, m map[string]any, paths ...string) []domain.Image {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]domain.Image, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, domain.Image{URL: canon.NormalizeImageURL(cdnBase, t)})
				}
			case map[string]any:
				u, _ := t["url"].(string)
				if u == "" {
					continue
				}
				img := domain.Image{URL: canon.NormalizeImageURL(cdnBase, u)}
				if th, _ := t["thumbnail"].(string); th != "" {
					img.Thumbnail = canon.NormalizeImageURL(cdnBase, th)
				}
				if c, _ := t["caption"].(string); c != "" {
					img.Caption = c
				}
				out = append(out, img)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

/********** extras **********/

// knownTopLevel is the set of provider keys the typed schema consumes;
// everything else is preserved in Extras.
var knownTopLevel = buildKnownTopLevel()

func buildKnownTopLevel() map[string]struct{} {
	set := map[string]struct{}{
		"listPrice": {}, "price": {}, "details": {}, "address": {}, "map": {},
		"images": {}, "photos": {}, "daysOnMarket": {}, "dom": {},
		"bedrooms": {}, "bathrooms": {}, "squareFeet": {}, "sqft": {},
		"yearBuilt": {}, "lotSize": {}, "garage": {}, "stories": {},
		"latitude": {}, "longitude": {}, "lat": {}, "lng": {},
	}
	for _, paths := range listingAliases {
		for _, p := range paths {
			top := p
			if i := strings.IndexByte(top, '.'); i >= 0 {
				top = top[:i]
			}
			set[top] = struct{}{}
		}
	}
	return set
}

/********** listing mapper **********/

// mapListing translates one raw provider listing into the canonical Property.
// Required numerics default to 0 on parse failure; optional fields stay nil.
func mapListing(cdnBase string, m map[string]any) domain.Property {
	p := domain.Property{
		MLSNumber:    aliasStr(m, "mls"),
		PropertyType: aliasStr(m, "type"),
		Description:  aliasStr(m, "description"),
		Status:       statusFromCode(aliasStr(m, "status")),
		Price:        intOrZero(m, "listPrice", "price"),
		Bedrooms:     intOrZero(m, "details.numBedrooms", "bedrooms"),
		Bathrooms:    floatOrZero(m, "details.numBathrooms", "bathrooms"),
		SquareFeet:   intOrZero(m, "details.sqft", "squareFeet", "sqft"),
		LotSize:      optPos(m, "lot.size", "lotSize"),
		YearBuilt:    optPos(m, "details.yearBuilt", "yearBuilt"),
		Garage:       optPos(m, "details.numGarageSpaces", "garage"),
		Stories:      optPos(m, "details.numStories", "stories"),
		ListingDate:  aliasStr(m, "listingDate"),
	}

	p.Address = domain.Address{
		Street: composeStreet(m),
		City:   aliasStr(m, "city"),
		State:  aliasStr(m, "state"),
		Zip:    aliasStr(m, "zip"),
	}

	p.ID = p.MLSNumber
	if p.ID == "" {
		p.ID = derivedID(p)
	}

	if lat := floatAt(m, "map.latitude", "latitude", "lat"); lat != nil {
		if lng := floatAt(m, "map.longitude", "longitude", "lng"); lng != nil {
			p.Coordinates = &domain.Coordinates{Lat: *lat, Lng: *lng}
		}
	}

	if p.Price > 0 && p.SquareFeet > 0 {
		ppsf := int(math.Round(float64(p.Price) / float64(p.SquareFeet)))
		p.PricePerSquareFoot = &ppsf
	}

	if dom := intAt(m, "daysOnMarket", "dom"); dom != nil && *dom >= 0 {
		p.DaysOnMarket = dom
	} else if d := daysSince(p.ListingDate); d != nil {
		p.DaysOnMarket = d
	}

	p.Images = imagesAt(cdnBase, m, "images", "photos")

	extras := make(map[string]any)
	for k, v := range m {
		if _, ok := knownTopLevel[k]; ok {
			continue
		}
		extras[k] = v
	}
	if len(extras) > 0 {
		p.Extras = extras
	}

	return p
}

// composeStreet joins discrete street-number/name/suffix fields; a bare
// street-name alias is the fallback.
func composeStreet(m map[string]any) string {
	num := aliasStr(m, "streetNumber")
	name := aliasStr(m, "streetName")
	suffix := aliasStr(m, "streetSuffix")
	if num != "" || suffix != "" {
		parts := make([]string, 0, 3)
		for _, s := range []string{num, name, suffix} {
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return name
}

// derivedID synthesizes a stable identifier for listings without an MLS
// number, hashed from the fields least likely to change.
func derivedID(p domain.Property) string {
	sig := strings.Join([]string{
		p.Address.Street, p.Address.City, p.Address.Zip, strconv.Itoa(p.Price),
	}, "|")
	sum := sha1.Sum([]byte(sig))
	return "listing-" + hex.EncodeToString(sum[:6])
}

// daysSince derives days-on-market from the listing date when the provider
// omits it. Dates arrive as YYYY-MM-DD or RFC3339.
func daysSince(date string) *int {
	if date == "" {
		return nil
	}
	if len(date) > 10 {
		date = date[:10]
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}
	d := int(time.Since(t).Hours() / 24)
	if d < 0 {
		return nil
	}
	return &d
}
