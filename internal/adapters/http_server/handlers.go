package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"idx_pro/internal/app"
	"idx_pro/internal/domain"
)

type Handlers struct {
	Listings *app.ListingService
	Samples  domain.ListingStore
	Leads    *app.LeadService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/api/repliers", h.repliers)
	s.mux.Get("/api/sample-data", h.sampleData)
	s.mux.Post("/api/contact", h.contact)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached emits v with a weak ETag, short-circuiting to 304 when the
// client already holds the current version.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// parseFilters maps query params onto SearchFilters, skipping anything that
// does not parse; absence means "no constraint".
func parseFilters(q url.Values) domain.SearchFilters {
	var f domain.SearchFilters

	intp := func(key string) *int {
		if v := q.Get(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return &n
			}
		}
		return nil
	}

	f.MinPrice = intp("minPrice")
	f.MaxPrice = intp("maxPrice")
	f.Bedrooms = intp("bedrooms")
	f.MinSquareFeet = intp("minSquareFeet")
	f.MaxSquareFeet = intp("maxSquareFeet")
	if v := q.Get("bathrooms"); v != "" {
		if b, err := strconv.ParseFloat(v, 64); err == nil {
			f.Bathrooms = &b
		}
	}
	f.PropertyType = q.Get("propertyType")
	f.City = q.Get("city")
	f.State = q.Get("state")
	f.Zip = q.Get("zip")
	f.Status = q.Get("status")
	f.SortBy = q.Get("sortBy")
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		f.Limit = n
	}
	return f
}

// repliers proxies the listings provider (with sample fallback) so the API
// key never reaches the page layer.
func (h *Handlers) repliers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	action := q.Get("action")
	id := q.Get("id")

	switch {
	case action == "listing" && id != "":
		p := h.Listings.GetListingByID(r.Context(), id)
		if p == nil {
			writeProblem(w, http.StatusNotFound, "Not Found", "listing not found")
			return
		}
		writeCached(w, r, p)

	case action == "similar" && id != "":
		p := h.Listings.GetListingByID(r.Context(), id)
		if p == nil {
			writeProblem(w, http.StatusNotFound, "Not Found", "listing not found")
			return
		}
		writeCached(w, r, h.Listings.SimilarListings(r.Context(), *p))

	case action == "listings":
		writeCached(w, r, h.Listings.GetListings(r.Context(), parseFilters(q)))

	default:
		writeProblem(w, http.StatusBadRequest, "Invalid action", `action must be "listings", "listing" or "similar"`)
	}
}

// sampleData serves the static catalog directly, bypassing the provider.
// An empty action defaults to a listings search.
func (h *Handlers) sampleData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	action := q.Get("action")
	id := q.Get("id")

	switch {
	case action == "listing" && id != "":
		p := h.Samples.GetByID(id)
		if p == nil {
			writeProblem(w, http.StatusNotFound, "Not Found", "listing not found")
			return
		}
		writeCached(w, r, p)

	case action == "listings" || action == "":
		writeCached(w, r, h.Samples.Search(parseFilters(q)))

	default:
		writeProblem(w, http.StatusBadRequest, "Invalid action", `use "listings" or "listing?id=..."`)
	}
}

type contactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handlers) contact(w http.ResponseWriter, r *http.Request) {
	var lead domain.Lead
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&lead); err != nil {
		writeJSON(w, http.StatusBadRequest, contactResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if _, err := h.Leads.Submit(r.Context(), lead); err != nil {
		if errors.Is(err, app.ErrInvalidLead) {
			writeJSON(w, http.StatusBadRequest, contactResponse{Success: false, Message: "All fields are required"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, contactResponse{Success: false, Message: "Failed to process your request"})
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{
		Success: true,
		Message: "Thank you for your inquiry. We'll be in touch soon!",
	})
}
