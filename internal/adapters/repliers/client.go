package repliers

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"idx_pro/internal/adapters/observability"
	"idx_pro/internal/domain"
)

// Client talks to the Repliers listings provider. A missing API key is a
// supported condition: requests are still attempted and the provider's 401
// is surfaced as domain.ErrNoAPIKey so callers can fall back silently.
type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, key string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// searchEnvelope is the provider's listings-search response shape.
type searchEnvelope struct {
	Listings []map[string]any `json:"listings"`
	Count    int              `json:"count"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	NumPages int              `json:"numPages"`
}

func (c *Client) Search(ctx context.Context, f domain.SearchFilters) (domain.ProviderPage, error) {
	var env searchEnvelope
	if err := c.do(ctx, http.MethodPost, c.base+"/listings", searchBody(f), &env); err != nil {
		return domain.ProviderPage{}, err
	}
	return domain.ProviderPage{
		Listings: env.Listings,
		Count:    env.Count,
		Page:     env.Page,
		PageSize: env.PageSize,
		NumPages: env.NumPages,
	}, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	u := c.base + "/listings/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitInquiry(ctx context.Context, l domain.Lead) error {
	body := map[string]any{
		"name":    l.Name,
		"email":   l.Email,
		"phone":   l.Phone,
		"message": l.Message,
	}
	if l.PropertyID != "" {
		body["propertyId"] = l.PropertyID
	}
	if l.Type != "" {
		body["type"] = l.Type
	}
	return c.do(ctx, http.MethodPost, c.base+"/inquiries", body, nil)
}

// searchBody carries only the filter fields that are set; absent fields are
// never serialized.
func searchBody(f domain.SearchFilters) map[string]any {
	b := make(map[string]any, 12)
	if f.MinPrice != nil {
		b["minPrice"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		b["maxPrice"] = *f.MaxPrice
	}
	if f.Bedrooms != nil {
		b["bedrooms"] = *f.Bedrooms
	}
	if f.Bathrooms != nil {
		b["bathrooms"] = *f.Bathrooms
	}
	if f.MinSquareFeet != nil {
		b["minSquareFeet"] = *f.MinSquareFeet
	}
	if f.MaxSquareFeet != nil {
		b["maxSquareFeet"] = *f.MaxSquareFeet
	}
	if f.PropertyType != "" {
		b["propertyType"] = f.PropertyType
	}
	if f.City != "" {
		b["city"] = f.City
	}
	if f.State != "" {
		b["state"] = f.State
	}
	if f.Zip != "" {
		b["zip"] = f.Zip
	}
	if f.Status != "" {
		b["status"] = f.Status
	}
	if f.SortBy != "" {
		b["sortBy"] = f.SortBy
	}
	if f.Page > 0 {
		b["page"] = f.Page
	}
	if f.Limit > 0 {
		b["limit"] = f.Limit
	}
	return b
}

// do performs one logical request with client-side rate limiting and bounded
// retries. Only 429 and transient 5xx (plus transport errors) are retried;
// 401/404 return their sentinel immediately.
func (c *Client) do(ctx context.Context, method, u string, body any, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	endpoint := endpointLabel(u, c.base)
	start := time.Now()
	var lastErr error
	for i := 0; i < 4; i++ {
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rd)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.key != "" {
			req.Header.Set("REPLIERS-API-KEY", c.key)
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("repliers", endpoint, 0, time.Since(start))
			return fmt.Errorf("repliers %s: %w", endpoint, lastErr)
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			observability.ObserveExternal("repliers", endpoint, resp.StatusCode, time.Since(start))
			if out == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return nil
			}
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("repliers %s: decode: %w", endpoint, err)
			}
			return nil

		case http.StatusNoContent:
			observability.ObserveExternal("repliers", endpoint, resp.StatusCode, time.Since(start))
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusUnauthorized:
			observability.ObserveExternal("repliers", endpoint, resp.StatusCode, time.Since(start))
			resp.Body.Close()
			if c.key == "" {
				return domain.ErrNoAPIKey
			}
			return domain.ErrUnauthorized

		case http.StatusNotFound:
			observability.ObserveExternal("repliers", endpoint, resp.StatusCode, time.Since(start))
			resp.Body.Close()
			return domain.ErrNotFound

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("repliers %s: status %d", endpoint, resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("repliers", endpoint, resp.StatusCode, time.Since(start))
			return lastErr

		default:
			observability.ObserveExternal("repliers", endpoint, resp.StatusCode, time.Since(start))
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("repliers %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

func endpointLabel(u, base string) string {
	p := strings.TrimPrefix(u, base)
	// collapse /listings/{id} into one label so metrics cardinality stays flat
	if strings.HasPrefix(p, "/listings/") {
		return "/listings/{id}"
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles each attempt (200ms, 400ms, 800ms...) with up to +50%
// jitter from crypto/rand.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
