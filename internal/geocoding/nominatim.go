package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/paulmach/orb"
)

const (
	DefaultURL       = "https://nominatim.openstreetmap.org/search"
	DefaultUserAgent = "LADistricts/1.0" // Required by Nominatim ToS
)

// Options configures a Nominatim client. Zero values take defaults.
type Options struct {
	BaseURL     string
	UserAgent   string
	Limit       int
	MinInterval time.Duration // Minimum gap between requests, 1s by default; negative disables
	Timeout     time.Duration
	CacheTTL    time.Duration
}

// Nominatim is a rate limited, caching client for the OpenStreetMap
// Nominatim search API
type Nominatim struct {
	baseURL     string
	userAgent   string
	limit       int
	minInterval time.Duration
	httpClient  *http.Client
	cache       *gocache.Cache

	mu       sync.Mutex
	lastCall time.Time
}

// NewNominatim creates a client
func NewNominatim(opts Options) *Nominatim {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	if opts.MinInterval == 0 {
		opts.MinInterval = time.Second
	}
	if opts.MinInterval < 0 {
		opts.MinInterval = 0
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}

	return &Nominatim{
		baseURL:     opts.BaseURL,
		userAgent:   opts.UserAgent,
		limit:       opts.Limit,
		minInterval: opts.MinInterval,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		cache: gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
	}
}

// nominatimResponse represents one entry of the Nominatim API response
type nominatimResponse struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

// Search geocodes a free-text address
func (g *Nominatim) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	key := strings.ToLower(query)
	if cached, ok := g.cache.Get(key); ok {
		results := cached.([]Result)
		slog.Debug("geocode cache hit", "query", query, "results", len(results))
		if len(results) == 0 {
			return nil, ErrNoResults
		}
		return results, nil
	}

	params := url.Values{}
	params.Add("format", "json")
	params.Add("q", query)
	params.Add("limit", strconv.Itoa(g.limit))
	params.Add("countrycodes", "us")
	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())

	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	slog.Info("geocoding", "query", query)
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim API returned status %d", resp.StatusCode)
	}

	var raw []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			slog.Warn("skipping result with bad latitude", "lat", r.Lat, "err", err)
			continue
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			slog.Warn("skipping result with bad longitude", "lon", r.Lon, "err", err)
			continue
		}
		results = append(results, Result{
			Point:       orb.Point{lon, lat},
			DisplayName: r.DisplayName,
			Importance:  r.Importance,
		})
	}

	g.cache.Set(key, results, gocache.DefaultExpiration)
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}

// wait blocks until the next request slot. Nominatim allows 1 req/sec.
// A canceled wait gives its slot back unless a later caller queued behind it.
func (g *Nominatim) wait(ctx context.Context) error {
	g.mu.Lock()
	prev := g.lastCall
	slot := time.Now()
	if !prev.IsZero() {
		if next := prev.Add(g.minInterval); next.After(slot) {
			slot = next
		}
	}
	g.lastCall = slot
	g.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		if g.lastCall.Equal(slot) {
			g.lastCall = prev
		}
		g.mu.Unlock()
		return ctx.Err()
	}
}
