package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/openfreight/roadlog/internal/geo"
	"github.com/openfreight/roadlog/internal/metrics"
)

// Config holds geocoding client settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Retries   int
	CacheSize int
}

// Client resolves place names against a Nominatim-compatible endpoint.
// Results are kept in an LRU cache; the public Nominatim instance rate
// limits aggressively and the same trip endpoints repeat constantly.
type Client struct {
	baseURL    string
	userAgent  string
	retries    int
	httpClient *http.Client
	lookups    *lru.Cache[string, geo.Point]
	reverses   *lru.Cache[string, string]
	logger     zerolog.Logger
}

// New creates a geocoding client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("geocoding base URL is required")
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 512
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	lookups, err := lru.New[string, geo.Point](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}
	reverses, err := lru.New[string, string](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create reverse cache: %w", err)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		retries:    cfg.Retries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		lookups:    lookups,
		reverses:   reverses,
		logger:     logger.With().Str("component", "geocode").Logger(),
	}, nil
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type reverseResult struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// Lookup resolves a free-text place name to coordinates.
func (c *Client) Lookup(ctx context.Context, query string) (geo.Point, error) {
	if pt, ok := c.lookups.Get(query); ok {
		metrics.GeocodeCacheHits.Inc()
		return pt, nil
	}
	metrics.GeocodeCacheMisses.Inc()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	var results []searchResult
	if err := c.getJSON(ctx, c.baseURL+"/search?"+params.Encode(), &results); err != nil {
		return geo.Point{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(results) == 0 {
		return geo.Point{}, fmt.Errorf("geocode %q: no results", query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocode %q: bad latitude %q", query, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocode %q: bad longitude %q", query, results[0].Lon)
	}

	pt := geo.Point{Lat: lat, Lon: lon}
	c.lookups.Add(query, pt)
	return pt, nil
}

// ReverseName returns a human-readable name for a point, "near <city>" when
// a city, town, or village is known, otherwise a coordinate fallback. It
// never fails: stop descriptions are decoration, not data.
func (c *Client) ReverseName(ctx context.Context, pt geo.Point) string {
	key := pt.String()
	if name, ok := c.reverses.Get(key); ok {
		metrics.GeocodeCacheHits.Inc()
		return name
	}
	metrics.GeocodeCacheMisses.Inc()

	fallback := fmt.Sprintf("at coordinates %s", key)

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(pt.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(pt.Lon, 'f', -1, 64))
	params.Set("format", "json")

	var result reverseResult
	if err := c.getJSON(ctx, c.baseURL+"/reverse?"+params.Encode(), &result); err != nil {
		c.logger.Warn().Err(err).Str("point", key).Msg("Reverse geocode failed, using coordinate fallback")
		return fallback
	}

	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	if city == "" {
		city = result.Address.Village
	}
	if city == "" {
		return fallback
	}

	name := "near " + city
	c.reverses.Add(key, name)
	return name
}

// getJSON issues a GET with retry and exponential backoff (1s, 2s, 4s...)
// and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			c.logger.Debug().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying geocode request")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = c.tryGetJSON(ctx, rawURL, out)
		if lastErr == nil {
			return nil
		}
		metrics.GeocodeUpstreamErrors.WithLabelValues("request").Inc()
	}

	return lastErr
}

func (c *Client) tryGetJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
