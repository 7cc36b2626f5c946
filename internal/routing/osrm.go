package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/openfreight/roadlog/internal/geo"
	"github.com/openfreight/roadlog/internal/metrics"
)

const (
	metersPerMile  = 1609.34
	secondsPerHour = 3600
)

// Config holds routing client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int
}

// Leg is a routed driving leg between two points.
type Leg struct {
	Miles float64
	Hours float64
}

// Client queries an OSRM-compatible routing endpoint for driving legs.
type Client struct {
	baseURL    string
	retries    int
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a routing client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("routing base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		retries:    cfg.Retries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "routing").Logger(),
	}, nil
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Route returns the driving distance and duration between two points.
func (c *Client) Route(ctx context.Context, from, to geo.Point) (Leg, error) {
	// OSRM takes lon,lat pairs.
	url := fmt.Sprintf("%s/%f,%f;%f,%f?overview=false",
		c.baseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			c.logger.Debug().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying routing request")
			select {
			case <-ctx.Done():
				return Leg{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		leg, err := c.tryRoute(ctx, url)
		if err == nil {
			return leg, nil
		}
		lastErr = err
		metrics.RoutingUpstreamErrors.WithLabelValues("request").Inc()
	}

	return Leg{}, fmt.Errorf("route %s -> %s: %w", from, to, lastErr)
}

func (c *Client) tryRoute(ctx context.Context, url string) (Leg, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Leg{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Leg{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Leg{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Leg{}, fmt.Errorf("decode response: %w", err)
	}
	if body.Code != "Ok" {
		return Leg{}, fmt.Errorf("routing engine returned %q", body.Code)
	}
	if len(body.Routes) == 0 {
		return Leg{}, fmt.Errorf("no route found")
	}

	return Leg{
		Miles: body.Routes[0].Distance / metersPerMile,
		Hours: body.Routes[0].Duration / secondsPerHour,
	}, nil
}
