package routing

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openfreight/roadlog/internal/geo"
)

func testClient(t *testing.T, retries int, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{
		BaseURL: srv.URL,
		Retries: retries,
	}, zerolog.New(nil).Level(zerolog.Disabled))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestRoute(t *testing.T) {
	client := testClient(t, 0, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// OSRM coordinate order is lon,lat
		if !strings.Contains(r.URL.Path, "-87.629800,41.878100;-104.990300,39.739200") {
			t.Errorf("Unexpected coordinate path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"code": "Ok", "routes": [{"distance": 1609340, "duration": 72000}]}`)
	}))

	leg, err := client.Route(context.Background(),
		geo.Point{Lat: 41.8781, Lon: -87.6298},
		geo.Point{Lat: 39.7392, Lon: -104.9903})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}

	if math.Abs(leg.Miles-1000) > 0.001 {
		t.Errorf("Expected 1000 miles, got %f", leg.Miles)
	}
	if math.Abs(leg.Hours-20) > 0.001 {
		t.Errorf("Expected 20 hours, got %f", leg.Hours)
	}
}

func TestRoute_EngineError(t *testing.T) {
	client := testClient(t, 0, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": "NoRoute", "routes": []}`)
	}))

	_, err := client.Route(context.Background(), geo.Point{Lat: 1}, geo.Point{Lat: 2})
	if err == nil {
		t.Fatal("Expected error for NoRoute code")
	}
	if !strings.Contains(err.Error(), "NoRoute") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestRoute_EmptyRoutes(t *testing.T) {
	client := testClient(t, 0, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": "Ok", "routes": []}`)
	}))

	_, err := client.Route(context.Background(), geo.Point{Lat: 1}, geo.Point{Lat: 2})
	if err == nil {
		t.Fatal("Expected error for empty routes")
	}
}

func TestRoute_RetriesAfterFailure(t *testing.T) {
	var requests int
	client := testClient(t, 1, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"code": "Ok", "routes": [{"distance": 160934, "duration": 7200}]}`)
	}))

	leg, err := client.Route(context.Background(), geo.Point{Lat: 1}, geo.Point{Lat: 2})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if requests != 2 {
		t.Errorf("Expected 2 requests, got %d", requests)
	}
	if math.Abs(leg.Miles-100) > 0.001 {
		t.Errorf("Expected 100 miles, got %f", leg.Miles)
	}
}

func TestRoute_ContextCancelled(t *testing.T) {
	client := testClient(t, 3, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Route(ctx, geo.Point{Lat: 1}, geo.Point{Lat: 2})
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}
