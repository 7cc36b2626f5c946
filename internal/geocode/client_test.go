package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openfreight/roadlog/internal/geo"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{
		BaseURL:   srv.URL,
		UserAgent: "roadlog-test",
		CacheSize: 16,
	}, zerolog.New(nil).Level(zerolog.Disabled))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client, srv
}

func TestLookup(t *testing.T) {
	var requests int
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if !strings.HasPrefix(r.URL.Path, "/search") {
			t.Errorf("Expected /search path, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Chicago, IL" {
			t.Errorf("Expected query Chicago, IL, got %s", got)
		}
		if got := r.Header.Get("User-Agent"); got != "roadlog-test" {
			t.Errorf("Expected roadlog-test user agent, got %s", got)
		}
		fmt.Fprint(w, `[{"lat": "41.8781", "lon": "-87.6298"}]`)
	}))

	pt, err := client.Lookup(context.Background(), "Chicago, IL")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if pt.Lat != 41.8781 || pt.Lon != -87.6298 {
		t.Errorf("Unexpected point: %+v", pt)
	}

	// Second lookup should be served from cache
	if _, err := client.Lookup(context.Background(), "Chicago, IL"); err != nil {
		t.Fatalf("Cached lookup failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}
}

func TestLookup_NoResults(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))

	_, err := client.Lookup(context.Background(), "Nowhere")
	if err == nil {
		t.Fatal("Expected error for empty results")
	}
	if !strings.Contains(err.Error(), "no results") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLookup_BadCoordinates(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"lat": "not-a-number", "lon": "-87.6298"}]`)
	}))

	if _, err := client.Lookup(context.Background(), "Chicago, IL"); err == nil {
		t.Fatal("Expected error for unparseable latitude")
	}
}

func TestReverseName(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"city", `{"address": {"city": "Omaha"}}`, "near Omaha"},
		{"town fallback", `{"address": {"town": "North Platte"}}`, "near North Platte"},
		{"village fallback", `{"address": {"village": "Brule"}}`, "near Brule"},
		{"no locality", `{"address": {}}`, "at coordinates 41.10, -100.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasPrefix(r.URL.Path, "/reverse") {
					t.Errorf("Expected /reverse path, got %s", r.URL.Path)
				}
				fmt.Fprint(w, tt.body)
			}))

			got := client.ReverseName(context.Background(), geo.Point{Lat: 41.1, Lon: -100.5})
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReverseName_UpstreamFailure(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	got := client.ReverseName(context.Background(), geo.Point{Lat: 41.1, Lon: -100.5})
	if got != "at coordinates 41.10, -100.50" {
		t.Errorf("Expected coordinate fallback, got %q", got)
	}
}

func TestReverseName_Cached(t *testing.T) {
	var requests int
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"address": {"city": "Omaha"}}`)
	}))

	pt := geo.Point{Lat: 41.26, Lon: -95.93}
	client.ReverseName(context.Background(), pt)
	client.ReverseName(context.Background(), pt)

	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}
}
