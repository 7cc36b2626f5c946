package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfreight/roadlog/internal/planner"
	"github.com/openfreight/roadlog/internal/storage/memory"
)

type stubPlanner struct {
	calls int
	trip  *planner.Trip
	err   error
}

func (p *stubPlanner) Plan(_ context.Context, req planner.Request) (*planner.Trip, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	trip := *p.trip
	trip.Origin = req.Origin
	trip.Destination = req.Destination
	return &trip, nil
}

func setupTestServer(t *testing.T, p TripPlanner) *Server {
	t.Helper()

	cache, err := memory.Open(16, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	logger := zerolog.New(nil).Level(zerolog.Disabled)
	return NewServer(Config{ListenAddr: "127.0.0.1:0"}, p, cache, logger)
}

func planBody() string {
	return `{
		"current_location": "Chicago, IL",
		"origin": "Springfield, IL",
		"destination": "Denver, CO",
		"current_cycle_hours": [0, 0, 0, 0, 0, 0, 0, 0],
		"trip_start": "2025-08-07T08:00:00Z"
	}`
}

func postPlan(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/plan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPlanTrip_Success(t *testing.T) {
	stub := &stubPlanner{trip: &planner.Trip{
		TotalDistanceMiles: 350,
		TotalDurationHours: 9,
	}}
	s := setupTestServer(t, stub)

	rec := postPlan(t, s, planBody())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got planner.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Springfield, IL", got.Origin)
	assert.Equal(t, "Denver, CO", got.Destination)
	assert.Equal(t, 350.0, got.TotalDistanceMiles)
}

func TestPlanTrip_CacheHit(t *testing.T) {
	stub := &stubPlanner{trip: &planner.Trip{TotalDistanceMiles: 350}}
	s := setupTestServer(t, stub)

	first := postPlan(t, s, planBody())
	require.Equal(t, http.StatusOK, first.Code)

	second := postPlan(t, s, planBody())
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, stub.calls, "second request served from cache")
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestPlanTrip_DifferentRequestsMissCache(t *testing.T) {
	stub := &stubPlanner{trip: &planner.Trip{}}
	s := setupTestServer(t, stub)

	postPlan(t, s, planBody())
	other := strings.Replace(planBody(), "Denver, CO", "Boise, ID", 1)
	rec := postPlan(t, s, other)

	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, stub.calls)
}

func TestPlanTrip_InvalidBody(t *testing.T) {
	stub := &stubPlanner{trip: &planner.Trip{}}
	s := setupTestServer(t, stub)

	rec := postPlan(t, s, "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.calls)
}

func TestPlanTrip_ValidationFailure(t *testing.T) {
	stub := &stubPlanner{trip: &planner.Trip{}}
	s := setupTestServer(t, stub)

	body := strings.Replace(planBody(), `"Springfield, IL"`, `""`, 1)
	rec := postPlan(t, s, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Message, "origin")
	assert.Zero(t, stub.calls)
}

func TestPlanTrip_PlannerFailure(t *testing.T) {
	stub := &stubPlanner{err: fmt.Errorf("origin: no such place: Atlantis")}
	s := setupTestServer(t, stub)

	rec := postPlan(t, s, planBody())

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Message, "Atlantis")
}

func TestPlanTrip_FailuresAreNotCached(t *testing.T) {
	stub := &stubPlanner{err: fmt.Errorf("upstream down")}
	s := setupTestServer(t, stub)

	postPlan(t, s, planBody())
	rec := postPlan(t, s, planBody())

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 2, stub.calls, "errors must not be memoized")
}

func TestPlanTrip_MethodNotAllowed(t *testing.T) {
	s := setupTestServer(t, &stubPlanner{trip: &planner.Trip{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/plan", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t, &stubPlanner{trip: &planner.Trip{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}
