package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openfreight/roadlog/internal/eld"
	"github.com/openfreight/roadlog/internal/geo"
	"github.com/openfreight/roadlog/internal/metrics"
	"github.com/openfreight/roadlog/internal/routing"
)

// cycleDays is the length of the rolling on-duty window: today plus the
// seven days before it.
const cycleDays = 8

// Config holds the hours-of-service rules the simulation enforces.
type Config struct {
	MaxCycleHours        float64
	MaxDailyDrivingHours float64
	DailyRestHours       float64
	RefuelIntervalMiles  float64
	RefuelStopHours      float64
	PickupStopHours      float64
	DropoffStopHours     float64
}

// DefaultConfig returns the standard property-carrying HOS limits.
func DefaultConfig() Config {
	return Config{
		MaxCycleHours:        70,
		MaxDailyDrivingHours: 11,
		DailyRestHours:       10,
		RefuelIntervalMiles:  1000,
		RefuelStopHours:      0.5,
		PickupStopHours:      1,
		DropoffStopHours:     1,
	}
}

// Geocoder resolves place names to coordinates and coordinates to
// human-readable stop names.
type Geocoder interface {
	Lookup(ctx context.Context, query string) (geo.Point, error)
	ReverseName(ctx context.Context, pt geo.Point) string
}

// Router computes driving legs between two points.
type Router interface {
	Route(ctx context.Context, from, to geo.Point) (routing.Leg, error)
}

// Planner turns a three-point trip request into an ordered stop list and
// the per-day duty-status logbook for it.
type Planner struct {
	geocoder Geocoder
	router   Router
	cfg      Config
	logger   zerolog.Logger
}

// New creates a planner.
func New(geocoder Geocoder, router Router, cfg Config, logger zerolog.Logger) *Planner {
	return &Planner{
		geocoder: geocoder,
		router:   router,
		cfg:      cfg,
		logger:   logger.With().Str("component", "planner").Logger(),
	}
}

// Trip is a fully planned trip: geocoded totals, the ordered stop list,
// and the daily duty-status logs derived from it.
type Trip struct {
	CurrentLocation    string         `json:"current_location"`
	Origin             string         `json:"origin"`
	Destination        string         `json:"destination"`
	TripStart          time.Time      `json:"trip_start"`
	TotalDistanceMiles float64        `json:"total_distance_miles"`
	TotalDurationHours float64        `json:"total_duration_hours"`
	Stops              []eld.Activity `json:"planned_stops"`
	Logs               eld.Logbook    `json:"logs"`
}

// Plan geocodes the request's three locations, routes the two legs, runs
// the HOS simulation to place stops, and builds the daily logbook.
func (p *Planner) Plan(ctx context.Context, req Request) (*Trip, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	currentPt, err := p.geocoder.Lookup(ctx, req.CurrentLocation)
	if err != nil {
		return nil, fmt.Errorf("current location: %w", err)
	}
	originPt, err := p.geocoder.Lookup(ctx, req.Origin)
	if err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	destPt, err := p.geocoder.Lookup(ctx, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	leg1, err := p.router.Route(ctx, currentPt, originPt)
	if err != nil {
		return nil, fmt.Errorf("leg to origin: %w", err)
	}
	leg2, err := p.router.Route(ctx, originPt, destPt)
	if err != nil {
		return nil, fmt.Errorf("leg to destination: %w", err)
	}

	totalMiles := leg1.Miles + leg2.Miles
	totalHours := leg1.Hours + leg2.Hours

	avgSpeed := 0.0
	if totalHours > 0 {
		avgSpeed = totalMiles / totalHours
	}

	sim := newSimulation(p, req.cycleWindow(), avgSpeed)
	sim.driveLeg(ctx, leg1, legSpec{
		activityType: eld.ActivityDriveToOrigin,
		from:         currentPt,
		to:           originPt,
		describe: func(hours float64) string {
			return fmt.Sprintf("Driving for %.2f hours to reach %s.", hours, req.Origin)
		},
	})
	sim.onDutyStop(eld.ActivityPickup, p.cfg.PickupStopHours, originPt,
		fmt.Sprintf("One-hour stop for picking up the load at %s.", req.Origin), true)
	sim.driveLeg(ctx, leg2, legSpec{
		activityType: eld.ActivityDriveToDestination,
		from:         originPt,
		to:           destPt,
		describe: func(hours float64) string {
			return fmt.Sprintf("Driving for %.2f hours to the final destination.", hours)
		},
	})
	sim.onDutyStop(eld.ActivityDropoff, p.cfg.DropoffStopHours, destPt,
		fmt.Sprintf("One-hour stop for dropping off the load at %s.", req.Destination), false)

	logs, err := eld.BuildLogbook(sim.stops, req.TripStart, p.logger)
	if err != nil {
		return nil, fmt.Errorf("build logbook: %w", err)
	}

	var plannedHours float64
	for _, stop := range sim.stops {
		plannedHours += stop.DurationHours
	}

	metrics.TripsPlanned.Inc()
	metrics.PlanDuration.Observe(time.Since(start).Seconds())

	p.logger.Info().
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Float64("total_miles", totalMiles).
		Float64("planned_hours", plannedHours).
		Int("stops", len(sim.stops)).
		Int("days", len(logs)).
		Msg("Trip planned")

	return &Trip{
		CurrentLocation:    req.CurrentLocation,
		Origin:             req.Origin,
		Destination:        req.Destination,
		TripStart:          req.TripStart,
		TotalDistanceMiles: round2(totalMiles),
		TotalDurationHours: round2(plannedHours),
		Stops:              sim.stops,
		Logs:               logs,
	}, nil
}
