package planner

import (
	"context"
	"fmt"
	"math"

	"github.com/openfreight/roadlog/internal/eld"
	"github.com/openfreight/roadlog/internal/geo"
	"github.com/openfreight/roadlog/internal/routing"
)

// legSpec describes one driving leg for the simulation: which activity
// label its stops carry, the endpoints stops are interpolated between, and
// how a day's driving is described.
type legSpec struct {
	activityType string
	from, to     geo.Point
	describe     func(hours float64) string
}

// simulation walks a trip leg by leg, splitting driving into HOS-legal
// days and inserting refueling stops and daily rests as it goes.
type simulation struct {
	planner *Planner

	day              int
	cycle            []float64 // rolling window, oldest day first
	avgSpeedMPH      float64
	milesSinceRefuel float64
	stops            []eld.Activity
}

func newSimulation(p *Planner, cycle []float64, avgSpeedMPH float64) *simulation {
	return &simulation{
		planner:     p,
		day:         1,
		cycle:       cycle,
		avgSpeedMPH: avgSpeedMPH,
	}
}

// driveLeg consumes one routed leg. Each iteration plans a single day's
// driving, capped by the daily driving limit and by whatever the rolling
// cycle window still allows; refueling interrupts a day when the odometer
// since the last refuel crosses the interval (carrying over between legs),
// and a mandatory rest separates consecutive driving days.
func (s *simulation) driveLeg(ctx context.Context, leg routing.Leg, spec legSpec) {
	cfg := s.planner.cfg

	remaining := leg.Hours
	drivenMiles := 0.0

	for remaining > 0 {
		available := cfg.MaxCycleHours - sum(s.cycle[1:])
		daily := math.Min(math.Min(remaining, cfg.MaxDailyDrivingHours), available)

		if daily <= 0 {
			// Cycle exhausted: rest a full day so the window rolls forward.
			s.restStop(ctx, spec, drivenMiles, leg.Miles)
			s.rollCycle(0)
			s.day++
			continue
		}

		dailyMiles := daily * s.avgSpeedMPH

		s.milesSinceRefuel += dailyMiles
		if s.milesSinceRefuel >= cfg.RefuelIntervalMiles {
			frac := fraction(drivenMiles+dailyMiles, leg.Miles)
			pt := geo.Interpolate(spec.from, spec.to, frac)
			name := s.planner.geocoder.ReverseName(ctx, pt)

			s.stops = append(s.stops, eld.Activity{
				Day:           s.day,
				Type:          eld.ActivityRefuel,
				DurationHours: cfg.RefuelStopHours,
				Description: fmt.Sprintf("Refueling stop %s after driving approximately %.2f miles.",
					name, s.milesSinceRefuel),
				Coordinates: coords(pt),
			})
			s.milesSinceRefuel = 0
			remaining -= cfg.RefuelStopHours
		}

		pt := geo.Interpolate(spec.from, spec.to, fraction(drivenMiles, leg.Miles))
		s.stops = append(s.stops, eld.Activity{
			Day:           s.day,
			Type:          spec.activityType,
			DurationHours: daily,
			DistanceMiles: dailyMiles,
			Description:   spec.describe(daily),
			Coordinates:   coords(pt),
		})

		remaining -= daily
		drivenMiles += dailyMiles
		s.rollCycle(daily)

		if remaining > 0 {
			s.restStop(ctx, spec, drivenMiles, leg.Miles)
			s.day++
		}
	}
}

// onDutyStop appends a fixed-duration stop (pickup, drop-off). Pickup time
// counts against the cycle window like a short working day; drop-off ends
// the trip and does not.
func (s *simulation) onDutyStop(activityType string, hours float64, pt geo.Point, description string, countsTowardCycle bool) {
	s.stops = append(s.stops, eld.Activity{
		Day:           s.day,
		Type:          activityType,
		DurationHours: hours,
		Description:   description,
		Coordinates:   coords(pt),
	})

	if countsTowardCycle {
		s.rollCycle(hours)
	}
}

func (s *simulation) restStop(ctx context.Context, spec legSpec, drivenMiles, legMiles float64) {
	cfg := s.planner.cfg

	pt := geo.Interpolate(spec.from, spec.to, fraction(drivenMiles, legMiles))
	name := s.planner.geocoder.ReverseName(ctx, pt)

	s.stops = append(s.stops, eld.Activity{
		Day:           s.day,
		Type:          eld.ActivityDailyRest,
		DurationHours: cfg.DailyRestHours,
		Description:   fmt.Sprintf("Mandatory %g-hour daily rest %s.", cfg.DailyRestHours, name),
		Coordinates:   coords(pt),
	})
}

// rollCycle advances the rolling window by one day, dropping the oldest
// day's hours and recording today's.
func (s *simulation) rollCycle(hours float64) {
	s.cycle = append(s.cycle[1:], hours)
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func fraction(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole
}

func coords(pt geo.Point) []float64 {
	return []float64{round4(pt.Lat), round4(pt.Lon)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
