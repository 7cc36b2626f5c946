package planner

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Request is a trip-planning request: where the driver is, where the load
// is picked up, where it goes, the on-duty hours already spent in the
// rolling window (oldest day first), and when the trip starts.
type Request struct {
	CurrentLocation string    `json:"current_location"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	CycleHoursUsed  []float64 `json:"current_cycle_hours"`
	TripStart       time.Time `json:"trip_start"`
}

// Validate checks the request against the planner's input contract.
func (r Request) Validate() error {
	if r.CurrentLocation == "" {
		return fmt.Errorf("current_location is required")
	}
	if r.Origin == "" {
		return fmt.Errorf("origin is required")
	}
	if r.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if len(r.CycleHoursUsed) > cycleDays {
		return fmt.Errorf("current_cycle_hours has %d entries, at most %d allowed", len(r.CycleHoursUsed), cycleDays)
	}
	for i, h := range r.CycleHoursUsed {
		if h < 0 {
			return fmt.Errorf("current_cycle_hours[%d] is negative", i)
		}
	}
	if r.TripStart.IsZero() {
		return fmt.Errorf("trip_start is required")
	}
	return nil
}

// cycleWindow returns the request's cycle hours padded on the left with
// zero days to the full window length, so the simulation always sees
// exactly one entry per rolling-window day.
func (r Request) cycleWindow() []float64 {
	window := make([]float64, cycleDays)
	copy(window[cycleDays-len(r.CycleHoursUsed):], r.CycleHoursUsed)
	return window
}

// Fingerprint returns a deterministic key for memoizing plan responses.
// Identical inputs always plan to identical output, so the key only needs
// to capture the request itself.
func (r Request) Fingerprint() string {
	canonical := struct {
		CurrentLocation string    `json:"c"`
		Origin          string    `json:"o"`
		Destination     string    `json:"d"`
		CycleHoursUsed  []float64 `json:"h"`
		TripStartUnix   int64     `json:"t"`
	}{
		CurrentLocation: r.CurrentLocation,
		Origin:          r.Origin,
		Destination:     r.Destination,
		CycleHoursUsed:  r.cycleWindow(),
		TripStartUnix:   r.TripStart.Unix(),
	}

	payload, _ := json.Marshal(canonical)
	digest := sha256.Sum256(payload)
	return hex.EncodeToString(digest[:])
}
