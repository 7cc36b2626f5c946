package eld

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// DayLog is one calendar day's duty-status record: merged segments covering
// [0,24) in ascending order, the reconciled per-status totals, and the
// three-category view renderers want.
type DayLog struct {
	Segments []Segment      `json:"segments"`
	Summary  Summary        `json:"summary"`
	Display  DisplaySummary `json:"display"`
}

// Logbook maps ISO calendar dates to day logs. Map iteration order is not
// deterministic; consumers should walk Dates().
type Logbook map[string]*DayLog

// Dates returns the logbook's calendar dates in ascending order.
func (lb Logbook) Dates() []string {
	dates := make([]string, 0, len(lb))
	for date := range lb {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// BuildLogbook runs the full pipeline: classify and expand the activities
// into per-day segments, then gap-fill, merge, and summarize each day. The
// computation is a pure function of its inputs; identical inputs always
// produce an identical logbook.
//
// A negative duration is a contract violation by the producer of the
// activity list and is rejected. Unknown activity types are logged at WARN
// and fall back to off duty, so a new stop type introduced upstream shows
// up in the logs instead of vanishing silently.
func BuildLogbook(activities []Activity, tripStart time.Time, logger zerolog.Logger) (Logbook, error) {
	for i, act := range activities {
		if act.DurationHours < 0 {
			return nil, fmt.Errorf("activity %d (%q): negative duration %v hours", i, act.Type, act.DurationHours)
		}
		if _, known := ClassifyKnown(act.Type); !known {
			logger.Warn().
				Str("activity_type", act.Type).
				Int("index", i).
				Msg("Unknown activity type, defaulting to off duty")
		}
	}

	byDate := make(map[string][]Segment)

	// The trip-start day always appears, even when no activity touches it
	// (an empty trip is one fully off-duty day).
	byDate[midnightOf(tripStart).Format(DateLayout)] = nil

	for _, ps := range Expand(activities, tripStart) {
		byDate[ps.Date] = append(byDate[ps.Date], ps.Segment)
	}

	// Each day is independent of the others; order only matters within a
	// day, and the expander already emits each day's segments in ascending
	// start order.
	logbook := make(Logbook, len(byDate))
	for date, segs := range byDate {
		merged := mergeSegments(fillDay(segs))
		summary := summarize(merged)
		logbook[date] = &DayLog{
			Segments: merged,
			Summary:  summary,
			Display:  summary.Display(),
		}
	}

	return logbook, nil
}
