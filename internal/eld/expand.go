package eld

import "time"

// DateLayout is the ISO calendar-date key format used throughout the log.
const DateLayout = "2006-01-02"

// Segment is a contiguous span of a single calendar day spent in one duty
// status, expressed in hours since that day's local midnight.
type Segment struct {
	Status    DutyStatus `json:"status"`
	StartHour float64    `json:"start_hour"`
	EndHour   float64    `json:"end_hour"`
}

// Hours returns the segment's duration.
func (s Segment) Hours() float64 {
	return s.EndHour - s.StartHour
}

// PlacedSegment is a segment pinned to the calendar day it belongs to.
type PlacedSegment struct {
	Date string
	Segment
}

// Expand walks the activity list with a running clock starting at tripStart
// and converts each activity into one segment per calendar day it touches.
// An activity spanning midnight is split at each day boundary; a
// zero-duration activity yields nothing. Fractional hours are kept exact
// here; rounding happens only in the summary so error cannot compound
// across days.
func Expand(activities []Activity, tripStart time.Time) []PlacedSegment {
	var placed []PlacedSegment

	clock := tripStart
	for _, act := range activities {
		status := Classify(act.Type)
		end := clock.Add(durationFromHours(act.DurationHours))

		for cursor := clock; cursor.Before(end); {
			dayStart := midnightOf(cursor)
			dayEnd := dayStart.AddDate(0, 0, 1)

			segEnd := end
			if dayEnd.Before(segEnd) {
				segEnd = dayEnd
			}

			startHour := cursor.Sub(dayStart).Hours()
			endHour := segEnd.Sub(dayStart).Hours()
			if endHour > startHour {
				placed = append(placed, PlacedSegment{
					Date:    dayStart.Format(DateLayout),
					Segment: Segment{Status: status, StartHour: startHour, EndHour: endHour},
				})
			}
			cursor = segEnd
		}

		clock = end
	}

	return placed
}

func durationFromHours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
