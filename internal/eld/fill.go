package eld

// hoursPerDay is the span every day log must cover exactly.
const hoursPerDay = 24.0

// fillDay takes one day's segments, sorted ascending by start hour, and
// returns a sequence covering [0,24) with no gaps: uncovered time becomes
// synthesized off-duty segments, and segments running past midnight are
// clamped to 24. An empty day comes back as a single off-duty segment.
func fillDay(segs []Segment) []Segment {
	filled := make([]Segment, 0, len(segs)*2+1)

	covered := 0.0
	for _, seg := range segs {
		if seg.StartHour > covered {
			filled = append(filled, Segment{
				Status:    StatusOffDuty,
				StartHour: covered,
				EndHour:   seg.StartHour,
			})
		}

		end := seg.EndHour
		if end > hoursPerDay {
			end = hoursPerDay
		}
		if end > seg.StartHour {
			filled = append(filled, Segment{
				Status:    seg.Status,
				StartHour: seg.StartHour,
				EndHour:   end,
			})
		}
		if end > covered {
			covered = end
		}
	}

	if covered < hoursPerDay {
		filled = append(filled, Segment{
			Status:    StatusOffDuty,
			StartHour: covered,
			EndHour:   hoursPerDay,
		})
	}

	return filled
}
