package eld

import "math"

// summaryTolerance is how far the four rounded totals may drift from 24
// before the difference is folded back into the off-duty bucket.
const summaryTolerance = 0.01

// Summary maps each duty status to its total hours for one day. After
// reconciliation the four values sum to 24.00 within summaryTolerance.
type Summary map[DutyStatus]float64

// summarize totals merged segment durations per status, rounds to two
// decimals, and reconciles against the 24-hour day. Residual rounding
// drift lands in the off-duty bucket; it is the default status already,
// so misattributing a hundredth of an hour there is the least surprising
// place for it.
func summarize(segs []Segment) Summary {
	s := Summary{
		StatusOffDuty:      0,
		StatusSleeperBerth: 0,
		StatusDriving:      0,
		StatusOnDuty:       0,
	}

	for _, seg := range segs {
		s[seg.Status] += seg.Hours()
	}
	for status, hours := range s {
		s[status] = round2(hours)
	}

	if total := s.Total(); math.Abs(total-hoursPerDay) > summaryTolerance {
		s[StatusOffDuty] = round2(s[StatusOffDuty] + (hoursPerDay - total))
	}

	return s
}

// Total returns the sum of the four buckets.
func (s Summary) Total() float64 {
	var total float64
	for _, status := range AllStatuses {
		total += s[status]
	}
	return total
}

// DisplaySummary is the three-category presentation view: off duty and
// sleeper berth are shown as one bucket.
type DisplaySummary struct {
	OffDuty float64 `json:"off_duty"`
	Driving float64 `json:"driving"`
	OnDuty  float64 `json:"on_duty"`
}

// Display folds sleeper-berth hours into off duty and re-applies the same
// 24-hour reconciliation, since re-rounding the merged bucket can
// reintroduce drift.
func (s Summary) Display() DisplaySummary {
	d := DisplaySummary{
		OffDuty: round2(s[StatusOffDuty] + s[StatusSleeperBerth]),
		Driving: s[StatusDriving],
		OnDuty:  s[StatusOnDuty],
	}

	total := d.OffDuty + d.Driving + d.OnDuty
	if math.Abs(total-hoursPerDay) > summaryTolerance {
		d.OffDuty = round2(d.OffDuty + (hoursPerDay - total))
	}

	return d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
