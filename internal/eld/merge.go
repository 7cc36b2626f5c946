package eld

import "math"

// mergeEpsilon absorbs the floating-point drift that fractional-hour
// arithmetic leaves between a segment's end and its successor's start.
// Two same-status segments whose endpoints differ by less than this are
// treated as touching.
const mergeEpsilon = 0.001

// mergeSegments coalesces adjacent same-status runs in a single
// left-to-right pass. The input order is preserved, and merging an
// already-merged sequence changes nothing.
func mergeSegments(segs []Segment) []Segment {
	if len(segs) == 0 {
		return nil
	}

	merged := make([]Segment, 0, len(segs))
	merged = append(merged, segs[0])

	for _, seg := range segs[1:] {
		last := &merged[len(merged)-1]
		if seg.Status == last.Status && math.Abs(seg.StartHour-last.EndHour) < mergeEpsilon {
			last.EndHour = seg.EndHour
			continue
		}
		merged = append(merged, seg)
	}

	return merged
}
