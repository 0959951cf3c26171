package segmentation

// TargetTimestamps enumerates the ideal cut positions: multiples of the
// interval, stopping short of the tail guard so the final segment never
// degenerates to near-zero length.
func TargetTimestamps(totalDuration, intervalSec, tailGuardSec float64) []float64 {
	if intervalSec <= 0 {
		return nil
	}
	var targets []float64
	for t := intervalSec; t < totalDuration-tailGuardSec; t += intervalSec {
		targets = append(targets, t)
	}
	return targets
}

// BuildSegments derives the contiguous, exhaustive segment list from the
// final ordered cut points. With no cut points the whole source is one
// segment.
func BuildSegments(cutPoints []CutPoint, totalDuration float64) []Segment {
	if len(cutPoints) == 0 {
		return []Segment{{
			Index:    1,
			Start:    0,
			End:      totalDuration,
			Duration: totalDuration,
			Kind:     SegmentWhole,
		}}
	}

	segments := make([]Segment, 0, len(cutPoints)+1)
	segments = append(segments, Segment{
		Index:    1,
		Start:    0,
		End:      cutPoints[0].Actual,
		Duration: cutPoints[0].Actual,
		Kind:     SegmentStart,
	})

	for i := 0; i < len(cutPoints)-1; i++ {
		start := cutPoints[i].Actual
		end := cutPoints[i+1].Actual
		segments = append(segments, Segment{
			Index:    i + 2,
			Start:    start,
			End:      end,
			Duration: end - start,
			Kind:     SegmentMiddle,
		})
	}

	last := cutPoints[len(cutPoints)-1].Actual
	segments = append(segments, Segment{
		Index:    len(cutPoints) + 1,
		Start:    last,
		End:      totalDuration,
		Duration: totalDuration - last,
		Kind:     SegmentEnd,
	})

	return segments
}

// ValidateCutPoints checks the ordering invariant: actuals strictly
// increasing and inside (0, totalDuration).
func ValidateCutPoints(cutPoints []CutPoint, totalDuration float64) bool {
	previous := 0.0
	for _, point := range cutPoints {
		if point.Actual <= previous || point.Actual >= totalDuration {
			return false
		}
		previous = point.Actual
	}
	return true
}
