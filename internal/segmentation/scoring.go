package segmentation

import (
	"math"

	"cleave/internal/media/silence"
)

// Candidate is a scored silence interval eligible as a cut point.
type Candidate struct {
	Interval silence.Interval
	Config   DetectionConfig
	Distance float64
	Score    float64
}

// Midpoint returns the candidate's cut position on the source timeline.
func (c Candidate) Midpoint() float64 {
	return c.Interval.Midpoint()
}

// BestCandidate selects the highest scoring interval whose midpoint falls in
// [searchStart, searchEnd] and above the floor. It returns false when no
// interval qualifies; it never synthesizes one.
//
// The score multiplies three bounded factors: a duration desirability band
// (natural pauses beat blips and dead air), proximity 1/(distance+1), and
// the configuration's category bonus.
func BestCandidate(target, searchStart, searchEnd, floor float64, intervals []silence.Interval, cfg DetectionConfig) (Candidate, bool) {
	var best Candidate
	found := false

	for _, interval := range intervals {
		midpoint := interval.Midpoint()
		if midpoint < searchStart || midpoint > searchEnd {
			continue
		}
		if midpoint <= floor {
			continue
		}

		distance := math.Abs(midpoint - target)
		score := durationScore(interval.Duration) * proximityScore(distance) * cfg.Level.categoryBonus()

		candidate := Candidate{Interval: interval, Config: cfg, Distance: distance, Score: score}
		if !found || candidate.betterThan(best) {
			best = candidate
			found = true
		}
	}

	return best, found
}

// betterThan orders by score descending, then distance ascending.
func (c Candidate) betterThan(other Candidate) bool {
	if c.Score != other.Score {
		return c.Score > other.Score
	}
	return c.Distance < other.Distance
}

// durationScore favors the natural-pause band. Very short silences are
// usually noise; very long ones tend to be dead air rather than sentence
// boundaries, acceptable but de-weighted.
func durationScore(duration float64) float64 {
	switch {
	case duration >= 0.1 && duration <= 0.3:
		return 2.0
	case duration >= 0.05 && duration <= 0.5:
		return 1.5
	default:
		return 1.0
	}
}

// proximityScore is strictly decreasing in distance and never zero.
func proximityScore(distance float64) float64 {
	return 1.0 / (distance + 1.0)
}
