package plan

import (
	"math"
	"time"

	"cleave/internal/segmentation"
)

// CutPlan is the finished planning artifact: every resolved cut point plus
// the segment list derived from them. Written once at the end of a
// successful planning run.
type CutPlan struct {
	SourcePath        string                  `toml:"source_path"`
	CreatedAt         time.Time               `toml:"created_at"`
	TotalDuration     float64                 `toml:"total_duration"`
	TargetIntervalSec float64                 `toml:"target_interval_seconds"`
	CutPoints         []segmentation.CutPoint `toml:"cut_points"`
	Segments          []segmentation.Segment  `toml:"segments"`
}

// ProgressState is the per-point checkpoint written after each resolved cut
// point. It lets an interrupted run resume without repeating completed
// detection work.
type ProgressState struct {
	SourcePath         string                  `toml:"source_path"`
	TotalDuration      float64                 `toml:"total_duration"`
	TargetIntervalSec  float64                 `toml:"target_interval_seconds"`
	UpdatedAt          time.Time               `toml:"updated_at"`
	CompletedCutPoints []segmentation.CutPoint `toml:"completed_cut_points"`
}

// durationTolerance absorbs probe jitter between runs against the same file.
const durationTolerance = 1.0

// Matches reports whether saved progress belongs to the given planning
// request. Any mismatch means the state is stale and must be discarded.
func (p *ProgressState) Matches(sourcePath string, totalDuration, intervalSec float64) bool {
	if p == nil {
		return false
	}
	if p.SourcePath != sourcePath {
		return false
	}
	if math.Abs(p.TotalDuration-totalDuration) >= durationTolerance {
		return false
	}
	return p.TargetIntervalSec == intervalSec
}
