package segmentation

// SourceType records how a cut point was chosen.
type SourceType string

const (
	// SourceDetected marks a point aligned to a detected pause.
	SourceDetected SourceType = "detected"
	// SourceFallback marks a point placed without any usable pause.
	SourceFallback SourceType = "fallback"
)

// Confidence grades how early in the trial sequence a point was accepted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// CutPoint is one resolved segment boundary. Created once per target
// timestamp and immutable afterwards.
type CutPoint struct {
	Target                 float64    `toml:"target"`
	Actual                 float64    `toml:"actual"`
	Deviation              float64    `toml:"deviation"`
	SourceIntervalDuration float64    `toml:"source_interval_duration"`
	SourceType             SourceType `toml:"source_type"`
	Confidence             Confidence `toml:"confidence"`
	ConfigLabel            string     `toml:"config_label,omitempty"`
	SearchRadiusSec        int        `toml:"search_radius_seconds,omitempty"`
}

// SegmentKind classifies a segment's position in the plan.
type SegmentKind string

const (
	SegmentStart  SegmentKind = "start"
	SegmentMiddle SegmentKind = "middle"
	SegmentEnd    SegmentKind = "end"
	SegmentWhole  SegmentKind = "whole"
)

// Segment is one contiguous span of the source, derived from the final
// cut point sequence.
type Segment struct {
	Index    int         `toml:"index"`
	Start    float64     `toml:"start"`
	End      float64     `toml:"end"`
	Duration float64     `toml:"duration"`
	Kind     SegmentKind `toml:"kind"`
}
