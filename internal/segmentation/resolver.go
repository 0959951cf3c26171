package segmentation

import (
	"context"
	"log/slog"
	"math"

	"cleave/internal/logging"
	"cleave/internal/media/silence"
)

// ScanWindow is an absolute span of the source timeline to scan for pauses.
type ScanWindow struct {
	Start float64
	End   float64
}

// Scanner produces silence intervals for one window and one detection
// configuration, mapped onto the source timeline.
type Scanner interface {
	Scan(ctx context.Context, window ScanWindow, cfg DetectionConfig) ([]silence.Interval, error)
}

// Trial is one (configuration, radius) step in the fallback chain.
type Trial struct {
	Config    DetectionConfig
	RadiusSec int
}

// Trials expands the catalog and radius sequence into the ordered trial
// table: every radius of the first configuration, then the next
// configuration with the radius sequence reset.
func Trials(catalog []DetectionConfig, radiiSec []int) []Trial {
	trials := make([]Trial, 0, len(catalog)*len(radiiSec))
	for _, cfg := range catalog {
		for _, radius := range radiiSec {
			trials = append(trials, Trial{Config: cfg, RadiusSec: radius})
		}
	}
	return trials
}

// ResolverOptions bundles the resolver tunables.
type ResolverOptions struct {
	Catalog           []DetectionConfig
	SearchRadiiSec    []int
	FallbackOffsetSec float64
	MinTailSec        float64
	MinGapSec         float64
	Logger            *slog.Logger
}

// Resolver turns one target timestamp into a cut point by walking the trial
// table until a candidate is accepted or the table is exhausted.
type Resolver struct {
	scanner        Scanner
	trials         []Trial
	fallbackOffset float64
	minTail        float64
	minGap         float64
	logger         *slog.Logger
}

// NewResolver constructs a resolver over the given scanner.
func NewResolver(scanner Scanner, opts ResolverOptions) *Resolver {
	catalog := opts.Catalog
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	radii := opts.SearchRadiiSec
	if len(radii) == 0 {
		radii = []int{15, 30, 60, 120, 300}
	}
	fallbackOffset := opts.FallbackOffsetSec
	if fallbackOffset <= 0 {
		fallbackOffset = 30
	}
	minTail := opts.MinTailSec
	if minTail <= 0 {
		minTail = 30
	}
	minGap := opts.MinGapSec
	if minGap <= 0 {
		minGap = 1
	}
	return &Resolver{
		scanner:        scanner,
		trials:         Trials(catalog, radii),
		fallbackOffset: fallbackOffset,
		minTail:        minTail,
		minGap:         minGap,
		logger:         logging.NewComponentLogger(opts.Logger, "resolver"),
	}
}

// Request describes one target timestamp to resolve.
type Request struct {
	Target        float64
	TotalDuration float64
	// Floor is the previous accepted actual; candidates at or below it are
	// not eligible, keeping the cut sequence strictly increasing.
	Floor float64
}

// Resolve walks the trial table for the request's target. A scan failure or
// timeout counts as "no candidate" for that trial and the table advances;
// only context cancellation aborts. When every trial is exhausted the
// resolver degrades to a low-confidence fallback point instead of failing.
func (r *Resolver) Resolve(ctx context.Context, req Request) (CutPoint, error) {
	for index, trial := range r.trials {
		if err := ctx.Err(); err != nil {
			return CutPoint{}, err
		}

		radius := float64(trial.RadiusSec)
		window := ScanWindow{
			Start: math.Max(0, req.Target-radius),
			End:   math.Min(req.TotalDuration, req.Target+radius),
		}

		intervals, err := r.scanner.Scan(ctx, window, trial.Config)
		if err != nil {
			if ctx.Err() != nil {
				return CutPoint{}, ctx.Err()
			}
			r.logger.Debug("scan trial failed",
				logging.Float64("target", req.Target),
				logging.String("config", trial.Config.Label),
				logging.Int("radius_seconds", trial.RadiusSec),
				logging.Error(err))
			continue
		}

		candidate, ok := BestCandidate(req.Target, window.Start, window.End, req.Floor, intervals, trial.Config)
		if !ok {
			continue
		}

		confidence := ConfidenceMedium
		if index == 0 {
			confidence = ConfidenceHigh
		}
		actual := candidate.Midpoint()
		point := CutPoint{
			Target:                 req.Target,
			Actual:                 actual,
			Deviation:              actual - req.Target,
			SourceIntervalDuration: candidate.Interval.Duration,
			SourceType:             SourceDetected,
			Confidence:             confidence,
			ConfigLabel:            trial.Config.Label,
			SearchRadiusSec:        trial.RadiusSec,
		}
		r.logger.Debug("cut point accepted",
			logging.Float64("target", req.Target),
			logging.Float64("actual", actual),
			logging.String("config", trial.Config.Label),
			logging.Int("radius_seconds", trial.RadiusSec),
			logging.String("confidence", string(confidence)))
		return point, nil
	}

	return r.fallback(req), nil
}

// fallback places a point past the target when no pause qualified anywhere.
func (r *Resolver) fallback(req Request) CutPoint {
	actual := math.Min(req.Target+r.fallbackOffset, req.TotalDuration-r.minTail)
	if actual <= req.Floor {
		actual = req.Floor + r.minGap
	}
	point := CutPoint{
		Target:     req.Target,
		Actual:     actual,
		Deviation:  actual - req.Target,
		SourceType: SourceFallback,
		Confidence: ConfidenceLow,
	}
	r.logger.Warn("no usable pause found, using fallback point",
		logging.Float64("target", req.Target),
		logging.Float64("actual", actual))
	return point
}
