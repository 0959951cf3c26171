package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"

	"cleave/internal/config"
	"cleave/internal/logging"
	"cleave/internal/media/ffmpeg"
	"cleave/internal/media/ffprobe"
	"cleave/internal/media/silence"
	"cleave/internal/plan"
	"cleave/internal/segmentation"
	"cleave/internal/services"
	"cleave/internal/services/demucs"
)

const lockFileName = ".cleave.lock"

// Options overrides the planner's collaborators, mainly for tests.
type Options struct {
	Prober ffprobe.Prober
	// NewScanner builds the pause scanner for one source file. When nil the
	// planner wires the real tool chain from configuration.
	NewScanner   func(sourcePath string) segmentation.Scanner
	Logger       *slog.Logger
	ShowProgress bool
}

// Planner resolves every target timestamp of a source into cut points and
// persists the result as a plan. Runs are resumable: each resolved point is
// checkpointed before the next target is attempted.
type Planner struct {
	cfg          *config.Config
	prober       ffprobe.Prober
	newScanner   func(sourcePath string) segmentation.Scanner
	logger       *slog.Logger
	showProgress bool
}

// New constructs a planner from configuration, building real tool clients
// for any collaborator the options leave nil.
func New(cfg *config.Config, opts Options) *Planner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	prober := opts.Prober
	if prober == nil {
		prober = ffprobe.NewCLI(
			ffprobe.WithBinary(cfg.Tools.FFprobe),
			ffprobe.WithTimeout(cfg.ProbeTimeout()),
		)
	}

	newScanner := opts.NewScanner
	if newScanner == nil {
		newScanner = func(sourcePath string) segmentation.Scanner {
			extractor := ffmpeg.NewCLI(
				ffmpeg.WithBinary(cfg.Tools.FFmpeg),
				ffmpeg.WithExtractTimeout(cfg.ExtractTimeout()),
			)
			detector := silence.NewCLI(
				silence.WithBinary(cfg.Tools.FFmpeg),
				silence.WithTimeout(cfg.DetectTimeout()),
			)
			var separator demucs.Client
			if cfg.Separation.Enabled {
				separator = demucs.NewCLI(
					demucs.WithBinary(cfg.Tools.Demucs),
					demucs.WithModel(cfg.Separation.Model),
					demucs.WithTimeout(cfg.SeparationTimeout()),
				)
			}
			return NewMediaScanner(sourcePath, cfg.Paths.WorkDir, extractor, separator, detector, logger)
		}
	}

	return &Planner{
		cfg:          cfg,
		prober:       prober,
		newScanner:   newScanner,
		logger:       logging.NewComponentLogger(logger, "planner"),
		showProgress: opts.ShowProgress,
	}
}

// Request describes one planning run.
type Request struct {
	SourcePath string
	OutputDir  string
	// IntervalSec overrides the configured interval when positive.
	IntervalSec float64
}

// Plan resolves the source into a cut plan and writes it to the output
// directory. An interrupted run resumes from the last checkpoint as long as
// the saved state still matches the request.
func (p *Planner) Plan(ctx context.Context, req Request) (*plan.CutPlan, error) {
	if _, err := os.Stat(req.SourcePath); err != nil {
		return nil, services.Wrap(services.ErrValidation, "planner", "inspect source", req.SourcePath, err)
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStorage, "planner", "create output directory", req.OutputDir, err)
	}

	lock := flock.New(filepath.Join(req.OutputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "planner", "acquire lock", "", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "planner", "acquire lock",
			fmt.Sprintf("another planner is active in %s", req.OutputDir), nil)
	}
	defer lock.Unlock()

	intervalSec := req.IntervalSec
	if intervalSec <= 0 {
		intervalSec = p.cfg.Interval().Seconds()
	}

	totalDuration, err := p.prober.Duration(ctx, req.SourcePath)
	if err != nil {
		return nil, err
	}

	store := plan.NewStore(req.OutputDir)
	targets := segmentation.TargetTimestamps(totalDuration, intervalSec, float64(p.cfg.Segmentation.TailGuardSeconds))

	p.logger.Info("planning started",
		logging.String("source", req.SourcePath),
		logging.Float64("duration_seconds", totalDuration),
		logging.Float64("interval_seconds", intervalSec),
		logging.Int("targets", len(targets)))

	if len(targets) == 0 {
		cutPlan := p.assemble(req.SourcePath, totalDuration, intervalSec, nil)
		if err := p.finalize(store, cutPlan); err != nil {
			return nil, err
		}
		p.logger.Info("source fits in a single segment, no cuts planned")
		return cutPlan, nil
	}

	completed, err := p.restoreProgress(store, req.SourcePath, totalDuration, intervalSec, targets)
	if err != nil {
		return nil, err
	}

	resolver := segmentation.NewResolver(p.newScanner(req.SourcePath), segmentation.ResolverOptions{
		SearchRadiiSec:    p.cfg.Segmentation.SearchRadiiSeconds,
		FallbackOffsetSec: float64(p.cfg.Segmentation.FallbackOffsetSeconds),
		MinTailSec:        float64(p.cfg.Segmentation.MinTailSeconds),
		MinGapSec:         float64(p.cfg.Segmentation.MinGapSeconds),
		Logger:            p.logger,
	})

	bar := p.newProgressBar(len(targets), len(completed))

	for i := len(completed); i < len(targets); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		floor := 0.0
		if len(completed) > 0 {
			floor = completed[len(completed)-1].Actual
		}

		point, err := resolver.Resolve(ctx, segmentation.Request{
			Target:        targets[i],
			TotalDuration: totalDuration,
			Floor:         floor,
		})
		if err != nil {
			return nil, err
		}
		completed = append(completed, point)

		if err := store.SaveProgress(&plan.ProgressState{
			SourcePath:         req.SourcePath,
			TotalDuration:      totalDuration,
			TargetIntervalSec:  intervalSec,
			UpdatedAt:          time.Now().UTC(),
			CompletedCutPoints: completed,
		}); err != nil {
			return nil, err
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	if !segmentation.ValidateCutPoints(completed, totalDuration) {
		return nil, services.Wrap(services.ErrValidation, "planner", "finalize", "cut points violate ordering", nil)
	}

	cutPlan := p.assemble(req.SourcePath, totalDuration, intervalSec, completed)
	if err := p.finalize(store, cutPlan); err != nil {
		return nil, err
	}

	p.logger.Info("planning finished",
		logging.Int("cut_points", len(cutPlan.CutPoints)),
		logging.Int("segments", len(cutPlan.Segments)))
	return cutPlan, nil
}

// restoreProgress loads a prior checkpoint and keeps it only when it still
// describes this exact request; anything stale or undecodable is discarded.
func (p *Planner) restoreProgress(store *plan.Store, sourcePath string, totalDuration, intervalSec float64, targets []float64) ([]segmentation.CutPoint, error) {
	state, err := store.LoadProgress()
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, nil
		}
		if errors.Is(err, services.ErrInvalidState) {
			p.logger.Warn("progress state unreadable, starting fresh", logging.Error(err))
			if clearErr := store.ClearProgress(); clearErr != nil {
				return nil, clearErr
			}
			return nil, nil
		}
		return nil, err
	}

	if state.Matches(sourcePath, totalDuration, intervalSec) && prefixAligned(state.CompletedCutPoints, targets, totalDuration) {
		p.logger.Info("resuming from checkpoint",
			logging.Int("completed_points", len(state.CompletedCutPoints)),
			logging.Int("targets", len(targets)))
		return state.CompletedCutPoints, nil
	}

	p.logger.Warn("discarding stale progress state", logging.String("source", sourcePath))
	if err := store.ClearProgress(); err != nil {
		return nil, err
	}
	return nil, nil
}

// prefixAligned verifies that checkpointed points form a valid prefix of the
// current target list.
func prefixAligned(points []segmentation.CutPoint, targets []float64, totalDuration float64) bool {
	if len(points) > len(targets) {
		return false
	}
	for i, point := range points {
		if point.Target != targets[i] {
			return false
		}
	}
	return segmentation.ValidateCutPoints(points, totalDuration)
}

func (p *Planner) assemble(sourcePath string, totalDuration, intervalSec float64, cutPoints []segmentation.CutPoint) *plan.CutPlan {
	return &plan.CutPlan{
		SourcePath:        sourcePath,
		CreatedAt:         time.Now().UTC(),
		TotalDuration:     totalDuration,
		TargetIntervalSec: intervalSec,
		CutPoints:         cutPoints,
		Segments:          segmentation.BuildSegments(cutPoints, totalDuration),
	}
}

func (p *Planner) finalize(store *plan.Store, cutPlan *plan.CutPlan) error {
	if err := store.SavePlan(cutPlan); err != nil {
		return err
	}
	return store.ClearProgress()
}

func (p *Planner) newProgressBar(total, done int) *progressbar.ProgressBar {
	if !p.showProgress {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("resolving cut points"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	if done > 0 {
		bar.Set(done)
	}
	return bar
}
