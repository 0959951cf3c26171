package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"cleave/internal/config"
	"cleave/internal/journal"
	"cleave/internal/logging"
	"cleave/internal/media/ffmpeg"
	"cleave/internal/plan"
	"cleave/internal/services"
)

const reportFileName = "report.toml"

// Report statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

// SegmentResult is the outcome of one segment cut.
type SegmentResult struct {
	Index       int     `toml:"index"`
	OutputPath  string  `toml:"output_path"`
	StartSec    float64 `toml:"start_seconds"`
	DurationSec float64 `toml:"duration_seconds"`
	SizeBytes   int64   `toml:"size_bytes"`
	Size        string  `toml:"size"`
	Success     bool    `toml:"success"`
	Error       string  `toml:"error,omitempty"`
}

// Report summarizes one execution of a plan. It is written to the output
// directory even when segments fail, so a partial run leaves an auditable
// record behind.
type Report struct {
	RunID         string          `toml:"run_id"`
	SourcePath    string          `toml:"source_path"`
	StartedAt     time.Time       `toml:"started_at"`
	FinishedAt    time.Time       `toml:"finished_at"`
	TotalSegments int             `toml:"total_segments"`
	Succeeded     int             `toml:"succeeded"`
	Failed        int             `toml:"failed"`
	Status        string          `toml:"status"`
	Results       []SegmentResult `toml:"results"`
}

// ReportPath returns the report location inside an output directory.
func ReportPath(outputDir string) string {
	return filepath.Join(outputDir, reportFileName)
}

// Options overrides the executor's collaborators, mainly for tests.
type Options struct {
	Cutter       ffmpeg.Cutter
	Journal      *journal.Store
	Logger       *slog.Logger
	ShowProgress bool
}

// Executor materializes a plan's segments with stream copy. Segment failures
// are independent: one broken cut is recorded and the rest still run.
type Executor struct {
	cfg          *config.Config
	cutter       ffmpeg.Cutter
	journal      *journal.Store
	logger       *slog.Logger
	showProgress bool
}

// New constructs an executor from configuration.
func New(cfg *config.Config, opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	cutter := opts.Cutter
	if cutter == nil {
		cutter = ffmpeg.NewCLI(
			ffmpeg.WithBinary(cfg.Tools.FFmpeg),
			ffmpeg.WithCutTimeout(cfg.CutTimeout()),
		)
	}
	return &Executor{
		cfg:          cfg,
		cutter:       cutter,
		journal:      opts.Journal,
		logger:       logging.NewComponentLogger(logger, "executor"),
		showProgress: opts.ShowProgress,
	}
}

// Execute cuts every segment of the plan into outputDir and writes the
// report. The returned report reflects what actually happened; the error is
// non-nil only for setup failures, report persistence failures, or
// cancellation. Callers decide the exit code from Report.Failed.
func (e *Executor) Execute(ctx context.Context, cutPlan *plan.CutPlan, outputDir string) (*Report, error) {
	if _, err := os.Stat(cutPlan.SourcePath); err != nil {
		return nil, services.Wrap(services.ErrValidation, "executor", "inspect source", cutPlan.SourcePath, err)
	}
	if len(cutPlan.Segments) == 0 {
		return nil, services.Wrap(services.ErrValidation, "executor", "inspect plan", "plan has no segments", nil)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStorage, "executor", "create output directory", outputDir, err)
	}

	report := &Report{
		RunID:         uuid.NewString(),
		SourcePath:    cutPlan.SourcePath,
		StartedAt:     time.Now().UTC(),
		TotalSegments: len(cutPlan.Segments),
	}
	e.logger.Info("execution started",
		logging.String("run_id", report.RunID),
		logging.String("source", cutPlan.SourcePath),
		logging.Int("segments", report.TotalSegments))

	if e.journal != nil {
		if err := e.journal.BeginRun(ctx, report.RunID, cutPlan.SourcePath, report.TotalSegments); err != nil {
			e.logger.Warn("journal unavailable for this run", logging.Error(err))
		}
	}

	bar := e.newProgressBar(report.TotalSegments)
	extension := filepath.Ext(cutPlan.SourcePath)
	if extension == "" {
		extension = ".mkv"
	}

	var runErr error
	for _, segment := range cutPlan.Segments {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		result := SegmentResult{
			Index:       segment.Index,
			OutputPath:  filepath.Join(outputDir, fmt.Sprintf("segment_%03d%s", segment.Index, extension)),
			StartSec:    segment.Start,
			DurationSec: segment.Duration,
		}

		if err := e.cutter.Cut(ctx, cutPlan.SourcePath, segment.Start, segment.Duration, result.OutputPath); err != nil {
			result.Error = err.Error()
			report.Failed++
			e.logger.Error("segment cut failed",
				logging.Int("segment", segment.Index),
				logging.Error(err))
		} else {
			result.Success = true
			report.Succeeded++
			if info, statErr := os.Stat(result.OutputPath); statErr == nil {
				result.SizeBytes = info.Size()
				result.Size = humanize.Bytes(uint64(info.Size()))
			}
			e.logger.Info("segment written",
				logging.Int("segment", segment.Index),
				logging.String("output", result.OutputPath),
				logging.String("size", result.Size))
		}

		report.Results = append(report.Results, result)
		e.recordAttempt(ctx, report.RunID, result)
		if bar != nil {
			bar.Add(1)
		}
	}

	report.FinishedAt = time.Now().UTC()
	report.Status = StatusSuccess
	if report.Failed > 0 || len(report.Results) < report.TotalSegments {
		report.Status = StatusPartial
	}

	if e.journal != nil {
		if err := e.journal.FinishRun(ctx, report.RunID, report.Succeeded, report.Failed, report.Status); err != nil {
			e.logger.Warn("could not finalize journal entry", logging.Error(err))
		}
	}

	// The report goes to disk before any error is surfaced.
	if err := plan.EncodeFileAtomic(ReportPath(outputDir), report); err != nil {
		return report, services.Wrap(services.ErrStorage, "executor", "write report", "", err)
	}

	e.logger.Info("execution finished",
		logging.String("run_id", report.RunID),
		logging.String("status", report.Status),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed))
	return report, runErr
}

func (e *Executor) recordAttempt(ctx context.Context, runID string, result SegmentResult) {
	if e.journal == nil {
		return
	}
	err := e.journal.RecordAttempt(ctx, runID, journal.Attempt{
		SegmentIndex: result.Index,
		OutputPath:   result.OutputPath,
		StartSec:     result.StartSec,
		DurationSec:  result.DurationSec,
		SizeBytes:    result.SizeBytes,
		Success:      result.Success,
		Error:        result.Error,
		AttemptedAt:  time.Now().UTC(),
	})
	if err != nil {
		e.logger.Warn("could not journal segment attempt",
			logging.Int("segment", result.Index),
			logging.Error(err))
	}
}

func (e *Executor) newProgressBar(total int) *progressbar.ProgressBar {
	if !e.showProgress {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("cutting segments"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
