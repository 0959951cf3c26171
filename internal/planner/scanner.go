package planner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cleave/internal/logging"
	"cleave/internal/media/ffmpeg"
	"cleave/internal/media/silence"
	"cleave/internal/segmentation"
	"cleave/internal/services/demucs"
)

// MediaScanner turns abstract scan requests into tool invocations: extract
// the window's audio, optionally isolate vocals, detect silences, and map
// the intervals back onto the source timeline.
type MediaScanner struct {
	sourcePath string
	workDir    string
	extractor  ffmpeg.Extractor
	separator  demucs.Client
	detector   silence.Detector
	logger     *slog.Logger
}

// NewMediaScanner builds a scanner for one source file. separator may be nil
// when vocal isolation is disabled.
func NewMediaScanner(sourcePath, workDir string, extractor ffmpeg.Extractor, separator demucs.Client, detector silence.Detector, logger *slog.Logger) *MediaScanner {
	return &MediaScanner{
		sourcePath: sourcePath,
		workDir:    workDir,
		extractor:  extractor,
		separator:  separator,
		detector:   detector,
		logger:     logging.NewComponentLogger(logger, "scanner"),
	}
}

// Scan extracts the window, runs detection at the given sensitivity, and
// returns intervals in source-timeline seconds. Temp clips are removed on
// every exit path. Separation failures degrade to analyzing the raw clip.
func (m *MediaScanner) Scan(ctx context.Context, window segmentation.ScanWindow, cfg segmentation.DetectionConfig) ([]silence.Interval, error) {
	duration := window.End - window.Start
	if duration <= 0 {
		return nil, nil
	}

	tempDir, err := os.MkdirTemp(m.workDir, "cleave-scan-")
	if err != nil {
		return nil, fmt.Errorf("create scan workspace: %w", err)
	}
	defer os.RemoveAll(tempDir)

	clipPath := filepath.Join(tempDir, "window.mp3")
	if err := m.extractor.ExtractAudio(ctx, m.sourcePath, window.Start, duration, clipPath); err != nil {
		return nil, err
	}

	analysisPath := clipPath
	if m.separator != nil {
		vocalsPath, err := m.separator.IsolateVocals(ctx, clipPath, tempDir)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.logger.Warn("vocal isolation failed, analyzing raw clip",
				logging.Float64("window_start", window.Start),
				logging.Error(err))
		} else {
			analysisPath = vocalsPath
		}
	}

	detected, err := m.detector.Detect(ctx, analysisPath, cfg.NoiseThresholdDb, cfg.MinDurationSec)
	if err != nil {
		return nil, err
	}

	intervals := make([]silence.Interval, 0, len(detected))
	for _, interval := range detected {
		intervals = append(intervals, interval.Shift(window.Start))
	}
	return intervals, nil
}

var _ segmentation.Scanner = (*MediaScanner)(nil)
