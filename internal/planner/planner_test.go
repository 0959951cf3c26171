package planner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"cleave/internal/config"
	"cleave/internal/media/silence"
	"cleave/internal/plan"
	"cleave/internal/segmentation"
	"cleave/internal/services"
)

type fakeProber struct {
	duration float64
	err      error
}

func (f fakeProber) Duration(_ context.Context, _ string) (float64, error) {
	return f.duration, f.err
}

// stubScanner answers scans from a fixed pause table and records the window
// centers it was asked about. When cancelBeyond is set it cancels the run
// the first time a window past that position is scanned.
type stubScanner struct {
	pauses       []silence.Interval
	centers      []float64
	cancel       context.CancelFunc
	cancelBeyond float64
}

func (s *stubScanner) Scan(_ context.Context, window segmentation.ScanWindow, _ segmentation.DetectionConfig) ([]silence.Interval, error) {
	center := (window.Start + window.End) / 2
	s.centers = append(s.centers, center)
	if s.cancel != nil && center > s.cancelBeyond {
		s.cancel()
		return nil, context.Canceled
	}
	var inWindow []silence.Interval
	for _, pause := range s.pauses {
		mid := pause.Midpoint()
		if mid >= window.Start && mid <= window.End {
			inWindow = append(inWindow, pause)
		}
	}
	return inWindow, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Segmentation.SearchRadiiSeconds = []int{15, 30, 60}
	return &cfg
}

func newTestPlanner(duration float64, scanner *stubScanner) *Planner {
	return New(testConfig(), Options{
		Prober:     fakeProber{duration: duration},
		NewScanner: func(string) segmentation.Scanner { return scanner },
	})
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.mkv")
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestPlanResolvesAllTargets(t *testing.T) {
	scanner := &stubScanner{pauses: []silence.Interval{
		{Start: 1795, End: 1802, Duration: 7},
		{Start: 3595.4, End: 3595.6, Duration: 0.2},
	}}
	planner := newTestPlanner(3700, scanner)
	outputDir := t.TempDir()

	cutPlan, err := planner.Plan(context.Background(), Request{SourcePath: writeSource(t), OutputDir: outputDir})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(cutPlan.CutPoints) != 2 {
		t.Fatalf("expected 2 cut points, got %d", len(cutPlan.CutPoints))
	}
	if cutPlan.CutPoints[0].Actual != 1798.5 || cutPlan.CutPoints[1].Actual != 3595.5 {
		t.Fatalf("unexpected actuals: %#v", cutPlan.CutPoints)
	}
	if len(cutPlan.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(cutPlan.Segments))
	}

	store := plan.NewStore(outputDir)
	if _, err := store.LoadPlan(); err != nil {
		t.Fatalf("expected plan persisted, got %v", err)
	}
	if _, err := store.LoadProgress(); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected progress cleared after success, got %v", err)
	}
}

func TestPlanShortSourceProducesWholeSegment(t *testing.T) {
	scanner := &stubScanner{}
	planner := newTestPlanner(1200, scanner)

	cutPlan, err := planner.Plan(context.Background(), Request{SourcePath: writeSource(t), OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(cutPlan.CutPoints) != 0 {
		t.Fatalf("expected no cut points, got %#v", cutPlan.CutPoints)
	}
	if len(cutPlan.Segments) != 1 || cutPlan.Segments[0].Kind != segmentation.SegmentWhole {
		t.Fatalf("expected single whole segment, got %#v", cutPlan.Segments)
	}
	if len(scanner.centers) != 0 {
		t.Fatalf("expected no scans for short source, got %d", len(scanner.centers))
	}
}

func TestPlanResumesFromCheckpoint(t *testing.T) {
	scanner := &stubScanner{pauses: []silence.Interval{
		{Start: 3595.4, End: 3595.6, Duration: 0.2},
	}}
	planner := newTestPlanner(3700, scanner)
	outputDir := t.TempDir()
	sourcePath := writeSource(t)

	seeded := segmentation.CutPoint{
		Target:     1800,
		Actual:     1798.5,
		Deviation:  -1.5,
		SourceType: segmentation.SourceDetected,
		Confidence: segmentation.ConfidenceHigh,
	}
	store := plan.NewStore(outputDir)
	if err := store.SaveProgress(&plan.ProgressState{
		SourcePath:         sourcePath,
		TotalDuration:      3700,
		TargetIntervalSec:  1800,
		UpdatedAt:          time.Now().UTC(),
		CompletedCutPoints: []segmentation.CutPoint{seeded},
	}); err != nil {
		t.Fatalf("seed progress: %v", err)
	}

	cutPlan, err := planner.Plan(context.Background(), Request{SourcePath: sourcePath, OutputDir: outputDir})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(cutPlan.CutPoints) != 2 || cutPlan.CutPoints[0].Actual != 1798.5 {
		t.Fatalf("expected resumed plan to keep checkpointed point, got %#v", cutPlan.CutPoints)
	}
	for _, center := range scanner.centers {
		if center < 3000 {
			t.Fatalf("expected no rescans of completed targets, scanned window around %v", center)
		}
	}
}

func TestPlanDiscardsStaleCheckpoint(t *testing.T) {
	scanner := &stubScanner{pauses: []silence.Interval{
		{Start: 1795, End: 1802, Duration: 7},
		{Start: 3595.4, End: 3595.6, Duration: 0.2},
	}}
	planner := newTestPlanner(3700, scanner)
	outputDir := t.TempDir()
	sourcePath := writeSource(t)

	store := plan.NewStore(outputDir)
	if err := store.SaveProgress(&plan.ProgressState{
		SourcePath:         "/somewhere/else.mkv",
		TotalDuration:      9999,
		TargetIntervalSec:  1800,
		UpdatedAt:          time.Now().UTC(),
		CompletedCutPoints: []segmentation.CutPoint{{Target: 1800, Actual: 1750}},
	}); err != nil {
		t.Fatalf("seed progress: %v", err)
	}

	cutPlan, err := planner.Plan(context.Background(), Request{SourcePath: sourcePath, OutputDir: outputDir})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if cutPlan.CutPoints[0].Actual != 1798.5 {
		t.Fatalf("expected stale checkpoint discarded and target re-resolved, got %#v", cutPlan.CutPoints[0])
	}
	rescanned := false
	for _, center := range scanner.centers {
		if center < 2000 {
			rescanned = true
		}
	}
	if !rescanned {
		t.Fatal("expected first target to be scanned again after discard")
	}
}

func TestPlanDiscardsUnreadableCheckpoint(t *testing.T) {
	scanner := &stubScanner{pauses: []silence.Interval{
		{Start: 1795, End: 1802, Duration: 7},
		{Start: 3595.4, End: 3595.6, Duration: 0.2},
	}}
	planner := newTestPlanner(3700, scanner)
	outputDir := t.TempDir()

	store := plan.NewStore(outputDir)
	if err := os.WriteFile(store.ProgressPath(), []byte("][ not toml {{\n"), 0o644); err != nil {
		t.Fatalf("seed corrupt progress: %v", err)
	}

	cutPlan, err := planner.Plan(context.Background(), Request{SourcePath: writeSource(t), OutputDir: outputDir})
	if err != nil {
		t.Fatalf("Plan failed despite discardable progress: %v", err)
	}
	if len(cutPlan.CutPoints) != 2 || cutPlan.CutPoints[0].Actual != 1798.5 {
		t.Fatalf("expected fresh resolution of both targets, got %#v", cutPlan.CutPoints)
	}
	if _, err := store.LoadProgress(); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected corrupt progress removed, got %v", err)
	}
}

func TestPlanCheckpointSurvivesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanner := &stubScanner{
		pauses:       []silence.Interval{{Start: 1795, End: 1802, Duration: 7}},
		cancel:       cancel,
		cancelBeyond: 3000,
	}
	planner := newTestPlanner(3700, scanner)
	outputDir := t.TempDir()

	_, err := planner.Plan(ctx, Request{SourcePath: writeSource(t), OutputDir: outputDir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}

	state, err := plan.NewStore(outputDir).LoadProgress()
	if err != nil {
		t.Fatalf("expected checkpoint to survive interruption: %v", err)
	}
	if len(state.CompletedCutPoints) != 1 || state.CompletedCutPoints[0].Target != 1800 {
		t.Fatalf("unexpected checkpoint contents: %#v", state.CompletedCutPoints)
	}
}

func TestPlanMissingSourceIsValidationError(t *testing.T) {
	planner := newTestPlanner(3700, &stubScanner{})

	_, err := planner.Plan(context.Background(), Request{
		SourcePath: filepath.Join(t.TempDir(), "missing.mkv"),
		OutputDir:  t.TempDir(),
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing source, got %v", err)
	}
}

func TestPlanRefusesContestedOutputDir(t *testing.T) {
	outputDir := t.TempDir()
	holder := flock.New(filepath.Join(outputDir, lockFileName))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not pre-acquire lock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	planner := newTestPlanner(3700, &stubScanner{})
	_, err = planner.Plan(context.Background(), Request{SourcePath: writeSource(t), OutputDir: outputDir})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error on lock contention, got %v", err)
	}
}
