package segmentation

import (
	"context"
	"errors"
	"math"
	"testing"

	"cleave/internal/media/silence"
	"cleave/internal/services"
)

// fakeScanner answers scans from a fixed interval table, optionally failing
// a number of leading trials.
type fakeScanner struct {
	intervals []silence.Interval
	failFirst int
	callCount int
}

func (f *fakeScanner) Scan(_ context.Context, window ScanWindow, _ DetectionConfig) ([]silence.Interval, error) {
	f.callCount++
	if f.callCount <= f.failFirst {
		return nil, services.Wrap(services.ErrTimeout, "silence", "detect", "", nil)
	}
	var inWindow []silence.Interval
	for _, interval := range f.intervals {
		mid := interval.Midpoint()
		if mid >= window.Start && mid <= window.End {
			inWindow = append(inWindow, interval)
		}
	}
	return inWindow, nil
}

func newTestResolver(scanner Scanner) *Resolver {
	return NewResolver(scanner, ResolverOptions{
		SearchRadiiSec:    []int{15, 30, 60},
		FallbackOffsetSec: 30,
		MinTailSec:        30,
		MinGapSec:         1,
	})
}

func TestResolveFirstTrialIsHighConfidence(t *testing.T) {
	scanner := &fakeScanner{intervals: []silence.Interval{{Start: 1795, End: 1802, Duration: 7}}}
	resolver := newTestResolver(scanner)

	point, err := resolver.Resolve(context.Background(), Request{Target: 1800, TotalDuration: 3700})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if point.SourceType != SourceDetected {
		t.Fatalf("expected detected point, got %#v", point)
	}
	if point.Confidence != ConfidenceHigh {
		t.Fatalf("expected high confidence on first trial, got %s", point.Confidence)
	}
	if math.Abs(point.Actual-1798.5) > 1e-9 {
		t.Fatalf("expected actual 1798.5, got %v", point.Actual)
	}
	if math.Abs(point.Deviation+1.5) > 1e-9 {
		t.Fatalf("expected deviation -1.5, got %v", point.Deviation)
	}
	if scanner.callCount != 1 {
		t.Fatalf("expected resolution to stop after first trial, got %d scans", scanner.callCount)
	}
}

func TestResolveWidensRadiusAndDegradesConfidence(t *testing.T) {
	// Pause sits 50s past the target: outside radii 15 and 30, inside 60.
	scanner := &fakeScanner{intervals: []silence.Interval{{Start: 1849.9, End: 1850.1, Duration: 0.2}}}
	resolver := newTestResolver(scanner)

	point, err := resolver.Resolve(context.Background(), Request{Target: 1800, TotalDuration: 3700})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if point.Confidence != ConfidenceMedium {
		t.Fatalf("expected medium confidence on later trial, got %s", point.Confidence)
	}
	if point.SearchRadiusSec != 60 {
		t.Fatalf("expected acceptance at radius 60, got %d", point.SearchRadiusSec)
	}
	if scanner.callCount != 3 {
		t.Fatalf("expected three trials, got %d", scanner.callCount)
	}
}

func TestResolveTreatsTimeoutAsNoCandidate(t *testing.T) {
	scanner := &fakeScanner{
		intervals: []silence.Interval{{Start: 1799.9, End: 1800.1, Duration: 0.2}},
		failFirst: 2,
	}
	resolver := newTestResolver(scanner)

	point, err := resolver.Resolve(context.Background(), Request{Target: 1800, TotalDuration: 3700})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if point.SourceType != SourceDetected {
		t.Fatalf("expected detection to succeed after failed trials, got %#v", point)
	}
	if point.Confidence != ConfidenceMedium {
		t.Fatalf("expected medium confidence after skipped trials, got %s", point.Confidence)
	}
}

func TestResolveExhaustionProducesFallback(t *testing.T) {
	scanner := &fakeScanner{} // no intervals anywhere
	resolver := newTestResolver(scanner)

	point, err := resolver.Resolve(context.Background(), Request{Target: 1800, TotalDuration: 3700})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if point.SourceType != SourceFallback || point.Confidence != ConfidenceLow {
		t.Fatalf("expected low-confidence fallback, got %#v", point)
	}
	if point.Actual < point.Target || point.Actual > 3700-30 {
		t.Fatalf("expected fallback within [target, duration-minTail], got %v", point.Actual)
	}
	// 4 catalog configs x 3 radii
	if scanner.callCount != 12 {
		t.Fatalf("expected full trial table walked, got %d scans", scanner.callCount)
	}
}

func TestResolveFallbackClampsToTail(t *testing.T) {
	resolver := newTestResolver(&fakeScanner{})

	point, err := resolver.Resolve(context.Background(), Request{Target: 1990, TotalDuration: 2000})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if point.Actual != 2000-30 {
		t.Fatalf("expected fallback clamped to duration-minTail, got %v", point.Actual)
	}
}

func TestResolveFallbackStaysAboveFloor(t *testing.T) {
	resolver := newTestResolver(&fakeScanner{})

	point, err := resolver.Resolve(context.Background(), Request{Target: 1800, TotalDuration: 1840, Floor: 1815})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if point.Actual <= 1815 {
		t.Fatalf("expected fallback above floor, got %v", point.Actual)
	}
}

func TestResolveAbortsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := newTestResolver(&fakeScanner{})
	if _, err := resolver.Resolve(ctx, Request{Target: 1800, TotalDuration: 3700}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation error, got %v", err)
	}
}

func TestTrialsOrderConfigMajor(t *testing.T) {
	catalog := DefaultCatalog()
	trials := Trials(catalog, []int{15, 30})
	if len(trials) != len(catalog)*2 {
		t.Fatalf("unexpected trial count %d", len(trials))
	}
	if trials[0].Config.Label != catalog[0].Label || trials[0].RadiusSec != 15 {
		t.Fatalf("unexpected first trial %#v", trials[0])
	}
	if trials[1].RadiusSec != 30 {
		t.Fatal("expected radius to widen before config advances")
	}
	if trials[2].Config.Label != catalog[1].Label || trials[2].RadiusSec != 15 {
		t.Fatal("expected radius sequence reset on next config")
	}
}
