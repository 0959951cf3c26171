package silence

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"cleave/internal/services"
)

var commandContext = exec.CommandContext

// Interval is one detected silence span within a clip, in clip-local seconds.
type Interval struct {
	Start    float64
	End      float64
	Duration float64
}

// Midpoint returns the center of the interval.
func (i Interval) Midpoint() float64 {
	return (i.Start + i.End) / 2
}

// Shift returns a copy of the interval offset by delta seconds. Used to map
// clip-local intervals back onto the source timeline.
func (i Interval) Shift(delta float64) Interval {
	return Interval{Start: i.Start + delta, End: i.End + delta, Duration: i.Duration}
}

// Detector finds silence intervals in an audio clip for one sensitivity
// configuration.
type Detector interface {
	Detect(ctx context.Context, clipPath string, noiseDb, minDurationSec float64) ([]Interval, error)
}

// Option configures the CLI detector.
type Option func(*CLI)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithTimeout bounds each detection call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI runs ffmpeg silencedetect.
type CLI struct {
	binary  string
	timeout time.Duration
}

// NewCLI constructs a CLI detector using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Detect runs silencedetect over clipPath and returns the ordered intervals.
// A clip with no qualifying silences returns an empty slice, not an error.
func (c *CLI) Detect(ctx context.Context, clipPath string, noiseDb, minDurationSec float64) ([]Interval, error) {
	clipPath = strings.TrimSpace(clipPath)
	if clipPath == "" {
		return nil, services.Wrap(services.ErrValidation, "silence", "detect", "empty clip path", nil)
	}

	detectCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	filter := fmt.Sprintf("silencedetect=noise=%gdB:duration=%g", noiseDb, minDurationSec)
	cmd := commandContext(detectCtx, c.binary, "-i", clipPath, "-af", filter, "-f", "null", "-", "-v", "info")
	// silencedetect reports on stderr; ffmpeg writes nothing useful to stdout here.
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(detectCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "silence", "detect", clipPath, err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "silence", "detect", clipPath, err)
	}

	return ParseIntervals(string(output), minDurationSec), nil
}

var _ Detector = (*CLI)(nil)
