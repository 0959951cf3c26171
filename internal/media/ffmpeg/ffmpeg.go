package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"cleave/internal/services"
)

var commandContext = exec.CommandContext

// Extractor produces analysis audio clips from a media source.
type Extractor interface {
	ExtractAudio(ctx context.Context, sourcePath string, startSec, durationSec float64, outPath string) error
}

// Cutter materializes one segment of the source with stream copy.
type Cutter interface {
	Cut(ctx context.Context, sourcePath string, startSec, durationSec float64, outPath string) error
}

// Option configures the CLI wrapper.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithExtractTimeout bounds each audio extraction call.
func WithExtractTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.extractTimeout = timeout
		}
	}
}

// WithCutTimeout bounds each segment cut call.
func WithCutTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.cutTimeout = timeout
		}
	}
}

// CLI wraps the ffmpeg command-line tool.
type CLI struct {
	binary         string
	extractTimeout time.Duration
	cutTimeout     time.Duration
}

// NewCLI constructs a CLI wrapper using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{
		binary:         "ffmpeg",
		extractTimeout: 10 * time.Minute,
		cutTimeout:     10 * time.Minute,
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// ExtractAudio writes a mono analysis clip of the window to outPath.
// The low bitrate keeps pause detection fast on long windows.
func (c *CLI) ExtractAudio(ctx context.Context, sourcePath string, startSec, durationSec float64, outPath string) error {
	if err := validateCutArgs(sourcePath, durationSec, outPath); err != nil {
		return err
	}
	args := []string{
		"-ss", formatSeconds(startSec),
		"-t", formatSeconds(durationSec),
		"-i", sourcePath,
		"-vn",
		"-acodec", "libmp3lame",
		"-ab", "128k",
		"-ar", "22050",
		"-ac", "1",
		"-y", outPath,
	}
	return c.run(ctx, "extract audio", c.extractTimeout, args)
}

// Cut copies the segment [startSec, startSec+durationSec) of the source to
// outPath without re-encoding. Existing output is overwritten so executions
// can be re-run idempotently.
func (c *CLI) Cut(ctx context.Context, sourcePath string, startSec, durationSec float64, outPath string) error {
	if err := validateCutArgs(sourcePath, durationSec, outPath); err != nil {
		return err
	}
	args := []string{
		"-i", sourcePath,
		"-ss", formatSeconds(startSec),
		"-t", formatSeconds(durationSec),
		"-c", "copy",
		"-y", outPath,
	}
	return c.run(ctx, "cut segment", c.cutTimeout, args)
}

func (c *CLI) run(ctx context.Context, operation string, timeout time.Duration, args []string) error {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := commandContext(runCtx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "ffmpeg", operation, "", err)
		}
		return services.Wrap(services.ErrExternalTool, "ffmpeg", operation, tail(string(output)), err)
	}
	return nil
}

func validateCutArgs(sourcePath string, durationSec float64, outPath string) error {
	if strings.TrimSpace(sourcePath) == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "arguments", "source path required", nil)
	}
	if strings.TrimSpace(outPath) == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "arguments", "output path required", nil)
	}
	if durationSec <= 0 {
		return services.Wrap(services.ErrValidation, "ffmpeg", "arguments", fmt.Sprintf("non-positive duration %v", durationSec), nil)
	}
	return nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

// tail keeps the end of tool output, where ffmpeg puts its error lines.
func tail(output string) string {
	output = strings.TrimSpace(output)
	const keep = 300
	if len(output) <= keep {
		return output
	}
	return "..." + output[len(output)-keep:]
}

var (
	_ Extractor = (*CLI)(nil)
	_ Cutter    = (*CLI)(nil)
)
