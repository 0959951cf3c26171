package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"cleave/internal/services"
)

var commandContext = exec.CommandContext

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Format Format `json:"format"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Prober reports media durations.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Option configures the CLI prober.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithTimeout bounds each probe call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI wraps the ffprobe command-line tool.
type CLI struct {
	binary  string
	timeout time.Duration
}

// NewCLI constructs a CLI prober using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffprobe", timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Duration probes the container duration of path in seconds.
// An unreadable or non-media file is a validation error, not a tool error.
func (c *CLI) Duration(ctx context.Context, path string) (float64, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, services.Wrap(services.ErrValidation, "ffprobe", "duration", "empty path", nil)
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := commandContext(probeCtx, c.binary, "-v", "quiet", "-print_format", "json", "-show_format", "--", path)
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			return 0, services.Wrap(services.ErrTimeout, "ffprobe", "duration", path, err)
		}
		return 0, services.Wrap(services.ErrValidation, "ffprobe", "duration", fmt.Sprintf("not a probeable media file: %s", path), err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, services.Wrap(services.ErrValidation, "ffprobe", "duration", "unparseable probe output", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(result.Format.Duration), 64)
	if err != nil || duration <= 0 {
		return 0, services.Wrap(services.ErrValidation, "ffprobe", "duration", fmt.Sprintf("no duration reported for %s", path), err)
	}
	return duration, nil
}

var _ Prober = (*CLI)(nil)
