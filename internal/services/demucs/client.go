package demucs

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"cleave/internal/services"
)

var commandContext = exec.CommandContext

// Client defines vocal isolation behaviour.
type Client interface {
	IsolateVocals(ctx context.Context, clipPath, outDir string) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithModel selects the separation model.
func WithModel(model string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(model) != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds each separation call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI wraps the demucs command-line separator.
type CLI struct {
	binary  string
	model   string
	timeout time.Duration
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "demucs", model: "htdemucs", timeout: 5 * time.Minute}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// IsolateVocals runs two-stem separation on clipPath and returns the path of
// the isolated vocals track under outDir.
func (c *CLI) IsolateVocals(ctx context.Context, clipPath, outDir string) (string, error) {
	if strings.TrimSpace(clipPath) == "" {
		return "", services.Wrap(services.ErrValidation, "demucs", "separate", "clip path required", nil)
	}
	if strings.TrimSpace(outDir) == "" {
		return "", services.Wrap(services.ErrValidation, "demucs", "separate", "output directory required", nil)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"--two-stems", "vocals", "-n", c.model, "-o", outDir, clipPath}
	cmd := commandContext(runCtx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTimeout, "demucs", "separate", clipPath, err)
		}
		detail := strings.TrimSpace(string(output))
		if len(detail) > 300 {
			detail = detail[len(detail)-300:]
		}
		return "", services.Wrap(services.ErrExternalTool, "demucs", "separate", detail, err)
	}

	vocalsPath, err := findVocals(outDir, clipPath)
	if err != nil {
		return "", err
	}
	return vocalsPath, nil
}

// findVocals locates the vocals stem demucs wrote for the clip. Demucs lays
// output out as <outDir>/<model>/<track>/vocals.<ext>.
func findVocals(outDir, clipPath string) (string, error) {
	base := filepath.Base(clipPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var found string
	walkErr := filepath.WalkDir(outDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() || found != "" {
			return err
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "vocals.") {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) == stem {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return "", services.Wrap(services.ErrExternalTool, "demucs", "collect output", outDir, walkErr)
	}
	if found == "" {
		return "", services.Wrap(services.ErrNotFound, "demucs", "collect output", "no vocals stem produced", nil)
	}
	return found, nil
}

var _ Client = (*CLI)(nil)
