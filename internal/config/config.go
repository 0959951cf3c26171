package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir" env:"CLEAVE_OUTPUT_DIR, overwrite"`
	WorkDir   string `toml:"work_dir" env:"CLEAVE_WORK_DIR, overwrite"`
}

// Tools names the external binaries the planner shells out to.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg" env:"CLEAVE_FFMPEG, overwrite"`
	FFprobe string `toml:"ffprobe" env:"CLEAVE_FFPROBE, overwrite"`
	Demucs  string `toml:"demucs" env:"CLEAVE_DEMUCS, overwrite"`
}

// Segmentation contains the cut planning tunables.
type Segmentation struct {
	IntervalMinutes       int   `toml:"interval_minutes"`
	TailGuardSeconds      int   `toml:"tail_guard_seconds"`
	FallbackOffsetSeconds int   `toml:"fallback_offset_seconds"`
	MinTailSeconds        int   `toml:"min_tail_seconds"`
	MinGapSeconds         int   `toml:"min_gap_seconds"`
	SearchRadiiSeconds    []int `toml:"search_radii_seconds"`
}

// Separation contains vocal isolation settings.
type Separation struct {
	Enabled        bool   `toml:"enabled"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeouts bounds every external call in seconds.
type Timeouts struct {
	ProbeSeconds   int `toml:"probe_seconds"`
	DetectSeconds  int `toml:"detect_seconds"`
	ExtractSeconds int `toml:"extract_seconds"`
	CutSeconds     int `toml:"cut_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"CLEAVE_LOG_FORMAT, overwrite"`
	Level  string `toml:"level" env:"CLEAVE_LOG_LEVEL, overwrite"`
}

// Config encapsulates all configuration values for cleave.
type Config struct {
	Paths        Paths        `toml:"paths"`
	Tools        Tools        `toml:"tools"`
	Segmentation Segmentation `toml:"segmentation"`
	Separation   Separation   `toml:"separation"`
	Timeouts     Timeouts     `toml:"timeouts"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cleave/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded, environment overrides applied, and
// tunables validated.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, "", false, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cleave.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Interval returns the planning interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Segmentation.IntervalMinutes) * time.Minute
}

// ProbeTimeout returns the duration-probe deadline.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Timeouts.ProbeSeconds) * time.Second
}

// DetectTimeout returns the pause-detection deadline per scan.
func (c *Config) DetectTimeout() time.Duration {
	return time.Duration(c.Timeouts.DetectSeconds) * time.Second
}

// ExtractTimeout returns the clip-extraction deadline.
func (c *Config) ExtractTimeout() time.Duration {
	return time.Duration(c.Timeouts.ExtractSeconds) * time.Second
}

// CutTimeout returns the per-segment cut deadline.
func (c *Config) CutTimeout() time.Duration {
	return time.Duration(c.Timeouts.CutSeconds) * time.Second
}

// SeparationTimeout returns the vocal-isolation deadline per clip.
func (c *Config) SeparationTimeout() time.Duration {
	return time.Duration(c.Separation.TimeoutSeconds) * time.Second
}

// EnsureDirectories creates required directories for planner operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.WorkDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
