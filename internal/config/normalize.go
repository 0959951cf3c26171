package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeSegmentation()
	c.normalizeSeparation()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Tools.Demucs) == "" {
		c.Tools.Demucs = defaultDemucsBinary
	}
}

func (c *Config) normalizeSegmentation() {
	if c.Segmentation.IntervalMinutes == 0 {
		c.Segmentation.IntervalMinutes = defaultIntervalMinutes
	}
	if c.Segmentation.TailGuardSeconds == 0 {
		c.Segmentation.TailGuardSeconds = defaultTailGuardSeconds
	}
	if c.Segmentation.FallbackOffsetSeconds == 0 {
		c.Segmentation.FallbackOffsetSeconds = defaultFallbackOffsetSeconds
	}
	if c.Segmentation.MinTailSeconds == 0 {
		c.Segmentation.MinTailSeconds = defaultMinTailSeconds
	}
	if c.Segmentation.MinGapSeconds == 0 {
		c.Segmentation.MinGapSeconds = defaultMinGapSeconds
	}
	if len(c.Segmentation.SearchRadiiSeconds) == 0 {
		c.Segmentation.SearchRadiiSeconds = defaultSearchRadii()
	}
}

func (c *Config) normalizeSeparation() {
	if strings.TrimSpace(c.Separation.Model) == "" {
		c.Separation.Model = defaultSeparationModel
	}
	if c.Separation.TimeoutSeconds == 0 {
		c.Separation.TimeoutSeconds = defaultSeparationTimeout
	}
	if c.Timeouts.ProbeSeconds == 0 {
		c.Timeouts.ProbeSeconds = defaultProbeTimeout
	}
	if c.Timeouts.DetectSeconds == 0 {
		c.Timeouts.DetectSeconds = defaultDetectTimeout
	}
	if c.Timeouts.ExtractSeconds == 0 {
		c.Timeouts.ExtractSeconds = defaultExtractTimeout
	}
	if c.Timeouts.CutSeconds == 0 {
		c.Timeouts.CutSeconds = defaultCutTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
